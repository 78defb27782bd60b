package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"boards/internal/auth"
	"boards/internal/config"
	"boards/internal/handler"
	"boards/internal/middleware"
	"boards/internal/repository/postgres"
	"boards/internal/search"
	"boards/internal/service"
	"boards/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Object store; both buckets must exist before the first upload
	store, err := storage.NewS3ObjectStore(ctx, storage.S3Config{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}
	for _, bucket := range []string{cfg.FilesBucket, cfg.MediaBucket} {
		if err := store.EnsureBucket(ctx, bucket); err != nil {
			log.Fatalf("Failed to ensure bucket %s: %v", bucket, err)
		}
	}

	// Search index is optional; without a host everything degrades to
	// relational matching.
	var indexer search.Indexer = search.NoopIndexer{}
	if cfg.MeiliHost != "" {
		indexer = search.NewMeiliIndexer(cfg.MeiliHost, cfg.MeiliKey, logger)
		logger.Info("search index connected", "host", cfg.MeiliHost)
	} else {
		logger.Warn("no search index configured, search degrades to relational matching")
	}

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	articleRepo := postgres.NewArticleRepository(repoConfig)
	revisionRepo := postgres.NewRevisionRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	reactionRepo := postgres.NewReactionRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Services
	buckets := service.FileBuckets{Files: cfg.FilesBucket, Media: cfg.MediaBucket}
	fileService := service.NewFileService(fileRepo, store, buckets, cfg.SignedURLTTL, logger)
	folderService := service.NewFolderService(folderRepo, fileRepo, txManager, logger)
	articleService := service.NewArticleService(articleRepo, revisionRepo, fileRepo, userRepo, fileService, indexer, txManager, logger)
	commentService := service.NewCommentService(commentRepo, reactionRepo, articleRepo, txManager, logger)
	tagService := service.NewTagService(tagRepo, articleRepo, indexer, txManager, logger)

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	articleHandler := handler.NewArticleHandler(articleService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", fileHandler.HealthCheck)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.RenameFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("PUT /api/folders/{id}/folders/{childID}", folderHandler.AttachSubFolder)
	mux.HandleFunc("DELETE /api/folders/{id}/folders/{childID}", folderHandler.DetachSubFolder)
	mux.HandleFunc("PUT /api/folders/{id}/files/{objectID}", folderHandler.AddFileToFolder)
	mux.HandleFunc("DELETE /api/folders/{id}/files/{objectID}", folderHandler.RemoveFileFromFolder)
	mux.HandleFunc("GET /api/tree", folderHandler.Tree)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.Upload)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.Info)
	mux.HandleFunc("GET /api/files/{id}/url", fileHandler.AccessURL)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.Delete)

	// Article routes
	mux.HandleFunc("POST /api/articles", articleHandler.Create)
	mux.HandleFunc("GET /api/articles", articleHandler.ListMine)
	mux.HandleFunc("GET /api/articles/search", articleHandler.Search) // Must come before {id} route
	mux.HandleFunc("GET /api/articles/{id}", articleHandler.Get)
	mux.HandleFunc("GET /api/articles/{id}/content", articleHandler.GetContent)
	mux.HandleFunc("PUT /api/articles/{id}/content", articleHandler.UpdateContent)
	mux.HandleFunc("PATCH /api/articles/{id}/title", articleHandler.SetTitle)
	mux.HandleFunc("PATCH /api/articles/{id}/visibility", articleHandler.SetVisibility)
	mux.HandleFunc("PATCH /api/articles/{id}/publish-date", articleHandler.SetPublishDate)
	mux.HandleFunc("GET /api/articles/{id}/revisions", articleHandler.ListRevisions)
	mux.HandleFunc("PUT /api/articles/{id}/editors/{userID}", articleHandler.AddEditor)
	mux.HandleFunc("DELETE /api/articles/{id}/editors/{userID}", articleHandler.RemoveEditor)
	mux.HandleFunc("PUT /api/articles/{id}/reviewers/{userID}", articleHandler.AddReviewer)
	mux.HandleFunc("DELETE /api/articles/{id}/reviewers/{userID}", articleHandler.RemoveReviewer)
	mux.HandleFunc("POST /api/articles/{id}/picture", articleHandler.ReplacePicture)
	mux.HandleFunc("GET /api/articles/{id}/picture", articleHandler.PictureURL)

	// Comment and reaction routes
	mux.HandleFunc("POST /api/articles/{id}/comments", commentHandler.Add)
	mux.HandleFunc("GET /api/articles/{id}/comments", commentHandler.ListByArticle)
	mux.HandleFunc("DELETE /api/comments/{id}", commentHandler.Delete)
	mux.HandleFunc("PUT /api/reactions", commentHandler.SetReaction)
	mux.HandleFunc("GET /api/reactions/{targetType}/{targetID}", commentHandler.ListReactions)
	mux.HandleFunc("DELETE /api/reactions/{targetType}/{targetID}", commentHandler.RemoveReaction)

	// Tag routes
	mux.HandleFunc("POST /api/tags", tagHandler.Create)
	mux.HandleFunc("GET /api/tags/search", tagHandler.Search)
	mux.HandleFunc("PUT /api/articles/{id}/tags/{content}", tagHandler.AddToArticle)
	mux.HandleFunc("DELETE /api/articles/{id}/tags/{content}", tagHandler.RemoveFromArticle)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier, userRepo, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
