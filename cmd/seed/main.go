package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"boards/internal/config"
	"boards/internal/repository/postgres"
	"boards/internal/seed"
)

func main() {
	fixturesPath := flag.String("fixtures", "seed/fixtures.yaml", "path to YAML fixtures file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if cfg.Environment == "prod" {
		log.Fatal("refusing to seed a production database")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := seed.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	fixtures, err := seed.Load(*fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	seeder := &seed.Seeder{
		Users:     postgres.NewUserRepository(repoConfig),
		Folders:   postgres.NewFolderRepository(repoConfig),
		Files:     postgres.NewFileRepository(repoConfig),
		Articles:  postgres.NewArticleRepository(repoConfig),
		Tags:      postgres.NewTagRepository(repoConfig),
		Comments:  postgres.NewCommentRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(pool, logger),
		Logger:    logger,
	}

	if err := seeder.Apply(ctx, fixtures); err != nil {
		log.Fatalf("Failed to apply fixtures: %v", err)
	}

	logger.Info("seeding complete", "fixtures", *fixturesPath, "table_prefix", cfg.TablePrefix)
}
