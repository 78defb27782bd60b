package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"boards/internal/config"
	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/permissions"
	"boards/internal/domain/repositories"
	"boards/internal/domain/services"
	"boards/internal/search"
)

// emptyContent is the content document a freshly created article carries.
const emptyContent = "{}"

type articleService struct {
	articleRepo  repositories.ArticleRepository
	revisionRepo repositories.RevisionRepository
	fileRepo     repositories.FileRepository
	userRepo     repositories.UserRepository
	fileSvc      services.FileService
	indexer      search.Indexer
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewArticleService creates a new article service
func NewArticleService(
	articleRepo repositories.ArticleRepository,
	revisionRepo repositories.RevisionRepository,
	fileRepo repositories.FileRepository,
	userRepo repositories.UserRepository,
	fileSvc services.FileService,
	indexer search.Indexer,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ArticleService {
	return &articleService{
		articleRepo:  articleRepo,
		revisionRepo: revisionRepo,
		fileRepo:     fileRepo,
		userRepo:     userRepo,
		fileSvc:      fileSvc,
		indexer:      indexer,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create creates a blank article with a placeholder picture. The placeholder
// row and the article row commit together.
func (s *articleService) Create(ctx context.Context, userID string, req *services.CreateArticleRequest) (*models.Article, error) {
	if err := s.validateTitle(req.Title); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var article *models.Article
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		placeholder, err := s.fileSvc.CreatePlaceholder(ctx, userID, req.Title+" picture")
		if err != nil {
			return fmt.Errorf("create placeholder picture: %w", err)
		}

		now := time.Now()
		article = &models.Article{
			ID:          uuid.NewString(),
			Title:       req.Title,
			ContentJSON: emptyContent,
			AuthorID:    userID,
			PictureID:   placeholder.ObjectID,
			ModifiedOn:  now,
			CreatedAt:   now,
		}

		return s.articleRepo.Create(ctx, article)
	})
	if err != nil {
		return nil, err
	}

	s.indexer.IndexArticle(ctx, article)

	s.logger.Info("article created",
		"id", article.ID,
		"title", article.Title,
		"author_id", userID,
	)

	return article, nil
}

// Get retrieves an article the requester may view
func (s *articleService) Get(ctx context.Context, userID, articleID string) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanViewArticle(article, userID) {
		return nil, fmt.Errorf("article %s: %w", articleID, domain.ErrForbidden)
	}

	return article, nil
}

// GetContent returns the article's content document
func (s *articleService) GetContent(ctx context.Context, userID, articleID string) (string, error) {
	article, err := s.Get(ctx, userID, articleID)
	if err != nil {
		return "", err
	}
	return article.ContentJSON, nil
}

// SetTitle renames an article
func (s *articleService) SetTitle(ctx context.Context, userID, articleID, title string) error {
	if err := s.validateTitle(title); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var article *models.Article
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.articleRepo.GetByID(ctx, articleID)
		if err != nil {
			return err
		}

		if !permissions.CanEditArticle(article, userID) {
			return fmt.Errorf("article %s: %w", articleID, domain.ErrForbidden)
		}

		article.Title = title
		article.ModifiedOn = time.Now()
		return s.articleRepo.Update(ctx, article)
	})
	if err != nil {
		return err
	}

	s.indexer.IndexArticle(ctx, article)
	return nil
}

// UpdateContent replaces the content document. The previous content is
// snapshotted as a revision attributed to the acting editor, but only when
// the content meaningfully changed; saving identical content is a no-op.
func (s *articleService) UpdateContent(ctx context.Context, userID, articleID, contentJSON string) error {
	if contentJSON == "" {
		return fmt.Errorf("%w: content is required", domain.ErrValidation)
	}

	var article *models.Article
	changed := false
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.articleRepo.GetByID(ctx, articleID)
		if err != nil {
			return err
		}

		if !permissions.CanEditArticle(article, userID) {
			return fmt.Errorf("article %s: %w", articleID, domain.ErrForbidden)
		}

		if article.ContentJSON == contentJSON {
			return nil
		}
		changed = true

		revision := &models.Revision{
			ID:          uuid.NewString(),
			ArticleID:   article.ID,
			ContentJSON: article.ContentJSON,
			AuthorID:    userID,
			CreatedAt:   time.Now(),
		}
		if err := s.revisionRepo.Create(ctx, revision); err != nil {
			return fmt.Errorf("record revision: %w", err)
		}

		article.ContentJSON = contentJSON
		article.ModifiedOn = time.Now()
		return s.articleRepo.Update(ctx, article)
	})
	if err != nil {
		return err
	}

	if changed {
		s.indexer.IndexArticle(ctx, article)
		s.logger.Info("article content updated", "id", articleID, "editor_id", userID)
	}

	return nil
}

// ListRevisions returns an article's revision history; edit rights required
func (s *articleService) ListRevisions(ctx context.Context, userID, articleID string) ([]models.Revision, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanEditArticle(article, userID) {
		return nil, fmt.Errorf("article %s: %w", articleID, domain.ErrForbidden)
	}

	return s.revisionRepo.ListByArticle(ctx, articleID)
}

// AddEditor grants edit rights; author only
func (s *articleService) AddEditor(ctx context.Context, userID, articleID, editorID string) error {
	return s.changeMembership(ctx, userID, articleID, editorID, s.articleRepo.AddEditor)
}

// RemoveEditor revokes edit rights; author only
func (s *articleService) RemoveEditor(ctx context.Context, userID, articleID, editorID string) error {
	return s.changeMembership(ctx, userID, articleID, editorID, s.articleRepo.RemoveEditor)
}

// AddReviewer grants view rights on unpublished content; author only
func (s *articleService) AddReviewer(ctx context.Context, userID, articleID, reviewerID string) error {
	return s.changeMembership(ctx, userID, articleID, reviewerID, s.articleRepo.AddReviewer)
}

// RemoveReviewer revokes reviewer rights; author only
func (s *articleService) RemoveReviewer(ctx context.Context, userID, articleID, reviewerID string) error {
	return s.changeMembership(ctx, userID, articleID, reviewerID, s.articleRepo.RemoveReviewer)
}

func (s *articleService) changeMembership(ctx context.Context, userID, articleID, memberID string, apply func(context.Context, string, string) error) error {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}

	if article.AuthorID != userID {
		return fmt.Errorf("article %s membership: %w", articleID, domain.ErrForbidden)
	}
	if memberID == article.AuthorID {
		return fmt.Errorf("%w: author already holds full rights", domain.ErrIllegalOperation)
	}

	if _, err := s.userRepo.GetByID(ctx, memberID); err != nil {
		return err
	}

	return apply(ctx, articleID, memberID)
}

// SetPublic toggles the public flag. The article picture's readability
// follows the article so public readers can fetch it directly.
func (s *articleService) SetPublic(ctx context.Context, userID, articleID string, public bool) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		article, err := s.articleRepo.GetByID(ctx, articleID)
		if err != nil {
			return err
		}

		if article.AuthorID != userID {
			return fmt.Errorf("publish article %s: %w", articleID, domain.ErrForbidden)
		}

		article.Public = public
		article.ModifiedOn = time.Now()
		if err := s.articleRepo.Update(ctx, article); err != nil {
			return err
		}

		picture, err := s.fileRepo.GetByObjectID(ctx, article.PictureID)
		if err != nil {
			return fmt.Errorf("load article picture: %w", err)
		}
		picture.Public = public
		return s.fileRepo.Update(ctx, picture)
	})
	if err != nil {
		return err
	}

	s.logger.Info("article visibility changed", "id", articleID, "public", public)
	return nil
}

// SetPublishDate schedules automatic publication; nil clears the schedule
func (s *articleService) SetPublishDate(ctx context.Context, userID, articleID string, publishOn *time.Time) error {
	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		article, err := s.articleRepo.GetByID(ctx, articleID)
		if err != nil {
			return err
		}

		if article.AuthorID != userID {
			return fmt.Errorf("schedule article %s: %w", articleID, domain.ErrForbidden)
		}

		article.AutoPublishOn = publishOn
		article.ModifiedOn = time.Now()
		return s.articleRepo.Update(ctx, article)
	})
}

// ReplacePicture swaps the article picture. The new object and the updated
// article row are durable before the old picture is released, so the
// article never references missing bytes.
func (s *articleService) ReplacePicture(ctx context.Context, userID, articleID string, req *services.UploadFileRequest) (*models.File, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanEditArticle(article, userID) {
		return nil, fmt.Errorf("article %s picture: %w", articleID, domain.ErrForbidden)
	}

	req.Public = article.IsPublic(time.Now())
	newPicture, err := s.fileSvc.UploadSystemObject(ctx, article.AuthorID, req)
	if err != nil {
		return nil, err
	}

	oldPictureID := article.PictureID
	article.PictureID = newPicture.ObjectID
	article.ModifiedOn = time.Now()
	if err := s.articleRepo.Update(ctx, article); err != nil {
		// The fresh object is unreferenced; release it rather than the
		// one the article still points at.
		if cleanupErr := s.fileSvc.ReleaseSystemObject(ctx, newPicture.ObjectID); cleanupErr != nil {
			s.logger.Warn("replacement picture cleanup failed",
				"object_id", newPicture.ObjectID,
				"error", cleanupErr,
			)
		}
		return nil, err
	}

	// Old picture release is best-effort; a failure leaves an orphaned
	// object, never a dangling reference.
	if err := s.fileSvc.ReleaseSystemObject(ctx, oldPictureID); err != nil {
		s.logger.Warn("old picture release failed",
			"article_id", articleID,
			"object_id", oldPictureID,
			"error", err,
		)
	}

	s.logger.Info("article picture replaced",
		"article_id", articleID,
		"object_id", newPicture.ObjectID,
	)

	return newPicture, nil
}

// PictureURL returns a signed URL for the article picture
func (s *articleService) PictureURL(ctx context.Context, userID, articleID string) (string, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return "", err
	}

	if !permissions.CanViewArticle(article, userID) {
		return "", fmt.Errorf("article %s picture: %w", articleID, domain.ErrForbidden)
	}

	return s.fileSvc.SystemAccessURL(ctx, article.PictureID)
}

// ListByAuthor returns the requester's own articles
func (s *articleService) ListByAuthor(ctx context.Context, userID string) ([]models.Article, error) {
	return s.articleRepo.ListByAuthor(ctx, userID)
}

// Search returns public articles matching the query. Index candidates widen
// the result set; an unavailable index degrades to the relational match.
func (s *articleService) Search(ctx context.Context, query string) ([]models.Article, error) {
	if err := validation.Validate(query, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	candidateIDs := s.indexer.SearchArticleIDs(ctx, query, config.DefaultSearchLimit)
	return s.articleRepo.SearchPublic(ctx, query, candidateIDs, config.DefaultSearchLimit)
}

func (s *articleService) validateTitle(title string) error {
	return validation.Validate(title,
		validation.Required,
		validation.Length(1, config.MaxArticleTitleLength),
	)
}
