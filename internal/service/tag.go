package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
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

type tagService struct {
	tagRepo     repositories.TagRepository
	articleRepo repositories.ArticleRepository
	indexer     search.Indexer
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(
	tagRepo repositories.TagRepository,
	articleRepo repositories.ArticleRepository,
	indexer search.Indexer,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.TagService {
	return &tagService{
		tagRepo:     tagRepo,
		articleRepo: articleRepo,
		indexer:     indexer,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create registers a new normalized tag
func (s *tagService) Create(ctx context.Context, userID string, req *services.CreateTagRequest) (*models.Tag, error) {
	content := models.NormalizeTag(req.Content)
	if err := s.validateContent(content); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tag := &models.Tag{
		ID:        uuid.NewString(),
		Content:   content,
		AuthorID:  userID,
		CreatedAt: time.Now(),
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.indexer.IndexTag(ctx, tag)

	s.logger.Info("tag created", "id", tag.ID, "content", tag.Content)

	return tag, nil
}

// AddToArticle attaches a tag to an article the requester may edit. An
// unknown tag is registered on the fly, attributed to the requester.
func (s *tagService) AddToArticle(ctx context.Context, userID, articleID, content string) error {
	normalized := models.NormalizeTag(content)
	if err := s.validateContent(normalized); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		article, err := s.articleRepo.GetByID(ctx, articleID)
		if err != nil {
			return err
		}
		if !permissions.CanEditArticle(article, userID) {
			return fmt.Errorf("tag article %s: %w", articleID, domain.ErrForbidden)
		}

		if slices.Contains(article.TagContents, normalized) {
			return fmt.Errorf("%w: article already tagged %q", domain.ErrIllegalOperation, normalized)
		}

		tag, err := s.tagRepo.GetByContent(ctx, normalized)
		if errors.Is(err, domain.ErrNotFound) {
			tag = &models.Tag{
				ID:        uuid.NewString(),
				Content:   normalized,
				AuthorID:  userID,
				CreatedAt: time.Now(),
			}
			if err := s.tagRepo.Create(ctx, tag); err != nil {
				return err
			}
			s.indexer.IndexTag(ctx, tag)
		} else if err != nil {
			return err
		}

		return s.articleRepo.AddTag(ctx, articleID, tag.ID)
	})
}

// RemoveFromArticle detaches a tag from an article
func (s *tagService) RemoveFromArticle(ctx context.Context, userID, articleID, content string) error {
	normalized := models.NormalizeTag(content)

	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if !permissions.CanEditArticle(article, userID) {
		return fmt.Errorf("untag article %s: %w", articleID, domain.ErrForbidden)
	}

	if !slices.Contains(article.TagContents, normalized) {
		return fmt.Errorf("tag %q on article %s: %w", normalized, articleID, domain.ErrNotFound)
	}

	tag, err := s.tagRepo.GetByContent(ctx, normalized)
	if err != nil {
		return err
	}

	return s.articleRepo.RemoveTag(ctx, articleID, tag.ID)
}

// Search returns tags matching the query; index candidates widen the
// relational contains-match.
func (s *tagService) Search(ctx context.Context, query string) ([]models.Tag, error) {
	if err := validation.Validate(query, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	candidateIDs := s.indexer.SearchTagIDs(ctx, query, config.DefaultSearchLimit)
	return s.tagRepo.Search(ctx, query, candidateIDs, config.DefaultSearchLimit)
}

func (s *tagService) validateContent(normalized string) error {
	return validation.Validate(normalized,
		validation.Required,
		validation.Length(1, config.MaxTagLength),
	)
}
