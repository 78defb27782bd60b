package repositories

import (
	"context"

	"boards/internal/domain/models"
)

// TagRepository defines data access for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByContent(ctx context.Context, content string) (*models.Tag, error)

	// Search returns tags whose ID is in candidateIDs or whose content
	// contains query, capped at limit.
	Search(ctx context.Context, query string, candidateIDs []string, limit int) ([]models.Tag, error)
}

// UserRepository mirrors the identity provider's principals locally.
type UserRepository interface {
	// Upsert inserts the principal or refreshes its display name.
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}
