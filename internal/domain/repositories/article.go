package repositories

import (
	"context"

	"boards/internal/domain/models"
)

// ArticleRepository defines data access for articles and their editor,
// reviewer, and tag sets. GetByID loads the sets; list methods do not.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error

	// GetByID retrieves an article with editor, reviewer and tag sets loaded.
	GetByID(ctx context.Context, id string) (*models.Article, error)

	// Update persists title, content, flags and picture reference.
	Update(ctx context.Context, article *models.Article) error

	ListByAuthor(ctx context.Context, authorID string) ([]models.Article, error)

	// SearchPublic returns public articles whose ID is in candidateIDs or
	// whose title/content matches query, capped at limit.
	SearchPublic(ctx context.Context, query string, candidateIDs []string, limit int) ([]models.Article, error)

	AddEditor(ctx context.Context, articleID, userID string) error
	RemoveEditor(ctx context.Context, articleID, userID string) error
	AddReviewer(ctx context.Context, articleID, userID string) error
	RemoveReviewer(ctx context.Context, articleID, userID string) error

	AddTag(ctx context.Context, articleID, tagID string) error
	RemoveTag(ctx context.Context, articleID, tagID string) error
}

// RevisionRepository stores immutable article content snapshots.
type RevisionRepository interface {
	Create(ctx context.Context, revision *models.Revision) error
	ListByArticle(ctx context.Context, articleID string) ([]models.Revision, error)
}
