package repositories

import (
	"context"

	"boards/internal/domain/models"
)

// CommentRepository defines data access for threaded comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error)
}

// ReactionRepository defines data access for reactions. The store enforces
// UNIQUE(user_id, target_type, target_id) as the last line of defense for
// the at-most-one invariant.
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error

	// DeleteByUserAndTarget removes all reactions a user holds on a target.
	DeleteByUserAndTarget(ctx context.Context, userID string, targetType models.ReactionTarget, targetID string) error

	// DeleteByTarget removes every reaction on a target (comment cascade).
	DeleteByTarget(ctx context.Context, targetType models.ReactionTarget, targetID string) error

	ListByTarget(ctx context.Context, targetType models.ReactionTarget, targetID string) ([]models.Reaction, error)
}
