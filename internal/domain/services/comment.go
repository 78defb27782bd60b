package services

import (
	"context"

	"boards/internal/domain/models"
)

// CommentService handles comments and reactions
type CommentService interface {
	// Add posts a comment on an article the requester may view; a reply
	// references an existing comment on the same article
	Add(ctx context.Context, userID string, req *AddCommentRequest) (*models.Comment, error)

	// Delete removes the requester's own comment and its reactions
	Delete(ctx context.Context, userID, commentID string) error

	// ListByArticle returns an article's comments in creation order
	ListByArticle(ctx context.Context, userID, articleID string) ([]models.Comment, error)

	// SetReaction records the requester's single reaction on a target,
	// replacing any previous one
	SetReaction(ctx context.Context, userID string, req *SetReactionRequest) (*models.Reaction, error)

	// RemoveReaction clears the requester's reaction on a target
	RemoveReaction(ctx context.Context, userID string, target models.ReactionTarget, targetID string) error

	// ListReactions returns all reactions on a target
	ListReactions(ctx context.Context, userID string, target models.ReactionTarget, targetID string) ([]models.Reaction, error)
}

// AddCommentRequest represents a comment creation request
type AddCommentRequest struct {
	ArticleID string  `json:"article_id"`
	Content   string  `json:"content"`
	InReplyTo *string `json:"in_reply_to,omitempty"`
}

// SetReactionRequest represents a reaction upsert
type SetReactionRequest struct {
	TargetType models.ReactionTarget `json:"target_type"`
	TargetID   string                `json:"target_id"`
	Reaction   models.ReactionType   `json:"reaction"`
}
