package services

import (
	"context"

	"boards/internal/domain/models"
)

// TagService handles tag business logic
type TagService interface {
	// Create registers a new normalized tag
	Create(ctx context.Context, userID string, req *CreateTagRequest) (*models.Tag, error)

	// AddToArticle attaches a tag to an article the requester may edit,
	// creating the tag if it does not exist yet
	AddToArticle(ctx context.Context, userID, articleID, content string) error

	// RemoveFromArticle detaches a tag from an article
	RemoveFromArticle(ctx context.Context, userID, articleID, content string) error

	// Search returns tags matching the query
	Search(ctx context.Context, query string) ([]models.Tag, error)
}

// CreateTagRequest represents a tag creation request
type CreateTagRequest struct {
	Content string `json:"content"`
}
