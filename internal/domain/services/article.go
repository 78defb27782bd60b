package services

import (
	"context"
	"time"

	"boards/internal/domain/models"
)

// ArticleService handles article business logic
type ArticleService interface {
	// Create creates a blank article with a placeholder picture
	Create(ctx context.Context, userID string, req *CreateArticleRequest) (*models.Article, error)

	// Get retrieves an article the requester may view
	Get(ctx context.Context, userID, articleID string) (*models.Article, error)

	// GetContent returns the article's content document
	GetContent(ctx context.Context, userID, articleID string) (string, error)

	// SetTitle renames an article
	SetTitle(ctx context.Context, userID, articleID, title string) error

	// UpdateContent replaces the content, recording a revision of the
	// previous content when it meaningfully changed
	UpdateContent(ctx context.Context, userID, articleID, contentJSON string) error

	// ListRevisions returns an article's revision history
	ListRevisions(ctx context.Context, userID, articleID string) ([]models.Revision, error)

	// AddEditor grants edit rights; author only
	AddEditor(ctx context.Context, userID, articleID, editorID string) error

	// RemoveEditor revokes edit rights; author only
	RemoveEditor(ctx context.Context, userID, articleID, editorID string) error

	// AddReviewer grants view rights on unpublished content; author only
	AddReviewer(ctx context.Context, userID, articleID, reviewerID string) error

	// RemoveReviewer revokes reviewer rights; author only
	RemoveReviewer(ctx context.Context, userID, articleID, reviewerID string) error

	// SetPublic toggles the public flag
	SetPublic(ctx context.Context, userID, articleID string, public bool) error

	// SetPublishDate schedules automatic publication
	SetPublishDate(ctx context.Context, userID, articleID string, publishOn *time.Time) error

	// ReplacePicture swaps the article picture for a freshly uploaded one
	ReplacePicture(ctx context.Context, userID, articleID string, req *UploadFileRequest) (*models.File, error)

	// PictureURL returns a signed URL for the article picture
	PictureURL(ctx context.Context, userID, articleID string) (string, error)

	// ListByAuthor returns the requester's own articles
	ListByAuthor(ctx context.Context, userID string) ([]models.Article, error)

	// Search returns public articles matching the query
	Search(ctx context.Context, query string) ([]models.Article, error)
}

// CreateArticleRequest represents an article creation request
type CreateArticleRequest struct {
	Title string `json:"title"`
}
