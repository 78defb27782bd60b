package repositories

import (
	"context"

	"boards/internal/domain/models"
)

// FileRepository defines data access for file metadata rows.
type FileRepository interface {
	// Create inserts a new file metadata row.
	Create(ctx context.Context, file *models.File) error

	// GetByObjectID retrieves a file by its storage key.
	GetByObjectID(ctx context.Context, objectID string) (*models.File, error)

	// Update persists parent pointer and flag changes.
	Update(ctx context.Context, file *models.File) error

	// Delete removes the metadata row.
	Delete(ctx context.Context, objectID string) error

	// ListByOwner retrieves all files owned by a user.
	ListByOwner(ctx context.Context, ownerID string) ([]models.File, error)

	// ListByFolder retrieves the membership set of a folder.
	ListByFolder(ctx context.Context, folderID string) ([]models.File, error)

	// ClearFolder un-parents every file in folderID in a single statement.
	ClearFolder(ctx context.Context, folderID string) error
}
