package repositories

import (
	"context"

	"boards/internal/domain/models"
)

// FolderRepository defines data access for the folder hierarchy.
type FolderRepository interface {
	// Create inserts a new folder.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// Update persists name and parent pointer changes.
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes the folder row only; callers are responsible for
	// re-rooting children and un-parenting member files first.
	Delete(ctx context.Context, id string) error

	// ListByOwner retrieves all folders owned by a user (flat list).
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// ListChildren lists immediate child folders.
	ListChildren(ctx context.Context, parentID string) ([]models.Folder, error)

	// ReparentChildren moves every child of parentID to newParent
	// (nil = root) in a single statement.
	ReparentChildren(ctx context.Context, parentID string, newParent *string) error
}
