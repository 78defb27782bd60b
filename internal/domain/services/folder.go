package services

import (
	"context"

	"boards/internal/domain/models"
)

// FolderService handles folder hierarchy business logic
type FolderService interface {
	// CreateFolder creates a new root-level folder
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder with its member files
	GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)

	// RenameFolder renames a folder
	RenameFolder(ctx context.Context, userID, folderID string, req *RenameFolderRequest) (*models.Folder, error)

	// AttachSubFolder makes child a subfolder of parent
	AttachSubFolder(ctx context.Context, userID, parentID, childID string) error

	// DetachSubFolder detaches child from parent, re-rooting it
	DetachSubFolder(ctx context.Context, userID, parentID, childID string) error

	// AddFileToFolder places a file inside a folder
	AddFileToFolder(ctx context.Context, userID, folderID, objectID string) error

	// RemoveFileFromFolder removes a file from a folder
	RemoveFileFromFolder(ctx context.Context, userID, folderID, objectID string) error

	// DeleteFolder deletes a folder, re-rooting its children
	DeleteFolder(ctx context.Context, userID, folderID string) error

	// ListUserTree returns the requester's folders with member files plus
	// root-level files
	ListUserTree(ctx context.Context, userID string) (*UserTree, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// RenameFolderRequest represents a folder rename request
type RenameFolderRequest struct {
	Name string `json:"name"`
}

// UserTree is a user's full folder hierarchy with loose files
type UserTree struct {
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"` // files not placed in any folder
}
