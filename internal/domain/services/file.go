package services

import (
	"context"
	"io"

	"boards/internal/domain/models"
)

// FileService coordinates file metadata rows with backing objects. Ordering
// contracts: uploads write the object before the row; deletes remove the
// object before the row and abort on storage failure.
type FileService interface {
	// Upload stores a new user-manageable file
	Upload(ctx context.Context, userID string, req *UploadFileRequest) (*models.File, error)

	// CreatePlaceholder creates an unbacked, non-user-manageable file row
	// (article pictures start life this way)
	CreatePlaceholder(ctx context.Context, ownerID, fileName string) (*models.File, error)

	// UploadSystemObject stores a backed, non-user-manageable object on
	// behalf of another service
	UploadSystemObject(ctx context.Context, ownerID string, req *UploadFileRequest) (*models.File, error)

	// ReleaseSystemObject removes a non-user-manageable file and its
	// backing object; callers must have already made the replacement
	// durable
	ReleaseSystemObject(ctx context.Context, objectID string) error

	// SystemAccessURL returns a signed URL without consulting the file
	// predicates; callers gate access by their own rules (article
	// pictures are authorized through article view rights)
	SystemAccessURL(ctx context.Context, objectID string) (string, error)

	// Delete removes a user-manageable file owned by the requester
	Delete(ctx context.Context, userID, objectID string) error

	// AccessURL returns a time-limited URL for a viewable, backed file
	AccessURL(ctx context.Context, userID, objectID string) (string, error)

	// Info returns file metadata for a viewable file
	Info(ctx context.Context, userID, objectID string) (*models.File, error)
}

// UploadFileRequest represents a file upload
type UploadFileRequest struct {
	FileName    string
	ContentType string
	ByteSize    int64
	Public      bool
	Body        io.Reader
}
