package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"boards/internal/config"
	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/permissions"
	"boards/internal/domain/repositories"
	"boards/internal/domain/services"
	"boards/internal/storage"
)

// FileBuckets names the object store buckets the file service writes to.
type FileBuckets struct {
	Files string
	Media string
}

type fileService struct {
	fileRepo repositories.FileRepository
	store    storage.ObjectStore
	buckets  FileBuckets
	urlTTL   time.Duration
	logger   *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	store storage.ObjectStore,
	buckets FileBuckets,
	urlTTL time.Duration,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo: fileRepo,
		store:    store,
		buckets:  buckets,
		urlTTL:   urlTTL,
		logger:   logger,
	}
}

// Upload stores a new user-manageable file. The object is written before
// the metadata row so a row never promises bytes that are not durable; if
// the row insert fails the fresh object is deleted best-effort.
func (s *fileService) Upload(ctx context.Context, userID string, req *services.UploadFileRequest) (*models.File, error) {
	file, err := s.upload(ctx, userID, req, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file uploaded",
		"object_id", file.ObjectID,
		"owner_id", userID,
		"bucket", file.Bucket,
		"bytes", file.ByteSize,
	)

	return file, nil
}

// CreatePlaceholder creates an unbacked, non-user-manageable file row.
// Nothing is written to the object store; Backed stays false until a real
// object replaces the placeholder.
func (s *fileService) CreatePlaceholder(ctx context.Context, ownerID, fileName string) (*models.File, error) {
	file := &models.File{
		ObjectID:       uuid.NewString(),
		OwnerID:        ownerID,
		FileName:       fileName,
		Bucket:         s.buckets.Files,
		Backed:         false,
		UserManageable: false,
		CreatedAt:      time.Now(),
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	return file, nil
}

// UploadSystemObject stores a backed, non-user-manageable object on behalf
// of another service
func (s *fileService) UploadSystemObject(ctx context.Context, ownerID string, req *services.UploadFileRequest) (*models.File, error) {
	return s.upload(ctx, ownerID, req, false)
}

func (s *fileService) upload(ctx context.Context, ownerID string, req *services.UploadFileRequest, userManageable bool) (*models.File, error) {
	if err := s.validateUpload(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	bucket := s.bucketFor(req.ContentType)
	objectID := uuid.NewString()

	if err := s.store.Put(ctx, bucket, objectID, req.Body, req.ByteSize, req.ContentType); err != nil {
		return nil, err
	}

	file := &models.File{
		ObjectID:       objectID,
		OwnerID:        ownerID,
		FileName:       req.FileName,
		Bucket:         bucket,
		ByteSize:       req.ByteSize,
		ContentType:    req.ContentType,
		Backed:         true,
		UserManageable: userManageable,
		Public:         req.Public,
		CreatedAt:      time.Now(),
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// The object is durable but unreferenced; remove it so the
		// store does not accumulate orphans.
		if cleanupErr := s.store.Delete(ctx, bucket, objectID); cleanupErr != nil {
			s.logger.Warn("orphaned object cleanup failed",
				"bucket", bucket,
				"object_id", objectID,
				"error", cleanupErr,
			)
		}
		return nil, err
	}

	return file, nil
}

// ReleaseSystemObject removes a non-user-manageable file and its backing
// object. Storage delete runs first; if it fails the row is retained so the
// object remains findable.
func (s *fileService) ReleaseSystemObject(ctx context.Context, objectID string) error {
	file, err := s.fileRepo.GetByObjectID(ctx, objectID)
	if err != nil {
		return err
	}

	if file.UserManageable {
		return fmt.Errorf("%w: file %s is user-managed", domain.ErrIllegalOperation, objectID)
	}

	return s.remove(ctx, file)
}

// Delete removes a user-manageable file owned by the requester. Storage
// delete runs first; failure aborts with the row retained.
func (s *fileService) Delete(ctx context.Context, userID, objectID string) error {
	file, err := s.fileRepo.GetByObjectID(ctx, objectID)
	if err != nil {
		return err
	}

	if !permissions.MayEditFile(file, userID) {
		return fmt.Errorf("delete file %s: %w", objectID, domain.ErrForbidden)
	}

	if err := s.remove(ctx, file); err != nil {
		return err
	}

	s.logger.Info("file deleted", "object_id", objectID, "owner_id", userID)
	return nil
}

func (s *fileService) remove(ctx context.Context, file *models.File) error {
	if file.Backed {
		if err := s.store.Delete(ctx, file.Bucket, file.ObjectID); err != nil {
			return err
		}
	}

	return s.fileRepo.Delete(ctx, file.ObjectID)
}

// AccessURL returns a time-limited URL for a viewable, backed file
func (s *fileService) AccessURL(ctx context.Context, userID, objectID string) (string, error) {
	file, err := s.fileRepo.GetByObjectID(ctx, objectID)
	if err != nil {
		return "", err
	}

	if !permissions.MayViewFile(file, userID) {
		return "", fmt.Errorf("access file %s: %w", objectID, domain.ErrForbidden)
	}
	if !file.Backed {
		return "", fmt.Errorf("file %s: %w", objectID, domain.ErrNotBacked)
	}

	return s.store.SignedURL(ctx, file.Bucket, file.ObjectID, s.urlTTL)
}

// SystemAccessURL returns a signed URL without consulting the file
// predicates; callers gate access by their own rules
func (s *fileService) SystemAccessURL(ctx context.Context, objectID string) (string, error) {
	file, err := s.fileRepo.GetByObjectID(ctx, objectID)
	if err != nil {
		return "", err
	}

	if !file.Backed {
		return "", fmt.Errorf("file %s: %w", objectID, domain.ErrNotBacked)
	}

	return s.store.SignedURL(ctx, file.Bucket, file.ObjectID, s.urlTTL)
}

// Info returns file metadata for a viewable file
func (s *fileService) Info(ctx context.Context, userID, objectID string) (*models.File, error) {
	file, err := s.fileRepo.GetByObjectID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	if !permissions.MayViewFile(file, userID) {
		return nil, fmt.Errorf("file %s: %w", objectID, domain.ErrForbidden)
	}

	return file, nil
}

// bucketFor routes large media to its own bucket; everything else shares
// the general files bucket.
func (s *fileService) bucketFor(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return s.buckets.Media
	}
	return s.buckets.Files
}

func (s *fileService) validateUpload(req *services.UploadFileRequest) error {
	if req.Body == nil {
		return fmt.Errorf("upload body is required")
	}
	return validation.Errors{
		"file_name": validation.Validate(req.FileName,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
		),
		"content_type": validation.Validate(req.ContentType, validation.Required),
		"byte_size": validation.Validate(req.ByteSize,
			validation.Required,
			validation.Min(int64(1)),
			validation.Max(int64(config.MaxUploadBytes)),
		),
	}.Filter()
}
