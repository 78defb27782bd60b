package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface.
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository.
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = "object_id, owner_id, parent_id, file_name, bucket, byte_size, content_type, backed, user_manageable, public, created_at"

// Create inserts a new file metadata row.
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Files, fileColumns)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		file.ObjectID,
		file.OwnerID,
		file.ParentID,
		file.FileName,
		file.Bucket,
		file.ByteSize,
		file.ContentType,
		file.Backed,
		file.UserManageable,
		file.Public,
		file.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file %s: %w", file.ObjectID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("file owner or parent: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByObjectID retrieves a file by its storage key.
func (r *PostgresFileRepository) GetByObjectID(ctx context.Context, objectID string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE object_id = $1
	`, fileColumns, r.tables.Files)

	db := GetExecutor(ctx, r.pool)
	var file models.File
	err := db.QueryRow(ctx, query, objectID).Scan(
		&file.ObjectID,
		&file.OwnerID,
		&file.ParentID,
		&file.FileName,
		&file.Bucket,
		&file.ByteSize,
		&file.ContentType,
		&file.Backed,
		&file.UserManageable,
		&file.Public,
		&file.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", objectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// Update persists parent pointer and flag changes.
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, file_name = $2, backed = $3, user_manageable = $4, public = $5
		WHERE object_id = $6
	`, r.tables.Files)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query,
		file.ParentID,
		file.FileName,
		file.Backed,
		file.UserManageable,
		file.Public,
		file.ObjectID,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ObjectID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the metadata row.
func (r *PostgresFileRepository) Delete(ctx context.Context, objectID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE object_id = $1
	`, r.tables.Files)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query, objectID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", objectID, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner retrieves all files owned by a user.
func (r *PostgresFileRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query, ownerID)
}

// ListByFolder retrieves the membership set of a folder.
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = $1
		ORDER BY file_name ASC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query, folderID)
}

// ClearFolder un-parents every file in folderID.
func (r *PostgresFileRepository) ClearFolder(ctx context.Context, folderID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = NULL
		WHERE parent_id = $1
	`, r.tables.Files)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, folderID); err != nil {
		return fmt.Errorf("clear folder %s: %w", folderID, err)
	}

	return nil
}

func (r *PostgresFileRepository) queryFiles(ctx context.Context, query string, args ...interface{}) ([]models.File, error) {
	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ObjectID,
			&file.OwnerID,
			&file.ParentID,
			&file.FileName,
			&file.Bucket,
			&file.ByteSize,
			&file.ContentType,
			&file.Backed,
			&file.UserManageable,
			&file.Public,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
