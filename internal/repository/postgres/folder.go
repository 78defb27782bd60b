package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new folder.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, master_folder_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		folder.ID,
		folder.OwnerID,
		folder.MasterFolderID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder owner %s: %w", folder.OwnerID, domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, master_folder_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	var folder models.Folder
	err := db.QueryRow(ctx, query, id).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.MasterFolderID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update persists name and parent pointer changes.
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET master_folder_id = $1, name = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query,
		folder.MasterFolderID,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the folder row only.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s still referenced: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner retrieves all folders owned by a user.
func (r *PostgresFolderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, master_folder_id, name, created_at, updated_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, r.tables.Folders)

	return r.queryFolders(ctx, query, ownerID)
}

// ListChildren lists immediate child folders.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, master_folder_id, name, created_at, updated_at
		FROM %s
		WHERE master_folder_id = $1
		ORDER BY name ASC
	`, r.tables.Folders)

	return r.queryFolders(ctx, query, parentID)
}

// ReparentChildren moves every child of parentID to newParent (nil = root).
func (r *PostgresFolderRepository) ReparentChildren(ctx context.Context, parentID string, newParent *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET master_folder_id = $1, updated_at = now()
		WHERE master_folder_id = $2
	`, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, newParent, parentID); err != nil {
		return fmt.Errorf("reparent children of %s: %w", parentID, err)
	}

	return nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.MasterFolderID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
