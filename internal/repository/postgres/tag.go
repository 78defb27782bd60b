package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresTagRepository implements the TagRepository interface.
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new tag; content is unique.
func (r *PostgresTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, content, author_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Tags)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		tag.ID,
		tag.Content,
		tag.AuthorID,
		tag.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("tag %q: %w", tag.Content, domain.ErrConflict)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

// GetByContent retrieves a tag by its normalized content.
func (r *PostgresTagRepository) GetByContent(ctx context.Context, content string) (*models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT id, content, author_id, created_at
		FROM %s
		WHERE content = $1
	`, r.tables.Tags)

	db := GetExecutor(ctx, r.pool)
	var tag models.Tag
	err := db.QueryRow(ctx, query, content).Scan(
		&tag.ID,
		&tag.Content,
		&tag.AuthorID,
		&tag.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %q: %w", content, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

// Search returns tags matching the index candidates or the raw query.
func (r *PostgresTagRepository) Search(ctx context.Context, query string, candidateIDs []string, limit int) ([]models.Tag, error) {
	sql := fmt.Sprintf(`
		SELECT id, content, author_id, created_at
		FROM %s
		WHERE id = ANY($1) OR content ILIKE '%%' || $2 || '%%'
		ORDER BY content ASC
		LIMIT $3
	`, r.tables.Tags)

	if candidateIDs == nil {
		candidateIDs = []string{}
	}

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, sql, candidateIDs, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Content, &tag.AuthorID, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}
