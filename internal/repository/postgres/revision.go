package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresRevisionRepository implements the RevisionRepository interface.
type PostgresRevisionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewRevisionRepository creates a new revision repository.
func NewRevisionRepository(config *RepositoryConfig) repositories.RevisionRepository {
	return &PostgresRevisionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends an immutable content snapshot.
func (r *PostgresRevisionRepository) Create(ctx context.Context, revision *models.Revision) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, article_id, content_json, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Revisions)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		revision.ID,
		revision.ArticleID,
		revision.ContentJSON,
		revision.AuthorID,
		revision.CreatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("revision article %s: %w", revision.ArticleID, domain.ErrNotFound)
		}
		return fmt.Errorf("create revision: %w", err)
	}

	return nil
}

// ListByArticle retrieves revisions newest first.
func (r *PostgresRevisionRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Revision, error) {
	query := fmt.Sprintf(`
		SELECT id, article_id, content_json, author_id, created_at
		FROM %s
		WHERE article_id = $1
		ORDER BY created_at DESC
	`, r.tables.Revisions)

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		var revision models.Revision
		err := rows.Scan(
			&revision.ID,
			&revision.ArticleID,
			&revision.ContentJSON,
			&revision.AuthorID,
			&revision.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, revision)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}

	return revisions, nil
}
