package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresCommentRepository implements the CommentRepository interface.
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, article_id, author_id, content, in_reply_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Comments)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		comment.ID,
		comment.ArticleID,
		comment.AuthorID,
		comment.Content,
		comment.InReplyTo,
		comment.CreatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("comment article or parent: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID.
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, article_id, author_id, content, in_reply_to, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Comments)

	db := GetExecutor(ctx, r.pool)
	var comment models.Comment
	err := db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.AuthorID,
		&comment.Content,
		&comment.InReplyTo,
		&comment.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

// Delete removes a comment row.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Comments)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByArticle retrieves all comments on an article, oldest first.
func (r *PostgresCommentRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, article_id, author_id, content, in_reply_to, created_at
		FROM %s
		WHERE article_id = $1
		ORDER BY created_at ASC
	`, r.tables.Comments)

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.ArticleID,
			&comment.AuthorID,
			&comment.Content,
			&comment.InReplyTo,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
