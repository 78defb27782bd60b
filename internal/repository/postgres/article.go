package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresArticleRepository implements the ArticleRepository interface.
type PostgresArticleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(config *RepositoryConfig) repositories.ArticleRepository {
	return &PostgresArticleRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const articleColumns = "id, title, content_json, author_id, picture_object_id, public, auto_publish_on, modified_on, created_at"

// Create inserts a new article.
func (r *PostgresArticleRepository) Create(ctx context.Context, article *models.Article) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Articles, articleColumns)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		article.ID,
		article.Title,
		article.ContentJSON,
		article.AuthorID,
		article.PictureID,
		article.Public,
		article.AutoPublishOn,
		article.ModifiedOn,
		article.CreatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("article author or picture: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

// GetByID retrieves an article with editor, reviewer and tag sets loaded.
func (r *PostgresArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, articleColumns, r.tables.Articles)

	db := GetExecutor(ctx, r.pool)
	var article models.Article
	err := db.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.ContentJSON,
		&article.AuthorID,
		&article.PictureID,
		&article.Public,
		&article.AutoPublishOn,
		&article.ModifiedOn,
		&article.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	article.EditorIDs, err = r.listSet(ctx, r.tables.ArticleEditors, "user_id", id)
	if err != nil {
		return nil, err
	}
	article.ReviewerIDs, err = r.listSet(ctx, r.tables.ArticleReviewers, "user_id", id)
	if err != nil {
		return nil, err
	}

	tagQuery := fmt.Sprintf(`
		SELECT t.content
		FROM %s at
		JOIN %s t ON t.id = at.tag_id
		WHERE at.article_id = $1
		ORDER BY t.content ASC
	`, r.tables.ArticleTags, r.tables.Tags)
	article.TagContents, err = r.listStrings(ctx, tagQuery, id)
	if err != nil {
		return nil, err
	}

	return &article, nil
}

// Update persists title, content, flags and picture reference.
func (r *PostgresArticleRepository) Update(ctx context.Context, article *models.Article) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content_json = $2, picture_object_id = $3, public = $4,
		    auto_publish_on = $5, modified_on = $6
		WHERE id = $7
	`, r.tables.Articles)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query,
		article.Title,
		article.ContentJSON,
		article.PictureID,
		article.Public,
		article.AutoPublishOn,
		article.ModifiedOn,
		article.ID,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("article picture: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update article: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s: %w", article.ID, domain.ErrNotFound)
	}

	return nil
}

// ListByAuthor retrieves all articles written by a user.
func (r *PostgresArticleRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE author_id = $1
		ORDER BY modified_on DESC
	`, articleColumns, r.tables.Articles)

	return r.queryArticles(ctx, query, authorID)
}

// SearchPublic returns public articles matching the index candidates or the
// raw query, capped at limit.
func (r *PostgresArticleRepository) SearchPublic(ctx context.Context, query string, candidateIDs []string, limit int) ([]models.Article, error) {
	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE (public OR (auto_publish_on IS NOT NULL AND auto_publish_on <= now()))
		  AND (id = ANY($1) OR title ILIKE '%%' || $2 || '%%' OR content_json ILIKE '%%' || $2 || '%%')
		ORDER BY modified_on DESC
		LIMIT $3
	`, articleColumns, r.tables.Articles)

	if candidateIDs == nil {
		candidateIDs = []string{}
	}
	return r.queryArticles(ctx, sql, candidateIDs, query, limit)
}

// AddEditor adds a user to the article's editor set.
func (r *PostgresArticleRepository) AddEditor(ctx context.Context, articleID, userID string) error {
	return r.addSetMember(ctx, r.tables.ArticleEditors, articleID, userID)
}

// RemoveEditor removes a user from the article's editor set.
func (r *PostgresArticleRepository) RemoveEditor(ctx context.Context, articleID, userID string) error {
	return r.removeSetMember(ctx, r.tables.ArticleEditors, articleID, userID)
}

// AddReviewer adds a user to the article's reviewer set.
func (r *PostgresArticleRepository) AddReviewer(ctx context.Context, articleID, userID string) error {
	return r.addSetMember(ctx, r.tables.ArticleReviewers, articleID, userID)
}

// RemoveReviewer removes a user from the article's reviewer set.
func (r *PostgresArticleRepository) RemoveReviewer(ctx context.Context, articleID, userID string) error {
	return r.removeSetMember(ctx, r.tables.ArticleReviewers, articleID, userID)
}

// AddTag links a tag to an article.
func (r *PostgresArticleRepository) AddTag(ctx context.Context, articleID, tagID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (article_id, tag_id)
		VALUES ($1, $2)
	`, r.tables.ArticleTags)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, articleID, tagID); err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("tag on article: %w", domain.ErrConflict)
		}
		return fmt.Errorf("add article tag: %w", err)
	}
	return nil
}

// RemoveTag unlinks a tag from an article.
func (r *PostgresArticleRepository) RemoveTag(ctx context.Context, articleID, tagID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE article_id = $1 AND tag_id = $2
	`, r.tables.ArticleTags)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query, articleID, tagID)
	if err != nil {
		return fmt.Errorf("remove article tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag on article: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresArticleRepository) addSetMember(ctx context.Context, table, articleID, userID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (article_id, user_id)
		VALUES ($1, $2)
	`, table)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, articleID, userID); err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("user %s: %w", userID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return fmt.Errorf("add set member: %w", err)
	}
	return nil
}

func (r *PostgresArticleRepository) removeSetMember(ctx context.Context, table, articleID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE article_id = $1 AND user_id = $2
	`, table)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query, articleID, userID)
	if err != nil {
		return fmt.Errorf("remove set member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresArticleRepository) listSet(ctx context.Context, table, column, articleID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE article_id = $1
	`, column, table)

	return r.listStrings(ctx, query, articleID)
}

func (r *PostgresArticleRepository) listStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list strings: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan string: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strings: %w", err)
	}

	return values, nil
}

func (r *PostgresArticleRepository) queryArticles(ctx context.Context, query string, args ...interface{}) ([]models.Article, error) {
	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var article models.Article
		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.ContentJSON,
			&article.AuthorID,
			&article.PictureID,
			&article.Public,
			&article.AutoPublishOn,
			&article.ModifiedOn,
			&article.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}
