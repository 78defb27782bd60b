package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain/repositories"
)

// RepositoryConfig holds shared configuration for repository implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names.
type TableNames struct {
	Users            string
	Folders          string
	Files            string
	Articles         string
	ArticleEditors   string
	ArticleReviewers string
	ArticleTags      string
	Revisions        string
	Comments         string
	Reactions        string
	Tags             string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:            fmt.Sprintf("%susers", prefix),
		Folders:          fmt.Sprintf("%sfolders", prefix),
		Files:            fmt.Sprintf("%sfiles", prefix),
		Articles:         fmt.Sprintf("%sarticles", prefix),
		ArticleEditors:   fmt.Sprintf("%sarticle_editors", prefix),
		ArticleReviewers: fmt.Sprintf("%sarticle_reviewers", prefix),
		ArticleTags:      fmt.Sprintf("%sarticle_tags", prefix),
		Revisions:        fmt.Sprintf("%srevisions", prefix),
		Comments:         fmt.Sprintf("%scomments", prefix),
		Reactions:        fmt.Sprintf("%sreactions", prefix),
		Tags:             fmt.Sprintf("%stags", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies it with a
// ping. Table names are interpolated before statements are prepared, so the
// per-environment prefixes are safe with prepared statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried in the context if one exists,
// otherwise the pool. This lets repositories transparently participate in
// transactions started by the service layer.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
