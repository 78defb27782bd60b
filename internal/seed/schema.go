package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/repository/postgres"
)

// EnsureSchema creates all tables and indexes for the configured prefix.
// Statements are idempotent so the seeder can run against an existing
// database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, prefix string) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id UUID PRIMARY KEY,
			display_name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			master_folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			object_id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			file_name TEXT NOT NULL,
			bucket TEXT NOT NULL,
			byte_size BIGINT NOT NULL DEFAULT 0,
			content_type TEXT NOT NULL DEFAULT '',
			backed BOOLEAN NOT NULL DEFAULT FALSE,
			user_manageable BOOLEAN NOT NULL DEFAULT TRUE,
			public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Articles + ` (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			content_json TEXT NOT NULL,
			author_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			picture_object_id UUID NOT NULL REFERENCES ` + tables.Files + `(object_id),
			public BOOLEAN NOT NULL DEFAULT FALSE,
			auto_publish_on TIMESTAMPTZ,
			modified_on TIMESTAMPTZ DEFAULT NOW(),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.ArticleEditors + ` (
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			PRIMARY KEY (article_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.ArticleReviewers + ` (
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			PRIMARY KEY (article_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Revisions + ` (
			id UUID PRIMARY KEY,
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			content_json TEXT NOT NULL,
			author_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id UUID PRIMARY KEY,
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			author_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			content TEXT NOT NULL,
			in_reply_to UUID REFERENCES ` + tables.Comments + `(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Reactions + ` (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			target_type TEXT NOT NULL,
			target_id UUID NOT NULL,
			reaction_type TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (user_id, target_type, target_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Tags + ` (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL UNIQUE,
			author_id UUID NOT NULL REFERENCES ` + tables.Users + `(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.ArticleTags + ` (
			article_id UUID NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			tag_id UUID NOT NULL REFERENCES ` + tables.Tags + `(id) ON DELETE CASCADE,
			PRIMARY KEY (article_id, tag_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `folders_owner ON ` + tables.Folders + `(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `folders_parent ON ` + tables.Folders + `(master_folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `files_owner ON ` + tables.Files + `(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `files_parent ON ` + tables.Files + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `articles_author ON ` + tables.Articles + `(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `comments_article ON ` + tables.Comments + `(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `reactions_target ON ` + tables.Reactions + `(target_type, target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `revisions_article ON ` + tables.Revisions + `(article_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
