// Package search keeps the external search index eventually consistent with
// the relational store. All writes are best-effort: a failed index call is
// logged and never fails the caller. Queries degrade to an empty candidate
// set on error.
package search

import (
	"context"

	"boards/internal/domain/models"
)

// Indexer is the search collaborator contract. Implementations must never
// return errors to callers; the index is advisory.
type Indexer interface {
	// IndexArticle adds or updates an article document.
	IndexArticle(ctx context.Context, article *models.Article)

	// IndexTag adds or updates a tag document.
	IndexTag(ctx context.Context, tag *models.Tag)

	// SearchArticleIDs returns candidate article IDs for a query, or an
	// empty set if the index is unavailable.
	SearchArticleIDs(ctx context.Context, query string, limit int) []string

	// SearchTagIDs returns candidate tag IDs for a query.
	SearchTagIDs(ctx context.Context, query string, limit int) []string
}

// NoopIndexer satisfies Indexer without an index; used when no search host
// is configured and in tests.
type NoopIndexer struct{}

func (NoopIndexer) IndexArticle(context.Context, *models.Article) {}

func (NoopIndexer) IndexTag(context.Context, *models.Tag) {}

func (NoopIndexer) SearchArticleIDs(context.Context, string, int) []string { return nil }

func (NoopIndexer) SearchTagIDs(context.Context, string, int) []string { return nil }
