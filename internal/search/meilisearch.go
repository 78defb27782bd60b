package search

import (
	"context"
	"log/slog"

	"github.com/meilisearch/meilisearch-go"

	"boards/internal/domain/models"
)

const (
	articlesIndex = "articles"
	tagsIndex     = "tags"
)

// MeiliIndexer implements Indexer on a Meilisearch instance.
type MeiliIndexer struct {
	client meilisearch.ServiceManager
	logger *slog.Logger
}

// NewMeiliIndexer creates a Meilisearch-backed indexer.
func NewMeiliIndexer(host, apiKey string, logger *slog.Logger) *MeiliIndexer {
	client := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &MeiliIndexer{client: client, logger: logger}
}

// articleDocument is the flattened shape stored in the index. Only fields
// useful for matching are sent; content is indexed as raw JSON text.
type articleDocument struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type tagDocument struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// IndexArticle adds or updates an article document, best-effort.
func (m *MeiliIndexer) IndexArticle(ctx context.Context, article *models.Article) {
	doc := articleDocument{
		ID:      article.ID,
		Title:   article.Title,
		Content: article.ContentJSON,
		Author:  article.AuthorID,
	}

	_, err := m.client.Index(articlesIndex).UpdateDocuments([]articleDocument{doc}, "id")
	if err != nil {
		m.logger.Warn("article index update failed", "article_id", article.ID, "error", err)
	}
}

// IndexTag adds or updates a tag document, best-effort.
func (m *MeiliIndexer) IndexTag(ctx context.Context, tag *models.Tag) {
	doc := tagDocument{ID: tag.ID, Content: tag.Content}

	_, err := m.client.Index(tagsIndex).UpdateDocuments([]tagDocument{doc}, "id")
	if err != nil {
		m.logger.Warn("tag index update failed", "tag_id", tag.ID, "error", err)
	}
}

// SearchArticleIDs returns candidate article IDs, or nil if the index call
// fails.
func (m *MeiliIndexer) SearchArticleIDs(ctx context.Context, query string, limit int) []string {
	return m.searchIDs(articlesIndex, query, limit)
}

// SearchTagIDs returns candidate tag IDs, or nil if the index call fails.
func (m *MeiliIndexer) SearchTagIDs(ctx context.Context, query string, limit int) []string {
	return m.searchIDs(tagsIndex, query, limit)
}

func (m *MeiliIndexer) searchIDs(index, query string, limit int) []string {
	resp, err := m.client.Index(index).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		m.logger.Warn("index search failed", "index", index, "error", err)
		return nil
	}

	var ids []string
	for _, hit := range resp.Hits {
		doc, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := doc["id"].(string); ok {
			ids = append(ids, id)
		}
	}

	return ids
}
