package models

import (
	"strings"
	"time"
)

// Tag is a normalized, globally unique label.
type Tag struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NormalizeTag canonicalizes raw tag input: trimmed, lower-cased, inner
// whitespace collapsed to single dashes.
func NormalizeTag(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.Fields(s), "-")
}
