package models

import "time"

// Article is authored content. The author owns it; editors may modify it,
// reviewers may only view until it goes public.
type Article struct {
	ID            string     `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	ContentJSON   string     `json:"content_json" db:"content_json"`
	AuthorID      string     `json:"author_id" db:"author_id"`
	EditorIDs     []string   `json:"editor_ids,omitempty"`
	ReviewerIDs   []string   `json:"reviewer_ids,omitempty"`
	PictureID     string     `json:"picture_id" db:"picture_object_id"`
	TagContents   []string   `json:"tags,omitempty"`
	Public        bool       `json:"public" db:"public"`
	AutoPublishOn *time.Time `json:"auto_publish_on" db:"auto_publish_on"`
	ModifiedOn    time.Time  `json:"modified_on" db:"modified_on"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// IsPublic reports whether the article is readable by everyone, either
// explicitly or because its scheduled publish time has passed.
func (a *Article) IsPublic(now time.Time) bool {
	if a.Public {
		return true
	}
	return a.AutoPublishOn != nil && !a.AutoPublishOn.After(now)
}

// HasEditor reports whether userID is in the editor set.
func (a *Article) HasEditor(userID string) bool {
	for _, id := range a.EditorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasReviewer reports whether userID is in the reviewer set.
func (a *Article) HasReviewer(userID string) bool {
	for _, id := range a.ReviewerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Revision is an immutable snapshot of article content, appended whenever
// the content changes meaningfully. AuthorID is the editor who made the
// change that displaced this content.
type Revision struct {
	ID          string    `json:"id" db:"id"`
	ArticleID   string    `json:"article_id" db:"article_id"`
	ContentJSON string    `json:"content_json" db:"content_json"`
	AuthorID    string    `json:"author_id" db:"author_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
