package models

import "time"

// Comment is a threaded article comment. InReplyTo references another
// comment on the same article; nil means a top-level comment.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	ArticleID string    `json:"article_id" db:"article_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	InReplyTo *string   `json:"in_reply_to" db:"in_reply_to"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ReactionType is the enumerated reaction value.
type ReactionType string

const (
	ReactionLike     ReactionType = "like"
	ReactionDislike  ReactionType = "dislike"
	ReactionLaugh    ReactionType = "laugh"
	ReactionHeart    ReactionType = "heart"
	ReactionSurprise ReactionType = "surprise"
)

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionDislike, ReactionLaugh, ReactionHeart, ReactionSurprise:
		return true
	}
	return false
}

// ReactionTarget identifies what a reaction is attached to.
type ReactionTarget string

const (
	TargetArticle ReactionTarget = "article"
	TargetComment ReactionTarget = "comment"
)

// Reaction has composite identity (UserID, TargetType, TargetID): a user
// holds at most one reaction per target.
type Reaction struct {
	ID           string         `json:"id" db:"id"`
	UserID       string         `json:"user_id" db:"user_id"`
	TargetType   ReactionTarget `json:"target_type" db:"target_type"`
	TargetID     string         `json:"target_id" db:"target_id"`
	ReactionType ReactionType   `json:"reaction_type" db:"reaction_type"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
