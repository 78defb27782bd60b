// Package permissions holds the pure capability predicates that gate every
// mutation. Predicates take already-loaded snapshots, never touch the store,
// and never return errors; failure is always a false.
package permissions

import (
	"time"

	"boards/internal/domain/models"
)

// CanViewArticle reports whether the user may read the article: it is
// public, or the user is the author, an editor, or a reviewer.
func CanViewArticle(article *models.Article, userID string) bool {
	if article == nil {
		return false
	}
	if article.IsPublic(time.Now()) {
		return true
	}
	if article.AuthorID == userID {
		return true
	}
	return article.HasEditor(userID) || article.HasReviewer(userID)
}

// CanEditArticle reports whether the user may modify the article: author or
// editor. Reviewers may view but not edit.
func CanEditArticle(article *models.Article, userID string) bool {
	if article == nil {
		return false
	}
	return article.AuthorID == userID || article.HasEditor(userID)
}

// MayEditFolder is strict ownership; folders have no delegation.
func MayEditFolder(folder *models.Folder, userID string) bool {
	return folder != nil && folder.OwnerID == userID
}

// MayEditFile is strict ownership. System-managed files (placeholder
// pictures) are not editable even by their owner.
func MayEditFile(file *models.File, userID string) bool {
	return file != nil && file.UserManageable && file.OwnerID == userID
}

// MayViewFile reports whether the user may fetch the file: user-manageable
// and owned, or marked public-readable (e.g. a picture on a public article).
func MayViewFile(file *models.File, userID string) bool {
	if file == nil {
		return false
	}
	if file.Public {
		return true
	}
	return file.UserManageable && file.OwnerID == userID
}

// MayDeleteComment requires comment authorship regardless of article edit
// rights.
func MayDeleteComment(comment *models.Comment, userID string) bool {
	return comment != nil && comment.AuthorID == userID
}
