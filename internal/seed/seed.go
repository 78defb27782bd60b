// Package seed loads development fixtures from YAML and writes them through
// the repository layer, so seeded data passes the same constraints as live
// traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// Fixtures is the YAML shape of a seed file.
type Fixtures struct {
	Users []struct {
		ID          string `yaml:"id"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"users"`

	Folders []struct {
		ID       string  `yaml:"id"`
		OwnerID  string  `yaml:"owner_id"`
		Name     string  `yaml:"name"`
		ParentID *string `yaml:"parent_id"`
	} `yaml:"folders"`

	Files []struct {
		ObjectID    string  `yaml:"object_id"`
		OwnerID     string  `yaml:"owner_id"`
		FileName    string  `yaml:"file_name"`
		Bucket      string  `yaml:"bucket"`
		ContentType string  `yaml:"content_type"`
		ParentID    *string `yaml:"parent_id"`
		Public      bool    `yaml:"public"`
	} `yaml:"files"`

	Articles []struct {
		ID          string   `yaml:"id"`
		Title       string   `yaml:"title"`
		AuthorID    string   `yaml:"author_id"`
		Content     string   `yaml:"content"`
		PictureID   string   `yaml:"picture_id"`
		Public      bool     `yaml:"public"`
		EditorIDs   []string `yaml:"editor_ids"`
		ReviewerIDs []string `yaml:"reviewer_ids"`
		Tags        []string `yaml:"tags"`
	} `yaml:"articles"`

	Tags []struct {
		ID       string `yaml:"id"`
		Content  string `yaml:"content"`
		AuthorID string `yaml:"author_id"`
	} `yaml:"tags"`

	Comments []struct {
		ID        string  `yaml:"id"`
		ArticleID string  `yaml:"article_id"`
		AuthorID  string  `yaml:"author_id"`
		Content   string  `yaml:"content"`
		InReplyTo *string `yaml:"in_reply_to"`
	} `yaml:"comments"`
}

// Load parses a fixtures file.
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	return &f, nil
}

// Seeder writes fixtures into the store.
type Seeder struct {
	Users     repositories.UserRepository
	Folders   repositories.FolderRepository
	Files     repositories.FileRepository
	Articles  repositories.ArticleRepository
	Tags      repositories.TagRepository
	Comments  repositories.CommentRepository
	TxManager repositories.TransactionManager
	Logger    *slog.Logger
}

// Apply inserts all fixtures in dependency order inside one transaction.
// Seed files describe metadata only; seeded file rows stay unbacked because
// no object is written to the store.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) error {
	return s.TxManager.ExecTx(ctx, func(ctx context.Context) error {
		now := time.Now()

		for _, u := range f.Users {
			user := &models.User{ID: u.ID, DisplayName: u.DisplayName, CreatedAt: now}
			if err := s.Users.Upsert(ctx, user); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}

		for _, fo := range f.Folders {
			folder := &models.Folder{
				ID:             fo.ID,
				OwnerID:        fo.OwnerID,
				MasterFolderID: fo.ParentID,
				Name:           fo.Name,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := s.Folders.Create(ctx, folder); err != nil {
				return fmt.Errorf("seed folder %s: %w", fo.ID, err)
			}
		}

		for _, fi := range f.Files {
			file := &models.File{
				ObjectID:       fi.ObjectID,
				OwnerID:        fi.OwnerID,
				ParentID:       fi.ParentID,
				FileName:       fi.FileName,
				Bucket:         fi.Bucket,
				ContentType:    fi.ContentType,
				Backed:         false,
				UserManageable: true,
				Public:         fi.Public,
				CreatedAt:      now,
			}
			if err := s.Files.Create(ctx, file); err != nil {
				return fmt.Errorf("seed file %s: %w", fi.ObjectID, err)
			}
		}

		tagIDs := make(map[string]string, len(f.Tags))
		for _, t := range f.Tags {
			tag := &models.Tag{
				ID:        t.ID,
				Content:   models.NormalizeTag(t.Content),
				AuthorID:  t.AuthorID,
				CreatedAt: now,
			}
			if err := s.Tags.Create(ctx, tag); err != nil {
				return fmt.Errorf("seed tag %s: %w", t.ID, err)
			}
			tagIDs[tag.Content] = tag.ID
		}

		for _, a := range f.Articles {
			// Every article needs a picture row; seed an unbacked
			// placeholder when the fixture names none.
			pictureID := a.PictureID
			if pictureID == "" {
				pictureID = uuid.NewString()
				placeholder := &models.File{
					ObjectID:  pictureID,
					OwnerID:   a.AuthorID,
					FileName:  a.Title + " picture",
					Bucket:    "board-files",
					Public:    a.Public,
					CreatedAt: now,
				}
				if err := s.Files.Create(ctx, placeholder); err != nil {
					return fmt.Errorf("seed article picture %s: %w", pictureID, err)
				}
			}

			content := a.Content
			if content == "" {
				content = "{}"
			}
			article := &models.Article{
				ID:          a.ID,
				Title:       a.Title,
				ContentJSON: content,
				AuthorID:    a.AuthorID,
				PictureID:   pictureID,
				Public:      a.Public,
				ModifiedOn:  now,
				CreatedAt:   now,
			}
			if err := s.Articles.Create(ctx, article); err != nil {
				return fmt.Errorf("seed article %s: %w", a.ID, err)
			}

			for _, editorID := range a.EditorIDs {
				if err := s.Articles.AddEditor(ctx, a.ID, editorID); err != nil {
					return fmt.Errorf("seed article %s editor %s: %w", a.ID, editorID, err)
				}
			}
			for _, reviewerID := range a.ReviewerIDs {
				if err := s.Articles.AddReviewer(ctx, a.ID, reviewerID); err != nil {
					return fmt.Errorf("seed article %s reviewer %s: %w", a.ID, reviewerID, err)
				}
			}
			for _, tagContent := range a.Tags {
				tagID, ok := tagIDs[models.NormalizeTag(tagContent)]
				if !ok {
					return fmt.Errorf("seed article %s: tag %q not in fixtures", a.ID, tagContent)
				}
				if err := s.Articles.AddTag(ctx, a.ID, tagID); err != nil {
					return fmt.Errorf("seed article %s tag %s: %w", a.ID, tagID, err)
				}
			}
		}

		for _, c := range f.Comments {
			comment := &models.Comment{
				ID:        c.ID,
				ArticleID: c.ArticleID,
				AuthorID:  c.AuthorID,
				Content:   c.Content,
				InReplyTo: c.InReplyTo,
				CreatedAt: now,
			}
			if err := s.Comments.Create(ctx, comment); err != nil {
				return fmt.Errorf("seed comment %s: %w", c.ID, err)
			}
		}

		s.Logger.Info("fixtures applied",
			"users", len(f.Users),
			"folders", len(f.Folders),
			"files", len(f.Files),
			"articles", len(f.Articles),
			"tags", len(f.Tags),
			"comments", len(f.Comments),
		)

		return nil
	})
}
