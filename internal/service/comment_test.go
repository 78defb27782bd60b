package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/services"
)

type commentFixture struct {
	commentRepo  *fakeCommentRepo
	reactionRepo *fakeReactionRepo
	articleRepo  *fakeArticleRepo
	svc          services.CommentService
}

func newCommentFixture() *commentFixture {
	f := &commentFixture{
		commentRepo:  newFakeCommentRepo(),
		reactionRepo: &fakeReactionRepo{},
		articleRepo:  newFakeArticleRepo(),
	}
	f.svc = NewCommentService(f.commentRepo, f.reactionRepo, f.articleRepo, &fakeTxManager{}, testLogger())
	return f
}

func seedComment(repo *fakeCommentRepo, id, articleID, authorID string) {
	repo.comments[id] = &models.Comment{
		ID:        id,
		ArticleID: articleID,
		AuthorID:  authorID,
		Content:   "text",
		CreatedAt: time.Now(),
	}
}

func TestAddComment(t *testing.T) {
	t.Run("viewer comments on public article", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true

		comment, err := f.svc.Add(context.Background(), "bob", &services.AddCommentRequest{
			ArticleID: "a1",
			Content:   "nice write-up",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := f.commentRepo.comments[comment.ID]; !ok {
			t.Errorf("comment not persisted")
		}
	})

	t.Run("stranger denied on private article", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice")

		_, err := f.svc.Add(context.Background(), "mallory", &services.AddCommentRequest{
			ArticleID: "a1",
			Content:   "hi",
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("got err %v, want ErrForbidden", err)
		}
	})

	t.Run("reply to comment on same article", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true
		seedComment(f.commentRepo, "c1", "a1", "bob")

		comment, err := f.svc.Add(context.Background(), "carol", &services.AddCommentRequest{
			ArticleID: "a1",
			Content:   "agreed",
			InReplyTo: strPtr("c1"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if comment.InReplyTo == nil || *comment.InReplyTo != "c1" {
			t.Errorf("reply pointer not recorded")
		}
	})

	t.Run("reply to comment on another article", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true
		seedArticle(f.articleRepo, "a2", "alice").Public = true
		seedComment(f.commentRepo, "c-other", "a2", "bob")

		_, err := f.svc.Add(context.Background(), "carol", &services.AddCommentRequest{
			ArticleID: "a1",
			Content:   "agreed",
			InReplyTo: strPtr("c-other"),
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("got err %v, want ErrNotFound", err)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true

		_, err := f.svc.Add(context.Background(), "bob", &services.AddCommentRequest{ArticleID: "a1"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("got err %v, want ErrValidation", err)
		}
	})
}

func TestDeleteComment(t *testing.T) {
	t.Run("author deletes and reactions cascade", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true
		seedComment(f.commentRepo, "c1", "a1", "bob")
		f.reactionRepo.reactions = []models.Reaction{
			{ID: "r1", UserID: "carol", TargetType: models.TargetComment, TargetID: "c1", ReactionType: models.ReactionLike},
			{ID: "r2", UserID: "carol", TargetType: models.TargetArticle, TargetID: "a1", ReactionType: models.ReactionHeart},
		}

		if err := f.svc.Delete(context.Background(), "bob", "c1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := f.commentRepo.comments["c1"]; ok {
			t.Errorf("comment should be gone")
		}
		if len(f.reactionRepo.reactions) != 1 || f.reactionRepo.reactions[0].ID != "r2" {
			t.Errorf("only the comment's reactions should cascade, got %v", f.reactionRepo.reactions)
		}
	})

	t.Run("author denied once article is private again", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice")
		seedComment(f.commentRepo, "c1", "a1", "bob")

		err := f.svc.Delete(context.Background(), "bob", "c1")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("got err %v, want ErrForbidden", err)
		}
		if _, ok := f.commentRepo.comments["c1"]; !ok {
			t.Errorf("comment should survive a denied delete")
		}
	})

	t.Run("article author cannot delete others' comments", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true
		seedComment(f.commentRepo, "c1", "a1", "bob")

		err := f.svc.Delete(context.Background(), "alice", "c1")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("got err %v, want ErrForbidden", err)
		}
	})
}

func TestSetReaction(t *testing.T) {
	t.Run("replacing leaves exactly one", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true

		for _, reaction := range []models.ReactionType{models.ReactionLike, models.ReactionHeart} {
			if _, err := f.svc.SetReaction(context.Background(), "bob", &services.SetReactionRequest{
				TargetType: models.TargetArticle,
				TargetID:   "a1",
				Reaction:   reaction,
			}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		reactions, err := f.svc.ListReactions(context.Background(), "bob", models.TargetArticle, "a1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reactions) != 1 {
			t.Fatalf("got %d reactions, want exactly 1", len(reactions))
		}
		if reactions[0].ReactionType != models.ReactionHeart {
			t.Errorf("reaction = %q, want the latest", reactions[0].ReactionType)
		}
	})

	t.Run("comment target resolves its article", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice")
		seedComment(f.commentRepo, "c1", "a1", "alice")

		_, err := f.svc.SetReaction(context.Background(), "mallory", &services.SetReactionRequest{
			TargetType: models.TargetComment,
			TargetID:   "c1",
			Reaction:   models.ReactionLike,
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("got err %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown reaction type", func(t *testing.T) {
		f := newCommentFixture()
		seedArticle(f.articleRepo, "a1", "alice").Public = true

		_, err := f.svc.SetReaction(context.Background(), "bob", &services.SetReactionRequest{
			TargetType: models.TargetArticle,
			TargetID:   "a1",
			Reaction:   "meh",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("got err %v, want ErrValidation", err)
		}
	})
}

func TestRemoveReaction(t *testing.T) {
	f := newCommentFixture()
	seedArticle(f.articleRepo, "a1", "alice").Public = true
	f.reactionRepo.reactions = []models.Reaction{
		{ID: "r1", UserID: "bob", TargetType: models.TargetArticle, TargetID: "a1", ReactionType: models.ReactionLike},
	}

	if err := f.svc.RemoveReaction(context.Background(), "bob", models.TargetArticle, "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.reactionRepo.reactions) != 0 {
		t.Errorf("reaction should be gone")
	}
}
