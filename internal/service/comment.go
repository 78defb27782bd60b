package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"boards/internal/config"
	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/permissions"
	"boards/internal/domain/repositories"
	"boards/internal/domain/services"
)

type commentService struct {
	commentRepo  repositories.CommentRepository
	reactionRepo repositories.ReactionRepository
	articleRepo  repositories.ArticleRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	reactionRepo repositories.ReactionRepository,
	articleRepo repositories.ArticleRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		articleRepo:  articleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Add posts a comment on an article the requester may view. Replies must
// reference a comment on the same article; a parent elsewhere reads as
// absent rather than leaking its existence.
func (s *commentService) Add(ctx context.Context, userID string, req *services.AddCommentRequest) (*models.Comment, error) {
	if err := s.validateAdd(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	article, err := s.articleRepo.GetByID(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanViewArticle(article, userID) {
		return nil, fmt.Errorf("comment on article %s: %w", req.ArticleID, domain.ErrForbidden)
	}

	if req.InReplyTo != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.InReplyTo)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != req.ArticleID {
			return nil, fmt.Errorf("parent comment %s: %w", *req.InReplyTo, domain.ErrNotFound)
		}
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		ArticleID: req.ArticleID,
		AuthorID:  userID,
		Content:   req.Content,
		InReplyTo: req.InReplyTo,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		"id", comment.ID,
		"article_id", req.ArticleID,
		"author_id", userID,
	)

	return comment, nil
}

// Delete removes the requester's own comment. The requester must still be
// able to view the article; authorship alone is not enough once view access
// is gone. Reactions on the comment go with it in the same transaction.
func (s *commentService) Delete(ctx context.Context, userID, commentID string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		comment, err := s.commentRepo.GetByID(ctx, commentID)
		if err != nil {
			return err
		}

		article, err := s.articleRepo.GetByID(ctx, comment.ArticleID)
		if err != nil {
			return err
		}
		if !permissions.CanViewArticle(article, userID) {
			return fmt.Errorf("delete comment %s: %w", commentID, domain.ErrForbidden)
		}
		if !permissions.MayDeleteComment(comment, userID) {
			return fmt.Errorf("delete comment %s: %w", commentID, domain.ErrForbidden)
		}

		if err := s.reactionRepo.DeleteByTarget(ctx, models.TargetComment, commentID); err != nil {
			return fmt.Errorf("cascade comment reactions: %w", err)
		}

		return s.commentRepo.Delete(ctx, commentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("comment deleted", "id", commentID, "author_id", userID)
	return nil
}

// ListByArticle returns an article's comments in creation order
func (s *commentService) ListByArticle(ctx context.Context, userID, articleID string) ([]models.Comment, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanViewArticle(article, userID) {
		return nil, fmt.Errorf("comments on article %s: %w", articleID, domain.ErrForbidden)
	}

	return s.commentRepo.ListByArticle(ctx, articleID)
}

// SetReaction records the requester's single reaction on a target. Any
// previous reaction is removed in the same transaction, so concurrent calls
// still leave at most one row per (user, target).
func (s *commentService) SetReaction(ctx context.Context, userID string, req *services.SetReactionRequest) (*models.Reaction, error) {
	if !req.Reaction.Valid() {
		return nil, fmt.Errorf("%w: unknown reaction %q", domain.ErrValidation, req.Reaction)
	}

	if err := s.authorizeTarget(ctx, userID, req.TargetType, req.TargetID); err != nil {
		return nil, err
	}

	reaction := &models.Reaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		ReactionType: req.Reaction,
		CreatedAt:    time.Now(),
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.reactionRepo.DeleteByUserAndTarget(ctx, userID, req.TargetType, req.TargetID); err != nil {
			return fmt.Errorf("clear previous reaction: %w", err)
		}
		return s.reactionRepo.Create(ctx, reaction)
	})
	if err != nil {
		return nil, err
	}

	return reaction, nil
}

// RemoveReaction clears the requester's reaction on a target
func (s *commentService) RemoveReaction(ctx context.Context, userID string, target models.ReactionTarget, targetID string) error {
	if err := s.authorizeTarget(ctx, userID, target, targetID); err != nil {
		return err
	}

	return s.reactionRepo.DeleteByUserAndTarget(ctx, userID, target, targetID)
}

// ListReactions returns all reactions on a target
func (s *commentService) ListReactions(ctx context.Context, userID string, target models.ReactionTarget, targetID string) ([]models.Reaction, error) {
	if err := s.authorizeTarget(ctx, userID, target, targetID); err != nil {
		return nil, err
	}

	return s.reactionRepo.ListByTarget(ctx, target, targetID)
}

// authorizeTarget resolves a reaction target to its article and applies the
// view predicate.
func (s *commentService) authorizeTarget(ctx context.Context, userID string, target models.ReactionTarget, targetID string) error {
	var articleID string
	switch target {
	case models.TargetArticle:
		articleID = targetID
	case models.TargetComment:
		comment, err := s.commentRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		articleID = comment.ArticleID
	default:
		return fmt.Errorf("%w: unknown reaction target %q", domain.ErrValidation, target)
	}

	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if !permissions.CanViewArticle(article, userID) {
		return fmt.Errorf("react on article %s: %w", articleID, domain.ErrForbidden)
	}

	return nil
}

func (s *commentService) validateAdd(req *services.AddCommentRequest) error {
	return validation.Errors{
		"article_id": validation.Validate(req.ArticleID, validation.Required),
		"content": validation.Validate(req.Content,
			validation.Required,
			validation.Length(1, config.MaxCommentLength),
		),
	}.Filter()
}
