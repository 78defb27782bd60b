package handler

import (
	"log/slog"
	"net/http"

	"boards/internal/domain/models"
	"boards/internal/domain/services"
	"boards/internal/httputil"
)

// CommentHandler handles comment and reaction HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// Add posts a comment or reply on an article
// POST /api/articles/{id}/comments
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req services.AddCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ArticleID = r.PathValue("id")

	comment, err := h.commentService.Add(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// ListByArticle returns an article's comments
// GET /api/articles/{id}/comments
func (h *CommentHandler) ListByArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	comments, err := h.commentService.ListByArticle(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comments)
}

// Delete removes the requester's own comment
// DELETE /api/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetReaction records the requester's reaction on a target
// PUT /api/reactions
func (h *CommentHandler) SetReaction(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req services.SetReactionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reaction, err := h.commentService.SetReaction(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, reaction)
}

// RemoveReaction clears the requester's reaction on a target
// DELETE /api/reactions/{targetType}/{targetID}
func (h *CommentHandler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	target := models.ReactionTarget(r.PathValue("targetType"))
	if err := h.commentService.RemoveReaction(r.Context(), userID, target, r.PathValue("targetID")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListReactions returns all reactions on a target
// GET /api/reactions/{targetType}/{targetID}
func (h *CommentHandler) ListReactions(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	target := models.ReactionTarget(r.PathValue("targetType"))
	reactions, err := h.commentService.ListReactions(r.Context(), userID, target, r.PathValue("targetID"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, reactions)
}
