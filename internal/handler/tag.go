package handler

import (
	"log/slog"
	"net/http"

	"boards/internal/domain/services"
	"boards/internal/httputil"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tagService services.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService services.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// Create registers a new tag
// POST /api/tags
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req services.CreateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := h.tagService.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tag)
}

// AddToArticle attaches a tag to an article
// PUT /api/articles/{id}/tags/{content}
func (h *TagHandler) AddToArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.tagService.AddToArticle(r.Context(), userID, r.PathValue("id"), r.PathValue("content")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFromArticle detaches a tag from an article
// DELETE /api/articles/{id}/tags/{content}
func (h *TagHandler) RemoveFromArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.tagService.RemoveFromArticle(r.Context(), userID, r.PathValue("id"), r.PathValue("content")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search returns tags matching the query
// GET /api/tags/search?q=...
func (h *TagHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, err := getUserID(r); err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	tags, err := h.tagService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tags)
}
