package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"boards/internal/domain/services"
	"boards/internal/httputil"
)

// ArticleHandler handles article HTTP requests
type ArticleHandler struct {
	articleService services.ArticleService
	logger         *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService services.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// Create creates a blank article
// POST /api/articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req services.CreateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.articleService.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, article)
}

// Get retrieves an article
// GET /api/articles/{id}
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	article, err := h.articleService.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// GetContent returns the article content document
// GET /api/articles/{id}/content
func (h *ArticleHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	content, err := h.articleService.GetContent(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"content": content})
}

// UpdateContent replaces the article content
// PUT /api/articles/{id}/content
func (h *ArticleHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.articleService.UpdateContent(r.Context(), userID, r.PathValue("id"), req.Content); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetTitle renames an article
// PATCH /api/articles/{id}/title
func (h *ArticleHandler) SetTitle(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.articleService.SetTitle(r.Context(), userID, r.PathValue("id"), req.Title); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetVisibility toggles the public flag
// PATCH /api/articles/{id}/visibility
func (h *ArticleHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		Public bool `json:"public"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.articleService.SetPublic(r.Context(), userID, r.PathValue("id"), req.Public); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetPublishDate schedules automatic publication; null clears the schedule
// PATCH /api/articles/{id}/publish-date
func (h *ArticleHandler) SetPublishDate(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		AutoPublishOn *time.Time `json:"auto_publish_on"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.articleService.SetPublishDate(r.Context(), userID, r.PathValue("id"), req.AutoPublishOn); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRevisions returns an article's revision history
// GET /api/articles/{id}/revisions
func (h *ArticleHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	revisions, err := h.articleService.ListRevisions(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, revisions)
}

// AddEditor grants edit rights
// PUT /api/articles/{id}/editors/{userID}
func (h *ArticleHandler) AddEditor(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.articleService.AddEditor)
}

// RemoveEditor revokes edit rights
// DELETE /api/articles/{id}/editors/{userID}
func (h *ArticleHandler) RemoveEditor(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.articleService.RemoveEditor)
}

// AddReviewer grants reviewer rights
// PUT /api/articles/{id}/reviewers/{userID}
func (h *ArticleHandler) AddReviewer(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.articleService.AddReviewer)
}

// RemoveReviewer revokes reviewer rights
// DELETE /api/articles/{id}/reviewers/{userID}
func (h *ArticleHandler) RemoveReviewer(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.articleService.RemoveReviewer)
}

func (h *ArticleHandler) membership(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID, articleID, memberID string) error) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := apply(r.Context(), userID, r.PathValue("id"), r.PathValue("userID")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReplacePicture swaps the article picture from a multipart form
// POST /api/articles/{id}/picture
func (h *ArticleHandler) ReplacePicture(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer part.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	picture, err := h.articleService.ReplacePicture(r.Context(), userID, r.PathValue("id"), &services.UploadFileRequest{
		FileName:    header.Filename,
		ContentType: contentType,
		ByteSize:    header.Size,
		Body:        part,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, picture)
}

// PictureURL returns a signed URL for the article picture
// GET /api/articles/{id}/picture
func (h *ArticleHandler) PictureURL(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	url, err := h.articleService.PictureURL(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// ListMine returns the requester's own articles
// GET /api/articles
func (h *ArticleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	articles, err := h.articleService.ListByAuthor(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, articles)
}

// Search returns public articles matching the query
// GET /api/articles/search?q=...
func (h *ArticleHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, err := getUserID(r); err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	articles, err := h.articleService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, articles)
}
