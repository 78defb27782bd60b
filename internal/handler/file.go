package handler

import (
	"log/slog"
	"net/http"

	"boards/internal/config"
	"boards/internal/domain/services"
	"boards/internal/httputil"
)

// FileHandler handles file lifecycle HTTP requests
type FileHandler struct {
	fileService services.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// Upload stores a new file from a multipart form ("file" part, optional
// "public" flag)
// POST /api/files
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+1<<20)

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

	file, err := h.fileService.Upload(r.Context(), userID, &services.UploadFileRequest{
		FileName:    header.Filename,
		ContentType: contentType,
		ByteSize:    header.Size,
		Public:      r.FormValue("public") == "true",
		Body:        part,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// Info returns file metadata
// GET /api/files/{id}
func (h *FileHandler) Info(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	file, err := h.fileService.Info(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// AccessURL returns a time-limited download URL
// GET /api/files/{id}/url
func (h *FileHandler) AccessURL(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	url, err := h.fileService.AccessURL(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Delete removes a file and its backing object
// DELETE /api/files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.fileService.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck reports liveness
// GET /health
func (h *FileHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
