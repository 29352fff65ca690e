package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/storage"
)

// UploadStore is the interface that wraps the standalone upload endpoints
type UploadStore interface {
	Save(field string, header *multipart.FileHeader) (*storage.StoredFile, error)
	Delete(filename string) error
	Stats() (*storage.Stats, error)
}

// UploadHandler handles standalone file upload HTTP requests
type UploadHandler struct {
	BaseHandler
	store UploadStore
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store UploadStore, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler: BaseHandler{Logger: logger},
		store:       store,
	}
}

// RegisterRoutes registers all upload routes
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Route("/upload", func(r chi.Router) {
		r.Post("/single", h.single("file"))
		r.Post("/multiple", h.Multiple)
		r.Post("/image", h.single("image"))
		r.Post("/document", h.single("document"))
		r.Post("/audio", h.single("audio"))
		r.Post("/video", h.single("video"))
		r.Delete("/{filename}", h.Delete)
		r.Get("/stats", h.Stats)
	})
}

// single returns a handler storing one file from the given field.
// The field name decides the target category and allowed content types.
func (h *UploadHandler) single(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
			h.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			h.RespondError(w, http.StatusBadRequest, "No file uploaded")
			return
		}

		stored, err := h.store.Save(field, headers[0])
		if err != nil {
			respondUploadError(&h.BaseHandler, w, field, err)
			return
		}

		h.RespondMessage(w, http.StatusOK, "File uploaded", map[string]any{"file": stored})
	}
}

// Multiple handles POST /upload/multiple
// @Summary Upload several files
// @Description Store up to 10 files from the "files" field in one request
// @Tags upload
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Stored files"
// @Failure 400 {object} response "Rejected upload"
// @Router /upload/multiple [post]
func (h *UploadHandler) Multiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		h.RespondError(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	stored, ok := savedFiles(&h.BaseHandler, w, r, h.store, "files")
	if !ok {
		return
	}

	h.RespondMessage(w, http.StatusOK, "Files uploaded", map[string]any{"files": stored})
}

// Delete handles DELETE /upload/{filename}
// @Summary Delete an uploaded file
// @Description Remove a stored file by name, searching every category directory
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param filename path string true "Stored file name"
// @Success 200 {object} response "File deleted"
// @Failure 404 {object} response "File not found"
// @Router /upload/{filename} [delete]
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	if err := h.store.Delete(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.RespondError(w, http.StatusNotFound, "File not found")
			return
		}
		h.Logger.Error("failed to delete file", zap.String("filename", filename), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.RespondMessage(w, http.StatusOK, "File deleted", nil)
}

// Stats handles GET /upload/stats
// @Summary Upload storage statistics
// @Description File counts and sizes per category plus totals
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Storage statistics"
// @Router /upload/stats [get]
func (h *UploadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		h.Logger.Error("failed to read storage stats", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.RespondData(w, http.StatusOK, stats)
}
