package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/storage"
)

// multipartFormLimit caps the in-memory part of a parsed multipart form
const multipartFormLimit = 20 << 20

// FileStore is the interface that wraps upload persistence used by the
// multipart create handlers
type FileStore interface {
	// Save validates and writes one multipart file, returning its
	// descriptor. Client-caused failures are *storage.UploadError.
	Save(field string, header *multipart.FileHeader) (*storage.StoredFile, error)
	// Delete removes a stored file and its derivatives by name.
	Delete(filename string) error
}

// respondUploadError maps a storage failure to its HTTP status
func respondUploadError(h *BaseHandler, w http.ResponseWriter, field string, err error) {
	var uploadErr *storage.UploadError
	if errors.As(err, &uploadErr) {
		h.RespondError(w, http.StatusBadRequest, uploadErr.Message)
		return
	}
	h.Logger.Error("failed to store upload", zap.String("field", field), zap.Error(err))
	h.RespondError(w, http.StatusInternalServerError, "Server error")
}

// savedFileURL stores the first file of a multipart field and returns its
// URL. Returns "" when the field carries no file; false means a response
// was already written.
func savedFileURL(h *BaseHandler, w http.ResponseWriter, r *http.Request, store FileStore, field string) (string, bool) {
	if r.MultipartForm == nil {
		return "", true
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return "", true
	}

	stored, err := store.Save(field, headers[0])
	if err != nil {
		respondUploadError(h, w, field, err)
		return "", false
	}
	return stored.URL, true
}

// savedFiles stores every file of a multipart field, returning their
// descriptors. False means a response was already written.
func savedFiles(h *BaseHandler, w http.ResponseWriter, r *http.Request, store FileStore, field string) ([]*storage.StoredFile, bool) {
	if r.MultipartForm == nil {
		return nil, true
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > storage.MaxFilesPerRequest {
		h.RespondError(w, http.StatusBadRequest, "Too many files. Maximum is 10 per request.")
		return nil, false
	}

	var stored []*storage.StoredFile
	for _, header := range headers {
		file, err := store.Save(field, header)
		if err != nil {
			discardStored(h, store, stored)
			respondUploadError(h, w, field, err)
			return nil, false
		}
		stored = append(stored, file)
	}
	return stored, true
}

// discardStored removes files already written when a later file of the
// same batch is rejected, so a failed request leaves nothing on disk.
func discardStored(h *BaseHandler, store FileStore, stored []*storage.StoredFile) {
	for _, file := range stored {
		if err := store.Delete(file.Filename); err != nil {
			h.Logger.Warn("failed to discard stored upload",
				zap.String("filename", file.Filename), zap.Error(err))
		}
	}
}
