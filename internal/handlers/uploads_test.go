package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/storage"
)

type fakeFileStore struct {
	saved    int
	failAt   int
	saveErr  error
	deleted  []string
	deleteFn func(filename string) error
}

func (f *fakeFileStore) Save(field string, header *multipart.FileHeader) (*storage.StoredFile, error) {
	f.saved++
	if f.failAt > 0 && f.saved >= f.failAt {
		return nil, f.saveErr
	}
	return &storage.StoredFile{
		OriginalName: header.Filename,
		Filename:     field + "-" + header.Filename,
		URL:          "/uploads/files/" + field + "-" + header.Filename,
	}, nil
}

func (f *fakeFileStore) Delete(filename string) error {
	f.deleted = append(f.deleted, filename)
	if f.deleteFn != nil {
		return f.deleteFn(filename)
	}
	return nil
}

// multipartRequest builds a parsed multipart request carrying the given
// filenames under one field.
func multipartRequest(t *testing.T, field string, filenames ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/multiple", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(multipartFormLimit))
	return req
}

func TestSavedFiles_RejectedFileRollsBackBatch(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	h := &BaseHandler{Logger: logger}

	store := &fakeFileStore{
		failAt:  3,
		saveErr: &storage.UploadError{Message: "File too large. Maximum size is 10MB."},
	}

	req := multipartRequest(t, "files", "a.pdf", "b.pdf", "c.pdf")
	rec := httptest.NewRecorder()

	stored, ok := savedFiles(h, rec, req, store, "files")

	assert.False(t, ok)
	assert.Nil(t, stored)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"files-a.pdf", "files-b.pdf"}, store.deleted)
}

func TestSavedFiles_Success(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	h := &BaseHandler{Logger: logger}

	store := &fakeFileStore{}

	req := multipartRequest(t, "files", "a.pdf", "b.pdf")
	rec := httptest.NewRecorder()

	stored, ok := savedFiles(h, rec, req, store, "files")

	assert.True(t, ok)
	require.Len(t, stored, 2)
	assert.Empty(t, store.deleted)
	assert.Equal(t, "files-a.pdf", stored[0].Filename)
}
