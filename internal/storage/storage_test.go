package storage

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeFileHeader builds a multipart.FileHeader carrying the given content
func makeFileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	headers := form.File[field]
	require.Len(t, headers, 1)
	return headers[0]
}

// pngBytes encodes a solid test image of the given dimensions
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return store
}

func TestNewStore_CreatesCategoryDirs(t *testing.T) {
	base := t.TempDir()
	_, err := NewStore(base, "/uploads")
	require.NoError(t, err)

	for _, dir := range []string{"images", "documents", "audio", "video", "thumbnails"} {
		info, err := os.Stat(filepath.Join(base, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestStore_SaveDocument(t *testing.T) {
	store := newTestStore(t)

	header := makeFileHeader(t, "document", "guide.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	stored, err := store.Save("document", header)
	require.NoError(t, err)

	assert.Equal(t, "guide.pdf", stored.OriginalName)
	assert.Contains(t, stored.Filename, "document-")
	assert.Equal(t, ".pdf", filepath.Ext(stored.Filename))
	assert.Equal(t, "/uploads/documents/"+stored.Filename, stored.URL)
	assert.Empty(t, stored.ThumbnailURL)

	_, err = os.Stat(filepath.Join(store.basePath, "documents", stored.Filename))
	assert.NoError(t, err)
}

func TestStore_SaveImage_ProducesTwoDerivatives(t *testing.T) {
	store := newTestStore(t)

	header := makeFileHeader(t, "image", "photo.png", "image/png", pngBytes(t, 2000, 1000))
	stored, err := store.Save("image", header)
	require.NoError(t, err)

	imagesDir := filepath.Join(store.basePath, "images")
	entries, err := os.ReadDir(imagesDir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "expected processed image and thumbnail only")

	assert.Contains(t, stored.Filename, "_processed.jpg")
	assert.Equal(t, "/uploads/images/"+stored.Filename, stored.URL)
	assert.Contains(t, stored.ThumbnailURL, "_thumb.jpg")

	// Primary variant is bounded to 1200 on the long side
	primary, err := imaging.Open(filepath.Join(imagesDir, stored.Filename))
	require.NoError(t, err)
	assert.Equal(t, 1200, primary.Bounds().Dx())
	assert.Equal(t, 600, primary.Bounds().Dy())

	// Thumbnail is a fixed 300x300 crop
	thumbName := filepath.Base(stored.ThumbnailURL)
	thumb, err := imaging.Open(filepath.Join(imagesDir, thumbName))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 300, thumb.Bounds().Dy())
}

func TestStore_SaveImage_NeverUpscales(t *testing.T) {
	store := newTestStore(t)

	header := makeFileHeader(t, "image", "small.png", "image/png", pngBytes(t, 400, 200))
	stored, err := store.Save("image", header)
	require.NoError(t, err)

	primary, err := imaging.Open(filepath.Join(store.basePath, "images", stored.Filename))
	require.NoError(t, err)
	assert.Equal(t, 400, primary.Bounds().Dx())
	assert.Equal(t, 200, primary.Bounds().Dy())
}

func TestStore_SaveRejections(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name        string
		field       string
		filename    string
		contentType string
		content     []byte
		wantMsg     string
	}{
		{
			name:        "unexpected field",
			field:       "attachment",
			filename:    "x.pdf",
			contentType: "application/pdf",
			content:     []byte("x"),
			wantMsg:     "Unexpected file field.",
		},
		{
			name:        "wrong type for image field",
			field:       "image",
			filename:    "x.pdf",
			contentType: "application/pdf",
			content:     []byte("x"),
			wantMsg:     "Only image files (JPEG, PNG, GIF, WebP) are allowed",
		},
		{
			name:        "wrong type for document field",
			field:       "document",
			filename:    "x.png",
			contentType: "image/png",
			content:     []byte("x"),
			wantMsg:     "Only document files (PDF, EPUB, TXT) are allowed",
		},
		{
			name:        "wrong type for audio field",
			field:       "audio",
			filename:    "x.mp4",
			contentType: "video/mp4",
			content:     []byte("x"),
			wantMsg:     "Only audio files (MP3, WAV, OGG) are allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := makeFileHeader(t, tt.field, tt.filename, tt.contentType, tt.content)
			_, err := store.Save(tt.field, header)

			var uploadErr *UploadError
			require.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.wantMsg, uploadErr.Message)
		})
	}
}

func TestStore_SaveOversizedFile(t *testing.T) {
	store := newTestStore(t)
	store.maxFileSize = 16

	header := makeFileHeader(t, "document", "big.pdf", "application/pdf", bytes.Repeat([]byte("a"), 64))
	_, err := store.Save("document", header)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "File too large. Maximum size is 10MB.", uploadErr.Message)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	header := makeFileHeader(t, "document", "guide.pdf", "application/pdf", []byte("%PDF-1.4"))
	stored, err := store.Save("document", header)
	require.NoError(t, err)

	require.NoError(t, store.Delete(stored.Filename))
	assert.ErrorIs(t, store.Delete(stored.Filename), os.ErrNotExist)
}

func TestStore_Delete_RemovesThumbnailWithProcessedImage(t *testing.T) {
	store := newTestStore(t)

	header := makeFileHeader(t, "image", "photo.png", "image/png", pngBytes(t, 800, 800))
	stored, err := store.Save("image", header)
	require.NoError(t, err)

	require.NoError(t, store.Delete(stored.Filename))

	entries, err := os.ReadDir(filepath.Join(store.basePath, "images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_DeleteRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	assert.ErrorIs(t, store.Delete("../secrets.txt"), os.ErrNotExist)
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)

	docHeader := makeFileHeader(t, "document", "a.pdf", "application/pdf", bytes.Repeat([]byte("a"), 1024))
	_, err := store.Save("document", docHeader)
	require.NoError(t, err)

	audioHeader := makeFileHeader(t, "audio", "b.mp3", "audio/mpeg", bytes.Repeat([]byte("b"), 2048))
	_, err = store.Save("audio", audioHeader)
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, int64(3072), stats.TotalSizeBytes)
	assert.Equal(t, 1, stats.ByType.Documents.Count)
	assert.Equal(t, 1, stats.ByType.Audio.Count)
	assert.Equal(t, 0, stats.ByType.Video.Count)
}
