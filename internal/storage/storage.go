// Package storage manages uploaded files on the local filesystem: field
// based category routing, content-type filtering, collision-resistant
// naming and image derivative generation.
package storage

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// DefaultMaxFileSize is the per-file upload limit in bytes
	DefaultMaxFileSize = 10 * 1024 * 1024
	// MaxFilesPerRequest caps the number of parts in a multipart upload
	MaxFilesPerRequest = 10
)

// Upload categories, each mapping to a sub-directory under the base path
const (
	CategoryImages    = "images"
	CategoryDocuments = "documents"
	CategoryAudio     = "audio"
	CategoryVideo     = "video"
)

var uploadDirs = []string{
	CategoryImages,
	CategoryDocuments,
	CategoryAudio,
	CategoryVideo,
	"thumbnails",
}

// fieldCategories routes a multipart field name to its target category
var fieldCategories = map[string]string{
	"file":         CategoryImages,
	"files":        CategoryImages,
	"image":        CategoryImages,
	"images":       CategoryImages,
	"thumbnail":    CategoryImages,
	"profileImage": CategoryImages,
	"coverImage":   CategoryImages,
	"featuredImage": CategoryImages,
	"document":  CategoryDocuments,
	"documents": CategoryDocuments,
	"pdf":       CategoryDocuments,
	"epub":      CategoryDocuments,
	"audio":     CategoryAudio,
	"audiobook": CategoryAudio,
	"video":     CategoryVideo,
}

// allowedTypes is the content-type allow-list per category
var allowedTypes = map[string][]string{
	CategoryImages:    {"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
	CategoryDocuments: {"application/pdf", "application/epub+zip", "text/plain"},
	CategoryAudio:     {"audio/mpeg", "audio/wav", "audio/mp3", "audio/ogg"},
	CategoryVideo:     {"video/mp4", "video/webm", "video/ogg"},
}

// typeMessages is the rejection message per category
var typeMessages = map[string]string{
	CategoryImages:    "Only image files (JPEG, PNG, GIF, WebP) are allowed",
	CategoryDocuments: "Only document files (PDF, EPUB, TXT) are allowed",
	CategoryAudio:     "Only audio files (MP3, WAV, OGG) are allowed",
	CategoryVideo:     "Only video files (MP4, WebM, OGG) are allowed",
}

// UploadError is a client-caused upload failure. Handlers map it to a
// 400 response with the message verbatim.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// StoredFile describes a file after it has been written to disk.
type StoredFile struct {
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	Field        string `json:"fieldname"`
}

// Store writes uploads under a base path and computes their public URLs.
type Store struct {
	basePath    string
	baseURL     string
	maxFileSize int64
}

// NewStore creates a Store and ensures the category directories exist.
func NewStore(basePath, baseURL string) (*Store, error) {
	for _, dir := range uploadDirs {
		if err := os.MkdirAll(filepath.Join(basePath, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return &Store{
		basePath:    basePath,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxFileSize: DefaultMaxFileSize,
	}, nil
}

// CategoryForField returns the target category for a multipart field name.
func CategoryForField(field string) (string, bool) {
	cat, ok := fieldCategories[field]
	return cat, ok
}

// Save validates and writes one multipart file. Image fields are
// post-processed into a bounded primary variant plus a thumbnail, and
// the original upload is removed.
func (s *Store) Save(field string, header *multipart.FileHeader) (*StoredFile, error) {
	category, ok := CategoryForField(field)
	if !ok {
		return nil, &UploadError{Message: "Unexpected file field."}
	}

	if header.Size > s.maxFileSize {
		return nil, &UploadError{Message: "File too large. Maximum size is 10MB."}
	}

	contentType := header.Header.Get("Content-Type")
	if !typeAllowed(category, contentType) {
		return nil, &UploadError{Message: typeMessages[category]}
	}

	filename := generateFilename(field, header.Filename)
	destPath := filepath.Join(s.basePath, category, filename)

	if err := s.writeFile(header, destPath); err != nil {
		return nil, err
	}

	stored := &StoredFile{
		OriginalName: header.Filename,
		Filename:     filename,
		URL:          s.baseURL + "/" + category + "/" + filename,
		Size:         header.Size,
		MimeType:     contentType,
		Field:        field,
	}

	if category == CategoryImages {
		if err := s.processImage(stored, destPath); err != nil {
			os.Remove(destPath)
			return nil, err
		}
	}

	return stored, nil
}

// writeFile copies the multipart part to destPath
func (s *Store) writeFile(header *multipart.FileHeader, destPath string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// processImage writes the bounded primary variant and the thumbnail,
// then removes the original upload. The derivatives are JPEG encoded.
func (s *Store) processImage(stored *StoredFile, originalPath string) error {
	src, err := imaging.Open(originalPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	base := strings.TrimSuffix(stored.Filename, filepath.Ext(stored.Filename))
	processedName := base + "_processed.jpg"
	thumbName := base + "_thumb.jpg"

	// Fit preserves aspect ratio and never upscales
	primary := imaging.Fit(src, 1200, 1200, imaging.Lanczos)
	primaryPath := filepath.Join(s.basePath, CategoryImages, processedName)
	if err := imaging.Save(primary, primaryPath, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to save processed image: %w", err)
	}

	thumb := imaging.Fill(src, 300, 300, imaging.Center, imaging.Lanczos)
	thumbPath := filepath.Join(s.basePath, CategoryImages, thumbName)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(80)); err != nil {
		os.Remove(primaryPath)
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}

	if err := os.Remove(originalPath); err != nil {
		return fmt.Errorf("failed to remove original image: %w", err)
	}

	stored.Filename = processedName
	stored.URL = s.baseURL + "/" + CategoryImages + "/" + processedName
	stored.ThumbnailURL = s.baseURL + "/" + CategoryImages + "/" + thumbName
	return nil
}

// Delete removes a stored file by name, searching every category
// directory. Deleting a processed image also removes its thumbnail.
// Returns os.ErrNotExist when the file is in none of them.
func (s *Store) Delete(filename string) error {
	// Reject path traversal in client supplied names
	if filename != filepath.Base(filename) || filename == "." || filename == "" {
		return os.ErrNotExist
	}

	for _, dir := range uploadDirs {
		path := filepath.Join(s.basePath, dir, filename)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		if base, ok := strings.CutSuffix(filename, "_processed.jpg"); ok {
			os.Remove(filepath.Join(s.basePath, dir, base+"_thumb.jpg"))
		}
		return nil
	}
	return os.ErrNotExist
}

func typeAllowed(category, contentType string) bool {
	for _, t := range allowedTypes[category] {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}

// generateFilename builds a collision-resistant name from the field
// name, current time and a random suffix, keeping the original extension
func generateFilename(field, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
