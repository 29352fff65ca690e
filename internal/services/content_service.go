package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// ContentRepository is the interface that wraps content table data access
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id int) (*models.Content, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error)
	List(ctx context.Context, filter models.ContentListFilter) ([]models.Content, int, error)
	Update(ctx context.Context, id int, req *models.UpdateContentRequest) error
	SetActive(ctx context.Context, id int, active bool) error
	SetPublished(ctx context.Context, id int, published bool) error
	UpdateComments(ctx context.Context, id int, comments models.CommentList) error
	Delete(ctx context.Context, id int) error
}

// ErrCommentNotFound is returned when a moderated comment id is not on
// the content piece.
var ErrCommentNotFound = errors.New("comment not found")

// contentService implements editorial content management
type contentService struct {
	contentRepo ContentRepository
	logger      *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(contentRepo ContentRepository, logger *zap.Logger) *contentService {
	return &contentService{
		contentRepo: contentRepo,
		logger:      logger,
	}
}

var slugStripRegex = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a title into a URL slug
func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// readingWordsPerMinute is the speed assumed when estimating reading time.
const readingWordsPerMinute = 200

// List retrieves a page of content
func (s *contentService) List(ctx context.Context, filter models.ContentListFilter) ([]models.Content, int, error) {
	return s.contentRepo.List(ctx, filter)
}

// Get retrieves a single content piece with its author projection
func (s *contentService) Get(ctx context.Context, id int) (*models.Content, error) {
	return s.contentRepo.GetByID(ctx, id)
}

// Create inserts a new content piece. The slug is derived from the title
// when the request omits it, suffixed with a counter until unique.
func (s *contentService) Create(ctx context.Context, req *models.CreateContentRequest) (*models.Content, error) {
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	}

	unique, err := s.uniqueSlug(ctx, slug, 0)
	if err != nil {
		return nil, err
	}

	wordCount := len(strings.Fields(req.Body))
	readingTime := req.ReadingTime
	if readingTime == 0 && wordCount > 0 {
		readingTime = (wordCount + readingWordsPerMinute - 1) / readingWordsPerMinute
	}

	content := &models.Content{
		Title:         req.Title,
		Slug:          unique,
		Excerpt:       req.Excerpt,
		Body:          req.Body,
		Type:          req.Type,
		Category:      req.Category,
		AuthorID:      req.AuthorID,
		FeaturedImage: req.FeaturedImage,
		Images:        req.Images,
		Tags:          req.Tags,
		Keywords:      req.Keywords,
		ReadingTime:   readingTime,
		WordCount:     wordCount,
		IsPremium:     req.IsPremium,
		IsActive:      true,
	}

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}

	return s.contentRepo.GetByID(ctx, content.ID)
}

// uniqueSlug appends a numeric suffix until no other content piece holds
// the slug
func (s *contentService) uniqueSlug(ctx context.Context, slug string, excludeID int) (string, error) {
	candidate := slug
	for i := 2; ; i++ {
		taken, err := s.contentRepo.ExistsBySlug(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}

// Update applies a partial update. An explicit slug must stay unique; a
// body change refreshes the word count.
func (s *contentService) Update(ctx context.Context, id int, req *models.UpdateContentRequest) (*models.Content, error) {
	if req.Slug != nil && *req.Slug != "" {
		taken, err := s.contentRepo.ExistsBySlug(ctx, *req.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("a content piece with this slug already exists: %w", models.ErrDuplicate)
		}
	}

	if err := s.contentRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.contentRepo.GetByID(ctx, id)
}

// Delete removes a content piece
func (s *contentService) Delete(ctx context.Context, id int) error {
	return s.contentRepo.Delete(ctx, id)
}

// ToggleStatus flips the activation flag
func (s *contentService) ToggleStatus(ctx context.Context, id int) (*models.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.contentRepo.SetActive(ctx, id, !content.IsActive); err != nil {
		return nil, err
	}

	content.IsActive = !content.IsActive
	return content, nil
}

// SetPublished flips the published flag
func (s *contentService) SetPublished(ctx context.Context, id int, published bool) (*models.Content, error) {
	if err := s.contentRepo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	return s.contentRepo.GetByID(ctx, id)
}

// ModerateComment approves or rejects one reader comment on a content
// piece and persists the full comment list back
func (s *contentService) ModerateComment(ctx context.Context, contentID, commentID int, approved bool) (*models.Comment, error) {
	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	var moderated *models.Comment
	for i := range content.Comments {
		if content.Comments[i].ID == commentID {
			if approved {
				content.Comments[i].Status = "approved"
			} else {
				content.Comments[i].Status = "rejected"
			}
			moderated = &content.Comments[i]
			break
		}
	}
	if moderated == nil {
		return nil, ErrCommentNotFound
	}

	if err := s.contentRepo.UpdateComments(ctx, contentID, content.Comments); err != nil {
		return nil, err
	}

	return moderated, nil
}
