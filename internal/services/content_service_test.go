package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// mockContentRepository is a mock implementation of ContentRepository
type mockContentRepository struct {
	content    *models.Content
	err        error
	takenSlugs    map[string]bool
	created       *models.Content
	savedComments models.CommentList
}

func (m *mockContentRepository) Create(ctx context.Context, content *models.Content) error {
	if m.err != nil {
		return m.err
	}
	content.ID = 1
	m.created = content
	m.content = content
	return nil
}

func (m *mockContentRepository) GetByID(ctx context.Context, id int) (*models.Content, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.content, nil
}

func (m *mockContentRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	return m.takenSlugs[slug], nil
}

func (m *mockContentRepository) List(ctx context.Context, filter models.ContentListFilter) ([]models.Content, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.Content{*m.content}, 1, nil
}

func (m *mockContentRepository) Update(ctx context.Context, id int, req *models.UpdateContentRequest) error {
	return m.err
}

func (m *mockContentRepository) SetActive(ctx context.Context, id int, active bool) error {
	return m.err
}

func (m *mockContentRepository) SetPublished(ctx context.Context, id int, published bool) error {
	return m.err
}

func (m *mockContentRepository) UpdateComments(ctx context.Context, id int, comments models.CommentList) error {
	if m.err != nil {
		return m.err
	}
	m.savedComments = comments
	return nil
}

func (m *mockContentRepository) Delete(ctx context.Context, id int) error {
	return m.err
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Understanding Your Dreams", "understanding-your-dreams"},
		{"  Lucid Dreaming: A Beginner's Guide!  ", "lucid-dreaming-a-beginner-s-guide"},
		{"REM & Deep Sleep", "rem-deep-sleep"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugify(tt.title))
		})
	}
}

func TestContentService_Create(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("derives slug from title", func(t *testing.T) {
		repo := &mockContentRepository{}
		svc := NewContentService(repo, logger)

		content, err := svc.Create(context.Background(), &models.CreateContentRequest{
			Title:    "Understanding Your Dreams",
			Body:     "Dreams are a window into the sleeping mind.",
			Type:     "article",
			Category: "dream_interpretation",
		})

		require.NoError(t, err)
		assert.Equal(t, "understanding-your-dreams", content.Slug)
		assert.True(t, content.IsActive)
	})

	t.Run("suffixes a taken slug", func(t *testing.T) {
		repo := &mockContentRepository{takenSlugs: map[string]bool{
			"understanding-your-dreams":   true,
			"understanding-your-dreams-2": true,
		}}
		svc := NewContentService(repo, logger)

		content, err := svc.Create(context.Background(), &models.CreateContentRequest{
			Title:    "Understanding Your Dreams",
			Body:     "Dreams are a window into the sleeping mind.",
			Type:     "article",
			Category: "dream_interpretation",
		})

		require.NoError(t, err)
		assert.Equal(t, "understanding-your-dreams-3", content.Slug)
	})

	t.Run("computes word count and reading time", func(t *testing.T) {
		word := "dream "
		body := ""
		for i := 0; i < 450; i++ {
			body += word
		}

		repo := &mockContentRepository{}
		svc := NewContentService(repo, logger)

		content, err := svc.Create(context.Background(), &models.CreateContentRequest{
			Title:    "A Long Read",
			Body:     body,
			Type:     "guide",
			Category: "sleep_science",
		})

		require.NoError(t, err)
		assert.Equal(t, 450, content.WordCount)
		assert.Equal(t, 3, content.ReadingTime)
	})

	t.Run("explicit reading time wins", func(t *testing.T) {
		repo := &mockContentRepository{}
		svc := NewContentService(repo, logger)

		content, err := svc.Create(context.Background(), &models.CreateContentRequest{
			Title:       "Short Note",
			Body:        "one two three",
			Type:        "article",
			Category:    "wellness",
			ReadingTime: 10,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, content.WordCount)
		assert.Equal(t, 10, content.ReadingTime)
	})
}

func TestContentService_Update_SlugTaken(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	slug := "existing-slug"
	repo := &mockContentRepository{
		content:    &models.Content{ID: 2, Slug: "old-slug"},
		takenSlugs: map[string]bool{"existing-slug": true},
	}
	svc := NewContentService(repo, logger)

	content, err := svc.Update(context.Background(), 2, &models.UpdateContentRequest{Slug: &slug})

	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Nil(t, content)
}

func TestContentService_ModerateComment(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	newRepo := func() *mockContentRepository {
		return &mockContentRepository{
			content: &models.Content{
				ID: 3,
				Comments: models.CommentList{
					{ID: 10, UserID: 4, Text: "Loved this one", Status: "pending"},
					{ID: 11, UserID: 5, Text: "Spam link", Status: "pending"},
				},
			},
		}
	}

	t.Run("approve", func(t *testing.T) {
		repo := newRepo()
		svc := NewContentService(repo, logger)

		comment, err := svc.ModerateComment(context.Background(), 3, 10, true)

		require.NoError(t, err)
		assert.Equal(t, "approved", comment.Status)
		require.Len(t, repo.savedComments, 2)
		assert.Equal(t, "approved", repo.savedComments[0].Status)
		assert.Equal(t, "pending", repo.savedComments[1].Status)
	})

	t.Run("reject", func(t *testing.T) {
		repo := newRepo()
		svc := NewContentService(repo, logger)

		comment, err := svc.ModerateComment(context.Background(), 3, 11, false)

		require.NoError(t, err)
		assert.Equal(t, "rejected", comment.Status)
	})

	t.Run("unknown comment", func(t *testing.T) {
		repo := newRepo()
		svc := NewContentService(repo, logger)

		comment, err := svc.ModerateComment(context.Background(), 3, 99, true)

		assert.ErrorIs(t, err, ErrCommentNotFound)
		assert.Nil(t, comment)
		assert.Nil(t, repo.savedComments)
	})
}
