package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// mockEducationRepository is a mock implementation of EducationRepository
type mockEducationRepository struct {
	edu       *models.Education
	err       error
	deleteErr error
	deletedID int
}

func (m *mockEducationRepository) Create(ctx context.Context, edu *models.Education) error {
	if m.err != nil {
		return m.err
	}
	edu.ID = 1
	m.edu = edu
	return nil
}

func (m *mockEducationRepository) GetByID(ctx context.Context, id int) (*models.Education, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.edu, nil
}

func (m *mockEducationRepository) List(ctx context.Context, filter models.EducationListFilter) ([]models.Education, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.Education{*m.edu}, 1, nil
}

func (m *mockEducationRepository) Update(ctx context.Context, id int, req *models.UpdateEducationRequest) error {
	return m.err
}

func (m *mockEducationRepository) SetActive(ctx context.Context, id int, active bool) error {
	return m.err
}

func (m *mockEducationRepository) SetPublished(ctx context.Context, id int, published bool) error {
	return m.err
}

func (m *mockEducationRepository) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.deleteErr
}

func (m *mockEducationRepository) Stats(ctx context.Context) (*models.EducationStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.EducationStats{TotalEducations: 2}, nil
}

// mockAuthorCounterRepository is a mock implementation of AuthorCounterRepository
type mockAuthorCounterRepository struct {
	err      error
	authorID int
	delta    int
	calls    int
}

func (m *mockAuthorCounterRepository) IncrementEducationCount(ctx context.Context, id, delta int) error {
	m.calls++
	m.authorID = id
	m.delta = delta
	return m.err
}

func TestEducationService_Create(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("bumps the author counter", func(t *testing.T) {
		eduRepo := &mockEducationRepository{}
		counter := &mockAuthorCounterRepository{}
		svc := NewEducationService(eduRepo, counter, logger)

		edu, err := svc.Create(context.Background(), &models.CreateEducationRequest{
			Title:    "Lucid Dreaming Basics",
			Category: "lucid_dreaming",
			Level:    "beginner",
			AuthorID: 5,
		})

		require.NoError(t, err)
		assert.True(t, edu.IsActive)
		assert.Equal(t, 1, counter.calls)
		assert.Equal(t, 5, counter.authorID)
		assert.Equal(t, 1, counter.delta)
	})

	t.Run("no counter call without an author", func(t *testing.T) {
		eduRepo := &mockEducationRepository{}
		counter := &mockAuthorCounterRepository{}
		svc := NewEducationService(eduRepo, counter, logger)

		_, err := svc.Create(context.Background(), &models.CreateEducationRequest{
			Title:    "Sleep Hygiene",
			Category: "sleep_science",
			Level:    "beginner",
		})

		require.NoError(t, err)
		assert.Zero(t, counter.calls)
	})

	t.Run("counter failure does not fail the create", func(t *testing.T) {
		eduRepo := &mockEducationRepository{}
		counter := &mockAuthorCounterRepository{err: errors.New("database error")}
		svc := NewEducationService(eduRepo, counter, logger)

		edu, err := svc.Create(context.Background(), &models.CreateEducationRequest{
			Title:    "Dream Recall",
			Category: "dream_interpretation",
			Level:    "intermediate",
			AuthorID: 5,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, edu.ID)
	})
}

func TestEducationService_Delete(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("drops the author counter", func(t *testing.T) {
		eduRepo := &mockEducationRepository{edu: &models.Education{ID: 1, AuthorID: 5}}
		counter := &mockAuthorCounterRepository{}
		svc := NewEducationService(eduRepo, counter, logger)

		err := svc.Delete(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 1, eduRepo.deletedID)
		assert.Equal(t, 5, counter.authorID)
		assert.Equal(t, -1, counter.delta)
	})

	t.Run("not found", func(t *testing.T) {
		eduRepo := &mockEducationRepository{err: models.ErrNotFound}
		counter := &mockAuthorCounterRepository{}
		svc := NewEducationService(eduRepo, counter, logger)

		err := svc.Delete(context.Background(), 99)

		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Zero(t, counter.calls)
	})

	t.Run("delete failure keeps the counter intact", func(t *testing.T) {
		eduRepo := &mockEducationRepository{
			edu:       &models.Education{ID: 1, AuthorID: 5},
			deleteErr: errors.New("database error"),
		}
		counter := &mockAuthorCounterRepository{}
		svc := NewEducationService(eduRepo, counter, logger)

		err := svc.Delete(context.Background(), 1)

		assert.Error(t, err)
		assert.Zero(t, counter.calls)
	})
}
