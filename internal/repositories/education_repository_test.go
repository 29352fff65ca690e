package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

func setupEducationTestRepository(t *testing.T) (*educationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEducationRepository(db, zap.NewNop())

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestEducationRepository_SetPublished(t *testing.T) {
	tests := []struct {
		name          string
		id            int
		published     bool
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name:      "publish stamps published_at",
			id:        4,
			published: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE educations SET is_published = \?, published_at = IF\(\?, NOW\(\), NULL\) WHERE id = \?`).
					WithArgs(true, true, 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:      "unpublish clears published_at",
			id:        4,
			published: false,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE educations SET is_published = \?, published_at = IF\(\?, NOW\(\), NULL\) WHERE id = \?`).
					WithArgs(false, false, 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:      "not found",
			id:        999,
			published: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE educations SET is_published = \?, published_at = IF\(\?, NOW\(\), NULL\) WHERE id = \?`).
					WithArgs(true, true, 999).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEducationTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.SetPublished(context.Background(), tt.id, tt.published)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAuthorRepository_IncrementEducationCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuthorRepository(db, zap.NewNop())

	mock.ExpectExec(`UPDATE authors SET education_count = GREATEST\(education_count \+ \?, 0\) WHERE id = \?`).
		WithArgs(-1, 12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.IncrementEducationCount(context.Background(), 12, -1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
