package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

func setupUserTestRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserRepository(db, zap.NewNop())

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

var userRowColumns = []string{
	"id", "email", "first_name", "last_name", "phone", "subscription_status",
	"subscription_expiry", "is_active", "dream_count", "last_login", "created_at", "updated_at",
}

func TestUserRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		id            int
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			id:   7,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userRowColumns).
					AddRow(7, "dreamer@example.com", "Mira", "Tan", nil, "premium", now.Add(720*time.Hour), true, 23, now, now, now)
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \? LIMIT 1`).
					WithArgs(7).
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			id:   999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \? LIMIT 1`).
					WithArgs(999).
					WillReturnRows(sqlmock.NewRows(userRowColumns))
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			user, err := repo.GetByID(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "dreamer@example.com", user.Email)
				assert.Equal(t, 23, user.DreamCount)
				require.NotNil(t, user.SubscriptionExpiry)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_List_Filters(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	now := time.Now()
	active := true
	filter := models.UserListFilter{
		ListParams:         models.ListParams{Page: 2, Limit: 10, Search: "mira"},
		SubscriptionStatus: "premium",
		IsActive:           &active,
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE`).
		WithArgs("%mira%", "%mira%", "%mira%", "premium", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	rows := sqlmock.NewRows(userRowColumns).
		AddRow(7, "mira@example.com", "Mira", "Tan", "555-0101", "premium", nil, true, 3, nil, now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE .+ LIMIT \? OFFSET \?`).
		WithArgs("%mira%", "%mira%", "%mira%", "premium", true, 10, 10).
		WillReturnRows(rows)

	users, total, err := repo.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, users, 1)
	assert.Equal(t, "555-0101", users[0].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateSubscription(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE users SET subscription_status = \?, subscription_expiry = \? WHERE id = \?`).
		WithArgs(models.SubscriptionPremium, expiry, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateSubscription(context.Background(), 7, models.SubscriptionPremium, &expiry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NoFieldsIsANoop(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	err := repo.Update(context.Background(), 7, &models.UpdateUserRequest{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		rowsAffected  int64
		expectedError error
	}{
		{name: "success", rowsAffected: 1},
		{name: "not found", rowsAffected: 0, expectedError: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			mock.ExpectExec(`DELETE FROM users WHERE id = \?`).
				WithArgs(7).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			err := repo.Delete(context.Background(), 7)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
