package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user               *models.User
	err                error
	existsByEmail      bool
	deleteErr          error
	deletedID          int
	subStatus          models.SubscriptionStatus
	subExpiry          *time.Time
	subCalled          bool
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	return m.existsByEmail, nil
}

func (m *mockUserRepository) List(ctx context.Context, filter models.UserListFilter) ([]models.User, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.User{*m.user}, 1, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id int, req *models.UpdateUserRequest) error {
	return m.err
}

func (m *mockUserRepository) SetActive(ctx context.Context, id int, active bool) error {
	return m.err
}

func (m *mockUserRepository) UpdateSubscription(ctx context.Context, id int, status models.SubscriptionStatus, expiry *time.Time) error {
	m.subCalled = true
	m.subStatus = status
	m.subExpiry = expiry
	return m.err
}

func (m *mockUserRepository) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.deleteErr
}

func (m *mockUserRepository) Stats(ctx context.Context) (*models.UserStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.UserStats{TotalUsers: 10}, nil
}

// mockDreamRepository is a mock implementation of DreamRepository
type mockDreamRepository struct {
	dreams       []models.Dream
	deletedCount int
	err          error
	deletedFor   int
}

func (m *mockDreamRepository) ListByUserID(ctx context.Context, userID int, params models.ListParams) ([]models.Dream, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.dreams, len(m.dreams), nil
}

func (m *mockDreamRepository) DeleteByUserID(ctx context.Context, userID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.deletedFor = userID
	return m.deletedCount, nil
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	email := "Taken@Example.com"
	userRepo := &mockUserRepository{
		user:          &models.User{ID: 3, Email: "old@example.com"},
		existsByEmail: true,
	}
	svc := NewUserService(userRepo, &mockDreamRepository{}, logger)

	user, err := svc.Update(context.Background(), 3, &models.UpdateUserRequest{Email: &email})

	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Nil(t, user)
}

func TestUserService_Delete(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name          string
		userRepo      *mockUserRepository
		dreamRepo     *mockDreamRepository
		expectedErr   error
		errorContains string
		expectedCount int
	}{
		{
			name:          "deletes user and dreams",
			userRepo:      &mockUserRepository{user: &models.User{ID: 7}},
			dreamRepo:     &mockDreamRepository{deletedCount: 12},
			expectedCount: 12,
		},
		{
			name:        "user not found",
			userRepo:    &mockUserRepository{err: models.ErrNotFound},
			dreamRepo:   &mockDreamRepository{},
			expectedErr: models.ErrNotFound,
		},
		{
			name:          "dream cascade failure",
			userRepo:      &mockUserRepository{user: &models.User{ID: 7}},
			dreamRepo:     &mockDreamRepository{err: errors.New("database error")},
			errorContains: "failed to delete user dreams",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(tt.userRepo, tt.dreamRepo, logger)

			count, err := svc.Delete(context.Background(), 7)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Zero(t, tt.userRepo.deletedID, "user row must survive a failed cascade")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCount, count)
			assert.Equal(t, 7, tt.userRepo.deletedID)
			assert.Equal(t, 7, tt.dreamRepo.deletedFor)
		})
	}
}

func TestUserService_UpdateSubscription(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	expiry := time.Now().AddDate(0, 1, 0)

	t.Run("premium keeps expiry", func(t *testing.T) {
		userRepo := &mockUserRepository{user: &models.User{ID: 4}}
		svc := NewUserService(userRepo, &mockDreamRepository{}, logger)

		_, err := svc.UpdateSubscription(context.Background(), 4, models.SubscriptionPremium, &expiry)

		require.NoError(t, err)
		assert.True(t, userRepo.subCalled)
		assert.Equal(t, models.SubscriptionPremium, userRepo.subStatus)
		require.NotNil(t, userRepo.subExpiry)
		assert.Equal(t, expiry, *userRepo.subExpiry)
	})

	t.Run("free clears expiry", func(t *testing.T) {
		userRepo := &mockUserRepository{user: &models.User{ID: 4}}
		svc := NewUserService(userRepo, &mockDreamRepository{}, logger)

		_, err := svc.UpdateSubscription(context.Background(), 4, models.SubscriptionFree, &expiry)

		require.NoError(t, err)
		assert.Nil(t, userRepo.subExpiry)
	})
}

func TestUserService_ListDreams_UserNotFound(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	svc := NewUserService(&mockUserRepository{err: models.ErrNotFound}, &mockDreamRepository{}, logger)

	dreams, total, err := svc.ListDreams(context.Background(), 99, models.ListParams{Page: 1, Limit: 10})

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, dreams)
	assert.Zero(t, total)
}
