package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/innerdreams/admin-backend/internal/models"
)

// mockAdminRepository is a mock implementation of AdminRepository
type mockAdminRepository struct {
	admin              *models.Admin
	err                error
	existsByEmail      bool
	existsByEmailErr   error
	created            *models.Admin
	updatedReq         *models.UpdateAdminRequest
	deletedID          int
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if m.err != nil {
		return m.err
	}
	admin.ID = 1
	stored := *admin
	m.created = &stored
	return nil
}

func (m *mockAdminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.admin, nil
}

func (m *mockAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailErr != nil {
		return false, m.existsByEmailErr
	}
	return m.existsByEmail, nil
}

func (m *mockAdminRepository) List(ctx context.Context, filter models.AdminListFilter) ([]models.Admin, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.Admin{*m.admin}, 1, nil
}

func (m *mockAdminRepository) Update(ctx context.Context, id int, req *models.UpdateAdminRequest) error {
	m.updatedReq = req
	return m.err
}

func (m *mockAdminRepository) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.err
}

func (m *mockAdminRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.AdminStats{TotalAdmins: 3}, nil
}

func TestAdminService_Create(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name          string
		req           *models.CreateAdminRequest
		adminRepo     *mockAdminRepository
		expectedError bool
		errorContains string
	}{
		{
			name: "success with default permissions",
			req: &models.CreateAdminRequest{
				Email:     "  New.Admin@Example.COM ",
				Password:  "Password123!",
				FirstName: "New",
				LastName:  "Admin",
				Role:      "admin",
			},
			adminRepo: &mockAdminRepository{},
		},
		{
			name: "success with explicit permissions",
			req: &models.CreateAdminRequest{
				Email:       "viewer@example.com",
				Password:    "Password123!",
				FirstName:   "View",
				LastName:    "Only",
				Role:        "moderator",
				Permissions: &models.Permissions{Users: true},
			},
			adminRepo: &mockAdminRepository{},
		},
		{
			name: "email already exists",
			req: &models.CreateAdminRequest{
				Email:    "taken@example.com",
				Password: "Password123!",
				Role:     "admin",
			},
			adminRepo:     &mockAdminRepository{existsByEmail: true},
			expectedError: true,
			errorContains: "already exists",
		},
		{
			name: "database error checking email",
			req: &models.CreateAdminRequest{
				Email:    "new@example.com",
				Password: "Password123!",
				Role:     "admin",
			},
			adminRepo:     &mockAdminRepository{existsByEmailErr: errors.New("database error")},
			expectedError: true,
			errorContains: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAdminService(tt.adminRepo, logger)

			admin, err := svc.Create(context.Background(), tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, admin)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, admin.ID)
			assert.Empty(t, admin.PasswordHash)
			assert.True(t, admin.IsActive)

			created := tt.adminRepo.created
			assert.Equal(t, created.Email, admin.Email)
			assert.NotContains(t, created.Email, " ")
		})
	}
}

func TestAdminService_Create_HashesPassword(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	repo := &mockAdminRepository{}
	svc := NewAdminService(repo, logger)

	_, err := svc.Create(context.Background(), &models.CreateAdminRequest{
		Email:    "new@example.com",
		Password: "Password123!",
		Role:     "admin",
	})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("Password123!")))
	assert.Equal(t, models.DefaultPermissions(), repo.created.Permissions)
}

func TestAdminService_Update_EmailTaken(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	email := "taken@example.com"
	repo := &mockAdminRepository{
		admin:         &models.Admin{ID: 2, Email: "old@example.com"},
		existsByEmail: true,
	}
	svc := NewAdminService(repo, logger)

	admin, err := svc.Update(context.Background(), 2, &models.UpdateAdminRequest{Email: &email})

	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Nil(t, admin)
}

func TestAdminService_Delete(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("self delete is refused", func(t *testing.T) {
		repo := &mockAdminRepository{}
		svc := NewAdminService(repo, logger)

		err := svc.Delete(context.Background(), 1, 1)

		assert.ErrorIs(t, err, ErrSelfDelete)
		assert.Zero(t, repo.deletedID)
	})

	t.Run("deleting another admin", func(t *testing.T) {
		repo := &mockAdminRepository{}
		svc := NewAdminService(repo, logger)

		err := svc.Delete(context.Background(), 1, 2)

		require.NoError(t, err)
		assert.Equal(t, 2, repo.deletedID)
	})
}

func TestAdminService_ToggleStatus(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("self deactivate is refused", func(t *testing.T) {
		svc := NewAdminService(&mockAdminRepository{}, logger)

		admin, err := svc.ToggleStatus(context.Background(), 1, 1)

		assert.ErrorIs(t, err, ErrSelfDeactivate)
		assert.Nil(t, admin)
	})

	t.Run("flips the flag", func(t *testing.T) {
		repo := &mockAdminRepository{admin: &models.Admin{ID: 2, IsActive: true}}
		svc := NewAdminService(repo, logger)

		admin, err := svc.ToggleStatus(context.Background(), 1, 2)

		require.NoError(t, err)
		assert.False(t, admin.IsActive)
		require.NotNil(t, repo.updatedReq.IsActive)
		assert.False(t, *repo.updatedReq.IsActive)
	})
}
