package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
)

// mockCredentialRepository is a mock implementation of AdminCredentialRepository
type mockCredentialRepository struct {
	admin          *models.Admin
	err            error
	recordLoginErr error
	recordedLogin  int
}

func (m *mockCredentialRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.admin, nil
}

func (m *mockCredentialRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.admin, nil
}

func (m *mockCredentialRepository) RecordLogin(ctx context.Context, id int) error {
	m.recordedLogin = id
	return m.recordLoginErr
}

func TestAuthService_Login(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	tokenGen := auth.NewTokenGenerator("test-secret", time.Hour)

	validPasswordHash, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)

	activeAdmin := func() *models.Admin {
		return &models.Admin{
			ID:           1,
			Email:        "admin@example.com",
			PasswordHash: string(validPasswordHash),
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
	}

	tests := []struct {
		name        string
		email       string
		password    string
		adminRepo   *mockCredentialRepository
		expectedErr error
	}{
		{
			name:      "success",
			email:     "admin@example.com",
			password:  "Password123!",
			adminRepo: &mockCredentialRepository{admin: activeAdmin()},
		},
		{
			name:        "unknown email",
			email:       "nobody@example.com",
			password:    "Password123!",
			adminRepo:   &mockCredentialRepository{err: models.ErrNotFound},
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:        "wrong password",
			email:       "admin@example.com",
			password:    "WrongPassword123!",
			adminRepo:   &mockCredentialRepository{admin: activeAdmin()},
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:     "deactivated account",
			email:    "admin@example.com",
			password: "Password123!",
			adminRepo: &mockCredentialRepository{admin: &models.Admin{
				ID:           1,
				Email:        "admin@example.com",
				PasswordHash: string(validPasswordHash),
				Role:         models.RoleAdmin,
				IsActive:     false,
			}},
			expectedErr: ErrAccountDeactivated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(tt.adminRepo, tokenGen, logger)

			admin, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, admin)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Empty(t, admin.PasswordHash)
			assert.Equal(t, 1, tt.adminRepo.recordedLogin)

			adminID, role, err := tokenGen.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, 1, adminID)
			assert.Equal(t, models.RoleAdmin, role)
		})
	}
}

func TestAuthService_Login_RecordLoginFailureIsNonFatal(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	tokenGen := auth.NewTokenGenerator("test-secret", time.Hour)

	validPasswordHash, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	adminRepo := &mockCredentialRepository{
		admin: &models.Admin{
			ID:           1,
			Email:        "admin@example.com",
			PasswordHash: string(validPasswordHash),
			Role:         models.RoleAdmin,
			IsActive:     true,
			LoginCount:   4,
		},
		recordLoginErr: errors.New("database error"),
	}

	svc := NewAuthService(adminRepo, tokenGen, logger)

	admin, token, err := svc.Login(context.Background(), "admin@example.com", "Password123!")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 5, admin.LoginCount)
}
