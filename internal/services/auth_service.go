package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
)

// ErrInvalidCredentials is returned when the email or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountDeactivated is returned when the admin account is disabled.
var ErrAccountDeactivated = errors.New("account is deactivated")

// AdminCredentialRepository is the interface that wraps admin data access
// needed for authentication
type AdminCredentialRepository interface {
	// GetByEmail retrieves an admin by email including the password hash.
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	// GetByID retrieves an admin by id, without the password hash.
	GetByID(ctx context.Context, id int) (*models.Admin, error)
	// RecordLogin stamps last_login and increments the login counter.
	RecordLogin(ctx context.Context, id int) error
}

// authService implements admin authentication
type authService struct {
	adminRepo      AdminCredentialRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo AdminCredentialRepository, tokenGenerator *auth.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		adminRepo:      adminRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Login verifies the credentials and issues an access token. The returned
// admin carries no password hash.
func (s *authService) Login(ctx context.Context, email, password string) (*models.Admin, string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	token, err := s.tokenGenerator.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.adminRepo.RecordLogin(ctx, admin.ID); err != nil {
		s.logger.Warn("failed to record admin login", zap.Int("adminId", admin.ID), zap.Error(err))
	}

	admin.PasswordHash = ""
	admin.LoginCount++
	return admin, token, nil
}
