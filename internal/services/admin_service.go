package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/innerdreams/admin-backend/internal/models"
)

// ErrSelfDelete is returned when an admin tries to delete their own account.
var ErrSelfDelete = errors.New("cannot delete your own account")

// ErrSelfDeactivate is returned when an admin tries to deactivate themselves.
var ErrSelfDeactivate = errors.New("cannot deactivate your own account")

// AdminRepository is the interface that wraps admin table data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id int) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.AdminListFilter) ([]models.Admin, int, error)
	Update(ctx context.Context, id int, req *models.UpdateAdminRequest) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.AdminStats, error)
}

// adminService implements admin account management
type adminService struct {
	adminRepo AdminRepository
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(adminRepo AdminRepository, logger *zap.Logger) *adminService {
	return &adminService{
		adminRepo: adminRepo,
		logger:    logger,
	}
}

// List retrieves a page of admins
func (s *adminService) List(ctx context.Context, filter models.AdminListFilter) ([]models.Admin, int, error) {
	return s.adminRepo.List(ctx, filter)
}

// Get retrieves a single admin
func (s *adminService) Get(ctx context.Context, id int) (*models.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// Create hashes the password and inserts a new admin. Permissions default
// to the standard entity-management set when the request omits them.
func (s *adminService) Create(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	exists, err := s.adminRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("an admin with this email already exists: %w", models.ErrDuplicate)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	permissions := models.DefaultPermissions()
	if req.Permissions != nil {
		permissions = *req.Permissions
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(passwordHash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.Role(req.Role),
		Permissions:  permissions,
		IsActive:     true,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	admin.PasswordHash = ""
	return admin, nil
}

// Update applies a partial update. Non-super admins may only change their
// own basic fields; the handler enforces that before calling here.
func (s *adminService) Update(ctx context.Context, id int, req *models.UpdateAdminRequest) (*models.Admin, error) {
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		req.Email = &email

		current, err := s.adminRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Email != email {
			exists, err := s.adminRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf("an admin with this email already exists: %w", models.ErrDuplicate)
			}
		}
	}

	if err := s.adminRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.adminRepo.GetByID(ctx, id)
}

// Delete removes an admin. An admin can never delete themselves.
func (s *adminService) Delete(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return ErrSelfDelete
	}
	return s.adminRepo.Delete(ctx, id)
}

// ToggleStatus flips the activation flag. An admin can never deactivate
// their own account.
func (s *adminService) ToggleStatus(ctx context.Context, actorID, id int) (*models.Admin, error) {
	if actorID == id {
		return nil, ErrSelfDeactivate
	}

	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	active := !admin.IsActive
	if err := s.adminRepo.Update(ctx, id, &models.UpdateAdminRequest{IsActive: &active}); err != nil {
		return nil, err
	}

	admin.IsActive = active
	return admin, nil
}

// Stats aggregates admin account figures
func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.adminRepo.Stats(ctx)
}
