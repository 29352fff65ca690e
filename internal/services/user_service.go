package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// UserRepository is the interface that wraps user table data access
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error)
	List(ctx context.Context, filter models.UserListFilter) ([]models.User, int, error)
	Update(ctx context.Context, id int, req *models.UpdateUserRequest) error
	SetActive(ctx context.Context, id int, active bool) error
	UpdateSubscription(ctx context.Context, id int, status models.SubscriptionStatus, expiry *time.Time) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.UserStats, error)
}

// DreamRepository is the interface that wraps dream journal data access
type DreamRepository interface {
	ListByUserID(ctx context.Context, userID int, params models.ListParams) ([]models.Dream, int, error)
	DeleteByUserID(ctx context.Context, userID int) (int, error)
}

// userService implements end-user account management
type userService struct {
	userRepo  UserRepository
	dreamRepo DreamRepository
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, dreamRepo DreamRepository, logger *zap.Logger) *userService {
	return &userService{
		userRepo:  userRepo,
		dreamRepo: dreamRepo,
		logger:    logger,
	}
}

// List retrieves a page of users
func (s *userService) List(ctx context.Context, filter models.UserListFilter) ([]models.User, int, error) {
	return s.userRepo.List(ctx, filter)
}

// Get retrieves a single user
func (s *userService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update applies a partial update, rejecting an email already held by
// another user
func (s *userService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		req.Email = &email

		taken, err := s.userRepo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("a user with this email already exists: %w", models.ErrDuplicate)
		}
	}

	if err := s.userRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, id)
}

// Delete removes the user and every dream they recorded
func (s *userService) Delete(ctx context.Context, id int) (int, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}

	deletedDreams, err := s.dreamRepo.DeleteByUserID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user dreams: %w", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return 0, err
	}

	s.logger.Info("deleted user with dreams", zap.Int("userId", id), zap.Int("dreams", deletedDreams))
	return deletedDreams, nil
}

// ToggleStatus flips the activation flag
func (s *userService) ToggleStatus(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetActive(ctx, id, !user.IsActive); err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive
	return user, nil
}

// UpdateSubscription changes the subscription tier. Expiry is cleared when
// the tier drops to free.
func (s *userService) UpdateSubscription(ctx context.Context, id int, status models.SubscriptionStatus, expiry *time.Time) (*models.User, error) {
	if status == models.SubscriptionFree {
		expiry = nil
	}

	if err := s.userRepo.UpdateSubscription(ctx, id, status, expiry); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, id)
}

// ListDreams retrieves a page of the user's dream journal entries
func (s *userService) ListDreams(ctx context.Context, userID int, params models.ListParams) ([]models.Dream, int, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.dreamRepo.ListByUserID(ctx, userID, params)
}

// Stats aggregates user account figures
func (s *userService) Stats(ctx context.Context) (*models.UserStats, error) {
	return s.userRepo.Stats(ctx)
}
