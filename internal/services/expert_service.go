package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// ExpertRepository is the interface that wraps expert table data access
type ExpertRepository interface {
	Create(ctx context.Context, expert *models.Expert) error
	GetByID(ctx context.Context, id int) (*models.Expert, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error)
	List(ctx context.Context, filter models.ExpertListFilter) ([]models.Expert, int, error)
	Update(ctx context.Context, id int, req *models.UpdateExpertRequest) error
	SetActive(ctx context.Context, id int, active bool) error
	SetVerified(ctx context.Context, id int, verified bool) error
	Delete(ctx context.Context, id int) error
}

// expertService implements expert management
type expertService struct {
	expertRepo ExpertRepository
	logger     *zap.Logger
}

// NewExpertService creates a new expert service
func NewExpertService(expertRepo ExpertRepository, logger *zap.Logger) *expertService {
	return &expertService{
		expertRepo: expertRepo,
		logger:     logger,
	}
}

// List retrieves a page of experts
func (s *expertService) List(ctx context.Context, filter models.ExpertListFilter) ([]models.Expert, int, error) {
	return s.expertRepo.List(ctx, filter)
}

// Get retrieves a single expert
func (s *expertService) Get(ctx context.Context, id int) (*models.Expert, error) {
	return s.expertRepo.GetByID(ctx, id)
}

// Create inserts a new expert, rejecting a duplicate email
func (s *expertService) Create(ctx context.Context, req *models.CreateExpertRequest) (*models.Expert, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	exists, err := s.expertRepo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("an expert with this email already exists: %w", models.ErrDuplicate)
	}

	expert := &models.Expert{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           email,
		Phone:           req.Phone,
		Bio:             req.Bio,
		ShortBio:        req.ShortBio,
		ProfileImage:    req.ProfileImage,
		Specialization:  req.Specialization,
		Languages:       req.Languages,
		SessionTypes:    req.SessionTypes,
		SessionDuration: req.SessionDuration,
		IsActive:        true,
	}

	if err := s.expertRepo.Create(ctx, expert); err != nil {
		return nil, err
	}

	return expert, nil
}

// Update applies a partial update, rejecting an email already held by
// another expert
func (s *expertService) Update(ctx context.Context, id int, req *models.UpdateExpertRequest) (*models.Expert, error) {
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		req.Email = &email

		taken, err := s.expertRepo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("an expert with this email already exists: %w", models.ErrDuplicate)
		}
	}

	if err := s.expertRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.expertRepo.GetByID(ctx, id)
}

// Delete removes an expert
func (s *expertService) Delete(ctx context.Context, id int) error {
	return s.expertRepo.Delete(ctx, id)
}

// ToggleStatus flips the activation flag
func (s *expertService) ToggleStatus(ctx context.Context, id int) (*models.Expert, error) {
	expert, err := s.expertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.expertRepo.SetActive(ctx, id, !expert.IsActive); err != nil {
		return nil, err
	}

	expert.IsActive = !expert.IsActive
	return expert, nil
}

// SetVerified flips the verification flag, stamping or clearing verified_at
func (s *expertService) SetVerified(ctx context.Context, id int, verified bool) (*models.Expert, error) {
	if err := s.expertRepo.SetVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	return s.expertRepo.GetByID(ctx, id)
}
