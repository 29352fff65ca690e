package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// EducationRepository is the interface that wraps education table data access
type EducationRepository interface {
	Create(ctx context.Context, edu *models.Education) error
	GetByID(ctx context.Context, id int) (*models.Education, error)
	List(ctx context.Context, filter models.EducationListFilter) ([]models.Education, int, error)
	Update(ctx context.Context, id int, req *models.UpdateEducationRequest) error
	SetActive(ctx context.Context, id int, active bool) error
	SetPublished(ctx context.Context, id int, published bool) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.EducationStats, error)
}

// AuthorCounterRepository bumps the per-author education counter
type AuthorCounterRepository interface {
	IncrementEducationCount(ctx context.Context, id, delta int) error
}

// educationService implements education content management
type educationService struct {
	educationRepo EducationRepository
	authorRepo    AuthorCounterRepository
	logger        *zap.Logger
}

// NewEducationService creates a new education service
func NewEducationService(educationRepo EducationRepository, authorRepo AuthorCounterRepository, logger *zap.Logger) *educationService {
	return &educationService{
		educationRepo: educationRepo,
		authorRepo:    authorRepo,
		logger:        logger,
	}
}

// List retrieves a page of education records
func (s *educationService) List(ctx context.Context, filter models.EducationListFilter) ([]models.Education, int, error) {
	return s.educationRepo.List(ctx, filter)
}

// Get retrieves a single education record with its author projection
func (s *educationService) Get(ctx context.Context, id int) (*models.Education, error) {
	return s.educationRepo.GetByID(ctx, id)
}

// Create inserts a new education record and bumps the author's counter
func (s *educationService) Create(ctx context.Context, req *models.CreateEducationRequest) (*models.Education, error) {
	edu := &models.Education{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		Category:         req.Category,
		Level:            req.Level,
		Duration:         req.Duration,
		Thumbnail:        req.Thumbnail,
		Images:           req.Images,
		Tags:             req.Tags,
		AuthorID:         req.AuthorID,
		IsPremium:        req.IsPremium,
		IsActive:         true,
	}

	if err := s.educationRepo.Create(ctx, edu); err != nil {
		return nil, err
	}

	if edu.AuthorID != 0 {
		if err := s.authorRepo.IncrementEducationCount(ctx, edu.AuthorID, 1); err != nil {
			s.logger.Warn("failed to increment author education count",
				zap.Int("authorId", edu.AuthorID), zap.Error(err))
		}
	}

	return s.educationRepo.GetByID(ctx, edu.ID)
}

// Update applies a partial update
func (s *educationService) Update(ctx context.Context, id int, req *models.UpdateEducationRequest) (*models.Education, error) {
	if err := s.educationRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.educationRepo.GetByID(ctx, id)
}

// Delete removes an education record and drops the author's counter
func (s *educationService) Delete(ctx context.Context, id int) error {
	edu, err := s.educationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.educationRepo.Delete(ctx, id); err != nil {
		return err
	}

	if edu.AuthorID != 0 {
		if err := s.authorRepo.IncrementEducationCount(ctx, edu.AuthorID, -1); err != nil {
			s.logger.Warn("failed to decrement author education count",
				zap.Int("authorId", edu.AuthorID), zap.Error(err))
		}
	}

	return nil
}

// ToggleStatus flips the activation flag
func (s *educationService) ToggleStatus(ctx context.Context, id int) (*models.Education, error) {
	edu, err := s.educationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.educationRepo.SetActive(ctx, id, !edu.IsActive); err != nil {
		return nil, err
	}

	edu.IsActive = !edu.IsActive
	return edu, nil
}

// SetPublished flips the published flag
func (s *educationService) SetPublished(ctx context.Context, id int, published bool) (*models.Education, error) {
	if err := s.educationRepo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	return s.educationRepo.GetByID(ctx, id)
}

// Stats aggregates education content figures
func (s *educationService) Stats(ctx context.Context) (*models.EducationStats, error) {
	return s.educationRepo.Stats(ctx)
}
