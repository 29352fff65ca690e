package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// AuthorRepository is the interface that wraps author table data access
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id int) (*models.Author, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error)
	List(ctx context.Context, filter models.AuthorListFilter) ([]models.Author, int, error)
	Update(ctx context.Context, id int, req *models.UpdateAuthorRequest) error
	SetActive(ctx context.Context, id int, active bool) error
	SetVerified(ctx context.Context, id int, verified bool) error
	Delete(ctx context.Context, id int) error
}

// authorService implements author management
type authorService struct {
	authorRepo AuthorRepository
	logger     *zap.Logger
}

// NewAuthorService creates a new author service
func NewAuthorService(authorRepo AuthorRepository, logger *zap.Logger) *authorService {
	return &authorService{
		authorRepo: authorRepo,
		logger:     logger,
	}
}

// List retrieves a page of authors
func (s *authorService) List(ctx context.Context, filter models.AuthorListFilter) ([]models.Author, int, error) {
	return s.authorRepo.List(ctx, filter)
}

// Get retrieves a single author
func (s *authorService) Get(ctx context.Context, id int) (*models.Author, error) {
	return s.authorRepo.GetByID(ctx, id)
}

// Create inserts a new author, rejecting a duplicate email
func (s *authorService) Create(ctx context.Context, req *models.CreateAuthorRequest) (*models.Author, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	exists, err := s.authorRepo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("an author with this email already exists: %w", models.ErrDuplicate)
	}

	author := &models.Author{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Phone:          req.Phone,
		Bio:            req.Bio,
		ShortBio:       req.ShortBio,
		ProfileImage:   req.ProfileImage,
		CoverImage:     req.CoverImage,
		Specialization: req.Specialization,
		Languages:      req.Languages,
		IsActive:       true,
	}

	if err := s.authorRepo.Create(ctx, author); err != nil {
		return nil, err
	}

	return author, nil
}

// Update applies a partial update, rejecting an email already held by
// another author
func (s *authorService) Update(ctx context.Context, id int, req *models.UpdateAuthorRequest) (*models.Author, error) {
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		req.Email = &email

		taken, err := s.authorRepo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("an author with this email already exists: %w", models.ErrDuplicate)
		}
	}

	if err := s.authorRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.authorRepo.GetByID(ctx, id)
}

// Delete removes an author
func (s *authorService) Delete(ctx context.Context, id int) error {
	return s.authorRepo.Delete(ctx, id)
}

// ToggleStatus flips the activation flag
func (s *authorService) ToggleStatus(ctx context.Context, id int) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorRepo.SetActive(ctx, id, !author.IsActive); err != nil {
		return nil, err
	}

	author.IsActive = !author.IsActive
	return author, nil
}

// SetVerified flips the verification flag, stamping or clearing verified_at
func (s *authorService) SetVerified(ctx context.Context, id int, verified bool) (*models.Author, error) {
	if err := s.authorRepo.SetVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	return s.authorRepo.GetByID(ctx, id)
}
