package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// SessionRepository is the interface that wraps session table data access
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id int) (*models.Session, error)
	List(ctx context.Context, filter models.SessionListFilter) ([]models.Session, int, error)
	Update(ctx context.Context, id int, req *models.UpdateSessionRequest) error
	SetActive(ctx context.Context, id int, active bool) error
	SetPublished(ctx context.Context, id int, published bool) error
	Delete(ctx context.Context, id int) error
}

// sessionService implements guided session management
type sessionService struct {
	sessionRepo SessionRepository
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo SessionRepository, logger *zap.Logger) *sessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// List retrieves a page of sessions
func (s *sessionService) List(ctx context.Context, filter models.SessionListFilter) ([]models.Session, int, error) {
	return s.sessionRepo.List(ctx, filter)
}

// Get retrieves a single session with its expert projection
func (s *sessionService) Get(ctx context.Context, id int) (*models.Session, error) {
	return s.sessionRepo.GetByID(ctx, id)
}

// Create inserts a new session
func (s *sessionService) Create(ctx context.Context, req *models.CreateSessionRequest) (*models.Session, error) {
	session := &models.Session{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Category:        req.Category,
		ExpertID:        req.ExpertID,
		Duration:        req.Duration,
		MaxParticipants: req.MaxParticipants,
		Price:           req.Price,
		Currency:        req.Currency,
		Thumbnail:       req.Thumbnail,
		Images:          req.Images,
		Tags:            req.Tags,
		IsActive:        true,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return s.sessionRepo.GetByID(ctx, session.ID)
}

// Update applies a partial update
func (s *sessionService) Update(ctx context.Context, id int, req *models.UpdateSessionRequest) (*models.Session, error) {
	if err := s.sessionRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, id)
}

// Delete removes a session
func (s *sessionService) Delete(ctx context.Context, id int) error {
	return s.sessionRepo.Delete(ctx, id)
}

// ToggleStatus flips the activation flag
func (s *sessionService) ToggleStatus(ctx context.Context, id int) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.SetActive(ctx, id, !session.IsActive); err != nil {
		return nil, err
	}

	session.IsActive = !session.IsActive
	return session, nil
}

// SetPublished flips the published flag
func (s *sessionService) SetPublished(ctx context.Context, id int, published bool) (*models.Session, error) {
	if err := s.sessionRepo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, id)
}
