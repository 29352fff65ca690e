package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// PaymentRepository is the interface that wraps billing data access.
// The tables behind it are written by the billing webhook consumer and
// read-only here.
type PaymentRepository interface {
	ListSubscriptions(ctx context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, int, error)
	ListTransactions(ctx context.Context, filter models.TransactionListFilter) ([]models.Transaction, int, error)
	ListUsageLogs(ctx context.Context, filter models.UsageLogListFilter) ([]models.UsageLog, int, error)
	Stats(ctx context.Context) (*models.PaymentStats, error)
}

// paymentService exposes the billing mirror to the admin panel
type paymentService struct {
	paymentRepo PaymentRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo PaymentRepository, logger *zap.Logger) *paymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// ListSubscriptions retrieves a page of subscriptions
func (s *paymentService) ListSubscriptions(ctx context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, int, error) {
	return s.paymentRepo.ListSubscriptions(ctx, filter)
}

// ListTransactions retrieves a page of store transactions
func (s *paymentService) ListTransactions(ctx context.Context, filter models.TransactionListFilter) ([]models.Transaction, int, error) {
	return s.paymentRepo.ListTransactions(ctx, filter)
}

// ListUsageLogs retrieves a page of metered service usage
func (s *paymentService) ListUsageLogs(ctx context.Context, filter models.UsageLogListFilter) ([]models.UsageLog, int, error) {
	return s.paymentRepo.ListUsageLogs(ctx, filter)
}

// Stats aggregates revenue and usage counters
func (s *paymentService) Stats(ctx context.Context) (*models.PaymentStats, error) {
	return s.paymentRepo.Stats(ctx)
}
