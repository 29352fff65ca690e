package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
)

// PaymentService is the interface that wraps the read-only billing views
type PaymentService interface {
	ListSubscriptions(ctx context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, int, error)
	ListTransactions(ctx context.Context, filter models.TransactionListFilter) ([]models.Transaction, int, error)
	ListUsageLogs(ctx context.Context, filter models.UsageLogListFilter) ([]models.UsageLog, int, error)
	Stats(ctx context.Context) (*models.PaymentStats, error)
}

// PaymentHandler handles billing HTTP requests. The underlying tables
// are written by the billing webhook consumer, so everything here is read-only.
type PaymentHandler struct {
	BaseHandler
	paymentService PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		paymentService: paymentService,
	}
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapAnalytics))
		r.Get("/subscriptions", h.ListSubscriptions)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/usage", h.ListUsageLogs)
		r.Get("/stats/overview", h.Stats)
	})
}

// ListSubscriptions handles GET /payments/subscriptions
// @Summary List subscriptions
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param status query string false "Filter by status"
// @Param plan query string false "Filter by plan"
// @Param user query int false "Filter by user id"
// @Success 200 {object} response "Subscription list with pagination"
// @Router /payments/subscriptions [get]
func (h *PaymentHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	filter := models.SubscriptionListFilter{
		ListParams: parseListParams(r),
		Status:     r.URL.Query().Get("status"),
		Plan:       r.URL.Query().Get("plan"),
		UserID:     queryInt(r, "user"),
	}

	subscriptions, total, err := h.paymentService.ListSubscriptions(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list subscriptions", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if subscriptions == nil {
		subscriptions = []models.Subscription{}
	}
	h.RespondData(w, http.StatusOK, listPayload("subscriptions", subscriptions, filter.ListParams, total))
}

// ListTransactions handles GET /payments/transactions
// @Summary List transactions
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param status query string false "Filter by status"
// @Param user query int false "Filter by user id"
// @Success 200 {object} response "Transaction list with pagination"
// @Router /payments/transactions [get]
func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := models.TransactionListFilter{
		ListParams: parseListParams(r),
		Status:     r.URL.Query().Get("status"),
		UserID:     queryInt(r, "user"),
	}

	transactions, total, err := h.paymentService.ListTransactions(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list transactions", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}
	h.RespondData(w, http.StatusOK, listPayload("transactions", transactions, filter.ListParams, total))
}

// ListUsageLogs handles GET /payments/usage
// @Summary List usage logs
// @Description Get the metered service usage entries behind the billing figures
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param service query string false "Filter by metered service"
// @Param user query int false "Filter by user id"
// @Success 200 {object} response "Usage log list with pagination"
// @Router /payments/usage [get]
func (h *PaymentHandler) ListUsageLogs(w http.ResponseWriter, r *http.Request) {
	filter := models.UsageLogListFilter{
		ListParams: parseListParams(r),
		Service:    r.URL.Query().Get("service"),
		UserID:     queryInt(r, "user"),
	}

	logs, total, err := h.paymentService.ListUsageLogs(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list usage logs", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if logs == nil {
		logs = []models.UsageLog{}
	}
	h.RespondData(w, http.StatusOK, listPayload("usageLogs", logs, filter.ListParams, total))
}

// Stats handles GET /payments/stats/overview
// @Summary Billing statistics
// @Description Revenue totals, subscription distribution and usage aggregates
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Aggregates"
// @Router /payments/stats/overview [get]
func (h *PaymentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.paymentService.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to load payment stats", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.RespondData(w, http.StatusOK, stats)
}
