package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
)

type mockPaymentService struct {
	subscriptions []models.Subscription
	transactions  []models.Transaction
	logs          []models.UsageLog
	stats         *models.PaymentStats
	err           error

	subFilter   models.SubscriptionListFilter
	txFilter    models.TransactionListFilter
	usageFilter models.UsageLogListFilter
}

func (m *mockPaymentService) ListSubscriptions(_ context.Context, filter models.SubscriptionListFilter) ([]models.Subscription, int, error) {
	m.subFilter = filter
	return m.subscriptions, len(m.subscriptions), m.err
}

func (m *mockPaymentService) ListTransactions(_ context.Context, filter models.TransactionListFilter) ([]models.Transaction, int, error) {
	m.txFilter = filter
	return m.transactions, len(m.transactions), m.err
}

func (m *mockPaymentService) ListUsageLogs(_ context.Context, filter models.UsageLogListFilter) ([]models.UsageLog, int, error) {
	m.usageFilter = filter
	return m.logs, len(m.logs), m.err
}

func (m *mockPaymentService) Stats(_ context.Context) (*models.PaymentStats, error) {
	return m.stats, m.err
}

func newPaymentRouter(svc *mockPaymentService, actor *models.Admin) http.Handler {
	logger, _ := zap.NewDevelopment()
	h := NewPaymentHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithAdmin(req.Context(), actor)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func TestPaymentHandler_ListFilters(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		check  func(t *testing.T, svc *mockPaymentService)
		bodyOK func(t *testing.T, data map[string]any)
	}{
		{
			name: "subscription filters parsed",
			url:  "/payments/subscriptions?status=active&plan=premium&user=7",
			check: func(t *testing.T, svc *mockPaymentService) {
				assert.Equal(t, "active", svc.subFilter.Status)
				assert.Equal(t, "premium", svc.subFilter.Plan)
				assert.Equal(t, 7, svc.subFilter.UserID)
			},
			bodyOK: func(t *testing.T, data map[string]any) {
				assert.NotNil(t, data["subscriptions"])
			},
		},
		{
			name: "transaction user filter parsed",
			url:  "/payments/transactions?user=42",
			check: func(t *testing.T, svc *mockPaymentService) {
				assert.Equal(t, 42, svc.txFilter.UserID)
			},
			bodyOK: func(t *testing.T, data map[string]any) {
				assert.NotNil(t, data["transactions"])
			},
		},
		{
			name: "usage service and user filters parsed",
			url:  "/payments/usage?service=interpretation&user=9",
			check: func(t *testing.T, svc *mockPaymentService) {
				assert.Equal(t, "interpretation", svc.usageFilter.Service)
				assert.Equal(t, 9, svc.usageFilter.UserID)
			},
			bodyOK: func(t *testing.T, data map[string]any) {
				assert.NotNil(t, data["usageLogs"])
			},
		},
		{
			name: "absent user filter stays zero",
			url:  "/payments/transactions?status=completed",
			check: func(t *testing.T, svc *mockPaymentService) {
				assert.Equal(t, "completed", svc.txFilter.Status)
				assert.Equal(t, 0, svc.txFilter.UserID)
			},
			bodyOK: func(t *testing.T, data map[string]any) {
				assert.NotNil(t, data["transactions"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPaymentService{}
			router := newPaymentRouter(svc, superAdmin())

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			tt.check(t, svc)

			body := decodeResponse(t, rec)
			data := body["data"].(map[string]any)
			tt.bodyOK(t, data)
		})
	}
}

func TestPaymentHandler_PermissionGuard(t *testing.T) {
	actor := regularAdmin()
	actor.Permissions.Analytics = false

	router := newPaymentRouter(&mockPaymentService{}, actor)

	req := httptest.NewRequest(http.MethodGet, "/payments/subscriptions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
