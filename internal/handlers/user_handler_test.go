package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
)

type mockUserService struct {
	users         []models.User
	user          *models.User
	dreams        []models.Dream
	stats         *models.UserStats
	err           error
	deletedDreams int
	subStatus     models.SubscriptionStatus
	subExpiry     *time.Time
}

func (m *mockUserService) List(_ context.Context, _ models.UserListFilter) ([]models.User, int, error) {
	return m.users, len(m.users), m.err
}

func (m *mockUserService) Get(_ context.Context, _ int) (*models.User, error) {
	return m.user, m.err
}

func (m *mockUserService) Update(_ context.Context, _ int, _ *models.UpdateUserRequest) (*models.User, error) {
	return m.user, m.err
}

func (m *mockUserService) Delete(_ context.Context, _ int) (int, error) {
	return m.deletedDreams, m.err
}

func (m *mockUserService) ToggleStatus(_ context.Context, _ int) (*models.User, error) {
	return m.user, m.err
}

func (m *mockUserService) UpdateSubscription(_ context.Context, _ int, status models.SubscriptionStatus, expiry *time.Time) (*models.User, error) {
	m.subStatus = status
	m.subExpiry = expiry
	return m.user, m.err
}

func (m *mockUserService) ListDreams(_ context.Context, _ int, _ models.ListParams) ([]models.Dream, int, error) {
	return m.dreams, len(m.dreams), m.err
}

func (m *mockUserService) Stats(_ context.Context) (*models.UserStats, error) {
	return m.stats, m.err
}

func newUserRouter(svc *mockUserService, actor *models.Admin) http.Handler {
	logger, _ := zap.NewDevelopment()
	h := NewUserHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithAdmin(req.Context(), actor)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func TestUserHandler_PermissionGuard(t *testing.T) {
	actor := regularAdmin()
	actor.Permissions.Users = false

	router := newUserRouter(&mockUserService{}, actor)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeResponse(t, rec)
	assert.Contains(t, body["message"], "users")
}

func TestUserHandler_SuperAdminBypassesPermissions(t *testing.T) {
	actor := superAdmin()

	router := newUserRouter(&mockUserService{users: []models.User{{ID: 1}}}, actor)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler_List_EmptyPageIsAnEmptyArray(t *testing.T) {
	router := newUserRouter(&mockUserService{}, superAdmin())

	req := httptest.NewRequest(http.MethodGet, "/users?page=3&limit=20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data := body["data"].(map[string]any)

	users, ok := data["users"].([]any)
	require.True(t, ok, "users must serialize as an array, not null")
	assert.Empty(t, users)

	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(3), pagination["current"])
}

func TestUserHandler_Delete_ReportsCascadedDreams(t *testing.T) {
	svc := &mockUserService{deletedDreams: 12}
	router := newUserRouter(svc, superAdmin())

	req := httptest.NewRequest(http.MethodDelete, "/users/4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(12), data["deletedDreams"])
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	svc := &mockUserService{err: models.ErrNotFound}
	router := newUserRouter(svc, superAdmin())

	req := httptest.NewRequest(http.MethodDelete, "/users/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "User not found", body["message"])
}

func TestUserHandler_UpdateSubscription(t *testing.T) {
	tests := []struct {
		name           string
		payload        map[string]any
		expectedStatus int
		expectedTier   models.SubscriptionStatus
	}{
		{
			name: "premium with expiry",
			payload: map[string]any{
				"subscriptionStatus": "premium",
				"subscriptionExpiry": "2026-12-31T00:00:00Z",
			},
			expectedStatus: http.StatusOK,
			expectedTier:   models.SubscriptionPremium,
		},
		{
			name:           "downgrade to free",
			payload:        map[string]any{"subscriptionStatus": "free"},
			expectedStatus: http.StatusOK,
			expectedTier:   models.SubscriptionFree,
		},
		{
			name:           "unknown tier rejected",
			payload:        map[string]any{"subscriptionStatus": "platinum"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing tier rejected",
			payload:        map[string]any{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUserService{user: &models.User{ID: 4}}
			router := newUserRouter(svc, superAdmin())

			raw, _ := json.Marshal(tt.payload)
			req := httptest.NewRequest(http.MethodPatch, "/users/4/subscription", bytes.NewReader(raw))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedTier, svc.subStatus)
			}
		})
	}
}

func TestUserHandler_InvalidID(t *testing.T) {
	router := newUserRouter(&mockUserService{}, superAdmin())

	req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
