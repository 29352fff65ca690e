package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innerdreams/admin-backend/internal/models"
)

// mockAdminLoader implements AdminLoader for middleware tests
type mockAdminLoader struct {
	admin *models.Admin
	err   error
}

func (m *mockAdminLoader) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.admin, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func activeAdmin(role models.Role) *models.Admin {
	return &models.Admin{
		ID:          7,
		Email:       "admin@example.com",
		Role:        role,
		Permissions: models.DefaultPermissions(),
		IsActive:    true,
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	validToken, err := tg.GenerateToken(7, models.RoleAdmin)
	require.NoError(t, err)

	expiredToken, err := NewTokenGenerator("test-secret", -time.Minute).
		GenerateToken(7, models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		loader     *mockAdminLoader
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "no token",
			authHeader: "",
			loader:     &mockAdminLoader{admin: activeAdmin(models.RoleAdmin)},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Access denied. No token provided.",
		},
		{
			name:       "malformed token",
			authHeader: "Bearer not.a.token",
			loader:     &mockAdminLoader{admin: activeAdmin(models.RoleAdmin)},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid token.",
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + expiredToken,
			loader:     &mockAdminLoader{admin: activeAdmin(models.RoleAdmin)},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token expired.",
		},
		{
			name:       "admin not found",
			authHeader: "Bearer " + validToken,
			loader:     &mockAdminLoader{err: models.ErrNotFound},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid token. Admin not found.",
		},
		{
			name:       "deactivated account",
			authHeader: "Bearer " + validToken,
			loader: &mockAdminLoader{admin: &models.Admin{
				ID: 7, Role: models.RoleAdmin, IsActive: false,
			}},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Account is deactivated.",
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + validToken,
			loader:     &mockAdminLoader{admin: activeAdmin(models.RoleAdmin)},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := AdminAuthMiddleware(tg, tt.loader)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		admin      *models.Admin
		capability models.Capability
		wantStatus int
		wantMsg    string
	}{
		{
			name: "super admin bypasses denied capability",
			admin: &models.Admin{
				Role:        models.RoleSuperAdmin,
				Permissions: models.Permissions{},
				IsActive:    true,
			},
			capability: models.CapAnalytics,
			wantStatus: http.StatusOK,
		},
		{
			name: "granted capability passes",
			admin: &models.Admin{
				Role:        models.RoleAdmin,
				Permissions: models.Permissions{Users: true},
				IsActive:    true,
			},
			capability: models.CapUsers,
			wantStatus: http.StatusOK,
		},
		{
			name: "missing capability forbidden",
			admin: &models.Admin{
				Role:        models.RoleModerator,
				Permissions: models.Permissions{Users: true},
				IsActive:    true,
			},
			capability: models.CapAnalytics,
			wantStatus: http.StatusForbidden,
			wantMsg:    "Insufficient permissions. Required: analytics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := RequirePermission(tt.capability)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			req = req.WithContext(WithAdmin(req.Context(), tt.admin))
			rec := httptest.NewRecorder()

			mw(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestRequirePermission_NoAdminInContext(t *testing.T) {
	mw := RequirePermission(models.CapUsers)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()

	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(models.RoleSuperAdmin, models.RoleAdmin)

	t.Run("allowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/admins/3", nil)
		req = req.WithContext(WithAdmin(req.Context(), activeAdmin(models.RoleAdmin)))
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disallowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/admins/3", nil)
		req = req.WithContext(WithAdmin(req.Context(), activeAdmin(models.RoleModerator)))
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Insufficient role. Required: super_admin or admin", body["message"])
	})
}
