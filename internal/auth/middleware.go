package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/innerdreams/admin-backend/internal/models"
)

type contextKey string

const adminKey contextKey = "admin"

// AdminLoader resolves an admin record by id, without the password hash.
type AdminLoader interface {
	GetByID(ctx context.Context, id int) (*models.Admin, error)
}

// AdminAuthMiddleware validates the bearer token, loads the referenced
// admin and rejects deactivated accounts
func AdminAuthMiddleware(tokenGenerator *TokenGenerator, admins AdminLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			adminID, _, err := tokenGenerator.ValidateToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					writeJSONError(w, http.StatusUnauthorized, "Token expired.")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "Invalid token.")
				return
			}

			admin, err := admins.GetByID(r.Context(), adminID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					writeJSONError(w, http.StatusUnauthorized, "Invalid token. Admin not found.")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "Server error during authentication.")
				return
			}

			if !admin.IsActive {
				writeJSONError(w, http.StatusUnauthorized, "Account is deactivated.")
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission passes super admins unconditionally, everyone else
// only when the capability is granted on their permission map
func RequirePermission(capability models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, ok := GetAdmin(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required.")
				return
			}

			if admin.Role == models.RoleSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}

			if !admin.Permissions.Has(capability) {
				writeJSONError(w, http.StatusForbidden,
					"Insufficient permissions. Required: "+string(capability))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole passes only callers whose role is in the allowed set
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, ok := GetAdmin(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required.")
				return
			}

			for _, role := range roles {
				if admin.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			names := make([]string, len(roles))
			for i, role := range roles {
				names[i] = string(role)
			}
			writeJSONError(w, http.StatusForbidden,
				"Insufficient role. Required: "+strings.Join(names, " or "))
		})
	}
}

// GetAdmin retrieves the authenticated admin from context
func GetAdmin(ctx context.Context) (*models.Admin, bool) {
	admin, ok := ctx.Value(adminKey).(*models.Admin)
	return admin, ok
}

// WithAdmin returns a context carrying the given admin, for tests and
// internal calls
func WithAdmin(ctx context.Context, admin *models.Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":false,"message":` + jsonString(message) + `}`))
}

// jsonString quotes a message for embedding in a JSON literal. Messages
// are internal constants so only quotes need escaping.
func jsonString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
