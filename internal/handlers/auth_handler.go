package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
	"github.com/innerdreams/admin-backend/internal/services"
	"github.com/innerdreams/admin-backend/internal/validation"
)

// AuthService is the interface that wraps admin authentication
type AuthService interface {
	// Login verifies the credentials and returns the admin and an access
	// token. Returns services.ErrInvalidCredentials on a bad email or
	// password and services.ErrAccountDeactivated on a disabled account.
	Login(ctx context.Context, email, password string) (*models.Admin, string, error)
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterPublicRoutes registers the routes reachable without a token
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// RegisterRoutes registers the routes behind the auth guard
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/auth/me", h.Me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
// @Summary Admin login
// @Description Verify admin credentials and issue an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} response "Admin profile and token"
// @Failure 400 {object} response "Validation failed"
// @Failure 401 {object} response "Invalid credentials or deactivated account"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("email", req.Email)
	v.Email("email", req.Email)
	v.Required("password", req.Password)
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	admin, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			h.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, services.ErrAccountDeactivated):
			h.RespondError(w, http.StatusUnauthorized, "Account is deactivated")
		default:
			h.Logger.Error("login failed", zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{
		"admin": admin,
		"token": token,
	})
}

// Me handles GET /auth/me
// @Summary Current admin
// @Description Return the admin resolved from the bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Admin profile"
// @Failure 401 {object} response "Missing or invalid token"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, ok := auth.GetAdmin(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"admin": admin})
}
