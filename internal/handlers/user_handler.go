package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
	"github.com/innerdreams/admin-backend/internal/validation"
)

// UserService is the interface that wraps end-user account management
type UserService interface {
	List(ctx context.Context, filter models.UserListFilter) ([]models.User, int, error)
	Get(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error)
	// Delete removes the user and their dreams, returning the dream count.
	Delete(ctx context.Context, id int) (int, error)
	ToggleStatus(ctx context.Context, id int) (*models.User, error)
	UpdateSubscription(ctx context.Context, id int, status models.SubscriptionStatus, expiry *time.Time) (*models.User, error)
	ListDreams(ctx context.Context, userID int, params models.ListParams) ([]models.Dream, int, error)
	Stats(ctx context.Context) (*models.UserStats, error)
}

// UserHandler handles end-user HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapUsers))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle-status", h.ToggleStatus)
		r.Patch("/{id}/subscription", h.UpdateSubscription)
		r.Get("/{id}/dreams", h.ListDreams)
		r.Get("/stats/overview", h.Stats)
	})
}

// List handles GET /users
// @Summary List users
// @Description Get a paginated user list with search, subscription and activation filters
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in email and names"
// @Param subscriptionStatus query string false "free or premium"
// @Param isActive query bool false "Filter by activation"
// @Success 200 {object} response "User list with pagination"
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.UserListFilter{
		ListParams:         parseListParams(r),
		SubscriptionStatus: r.URL.Query().Get("subscriptionStatus"),
		IsActive:           queryBool(r, "isActive"),
	}

	users, total, err := h.userService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list users", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if users == nil {
		users = []models.User{}
	}
	h.RespondData(w, http.StatusOK, listPayload("users", users, filter.ListParams, total))
}

// Get handles GET /users/{id}
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response "User"
// @Failure 404 {object} response "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "User not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"user": user})
}

// Update handles PUT /users/{id}
// @Summary Update a user
// @Description Partial update of profile fields; a changed email must be free
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} response "Updated user"
// @Failure 400 {object} response "Validation failed or duplicate email"
// @Failure 404 {object} response "User not found"
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req models.UpdateUserRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	if req.Email != nil {
		v.Email("email", *req.Email)
	}
	if req.SubscriptionStatus != nil && !models.ValidSubscriptionStatus(*req.SubscriptionStatus) {
		v.Add("subscriptionStatus", "Invalid subscriptionStatus")
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "User not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "User updated successfully", map[string]any{"user": user})
}

// Delete handles DELETE /users/{id}
// @Summary Delete a user
// @Description Delete a user and every dream they recorded
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response "Deleted, with the dream count"
// @Failure 404 {object} response "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	deletedDreams, err := h.userService.Delete(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "User not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "User deleted successfully",
		map[string]any{"deletedDreams": deletedDreams})
}

// ToggleStatus handles PATCH /users/{id}/toggle-status
// @Summary Toggle user activation
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response "Updated user"
// @Failure 404 {object} response "User not found"
// @Router /users/{id}/toggle-status [patch]
func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "User not found")
		return
	}

	message := "User deactivated"
	if user.IsActive {
		message = "User activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"user": user})
}

type updateSubscriptionRequest struct {
	SubscriptionStatus string     `json:"subscriptionStatus"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry"`
}

// UpdateSubscription handles PATCH /users/{id}/subscription
// @Summary Change a user's subscription tier
// @Description Set free or premium. Dropping to free clears the expiry.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body updateSubscriptionRequest true "Tier and optional expiry"
// @Success 200 {object} response "Updated user"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "User not found"
// @Router /users/{id}/subscription [patch]
func (h *UserHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req updateSubscriptionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("subscriptionStatus", req.SubscriptionStatus)
	if req.SubscriptionStatus != "" && !models.ValidSubscriptionStatus(req.SubscriptionStatus) {
		v.Add("subscriptionStatus", "Invalid subscriptionStatus")
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	user, err := h.userService.UpdateSubscription(r.Context(), id,
		models.SubscriptionStatus(req.SubscriptionStatus), req.SubscriptionExpiry)
	if err != nil {
		h.RespondServiceError(w, err, "User not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Subscription updated successfully", map[string]any{"user": user})
}

// ListDreams handles GET /users/{id}/dreams
// @Summary List a user's dreams
// @Description Paged dream journal entries, newest dream date first
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} response "Dream list with pagination"
// @Failure 404 {object} response "User not found"
// @Router /users/{id}/dreams [get]
func (h *UserHandler) ListDreams(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	params := parseListParams(r)
	dreams, total, err := h.userService.ListDreams(r.Context(), id, params)
	if err != nil {
		h.RespondServiceError(w, err, "User not found")
		return
	}

	if dreams == nil {
		dreams = []models.Dream{}
	}
	h.RespondData(w, http.StatusOK, listPayload("dreams", dreams, params, total))
}

// Stats handles GET /users/stats/overview
// @Summary User statistics
// @Description Totals, premium/free split, 7-day registrations and dream figures
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Aggregates"
// @Router /users/stats/overview [get]
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.userService.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to load user stats", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.RespondData(w, http.StatusOK, stats)
}
