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

// AdminService is the interface that wraps admin account management
type AdminService interface {
	List(ctx context.Context, filter models.AdminListFilter) ([]models.Admin, int, error)
	Get(ctx context.Context, id int) (*models.Admin, error)
	Create(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error)
	Update(ctx context.Context, id int, req *models.UpdateAdminRequest) (*models.Admin, error)
	// Delete refuses actorID == id with services.ErrSelfDelete.
	Delete(ctx context.Context, actorID, id int) error
	// ToggleStatus refuses actorID == id with services.ErrSelfDeactivate.
	ToggleStatus(ctx context.Context, actorID, id int) (*models.Admin, error)
	Stats(ctx context.Context) (*models.AdminStats, error)
}

// AdminHandler handles admin account HTTP requests
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin account routes. Everything is
// super-admin only except get-one (admins may view, the handler limits
// them to themselves) and update (the handler limits non-supers to their
// own basic fields).
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admins", func(r chi.Router) {
		r.With(auth.RequireRole(models.RoleSuperAdmin, models.RoleAdmin)).Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleSuperAdmin))
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
			r.Patch("/{id}/toggle-status", h.ToggleStatus)
			r.Get("/stats/overview", h.Stats)
		})
	})
}

// List handles GET /admins
// @Summary List admins
// @Description Get a paginated admin list with search, role and activation filters
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in email and names"
// @Param role query string false "Filter by role"
// @Param isActive query bool false "Filter by activation"
// @Success 200 {object} response "Admin list with pagination"
// @Failure 403 {object} response "Insufficient role"
// @Router /admins [get]
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.AdminListFilter{
		ListParams: parseListParams(r),
		Role:       r.URL.Query().Get("role"),
		IsActive:   queryBool(r, "isActive"),
	}

	admins, total, err := h.adminService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list admins", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if admins == nil {
		admins = []models.Admin{}
	}
	h.RespondData(w, http.StatusOK, listPayload("admins", admins, filter.ListParams, total))
}

// Get handles GET /admins/{id}
// @Summary Get an admin
// @Description Get one admin. Non-super admins may only view themselves.
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} response "Admin"
// @Failure 400 {object} response "Invalid id"
// @Failure 403 {object} response "Not your account"
// @Failure 404 {object} response "Admin not found"
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid admin id")
		return
	}

	actor, _ := auth.GetAdmin(r.Context())
	if actor.Role != models.RoleSuperAdmin && actor.ID != id {
		h.RespondError(w, http.StatusForbidden, "You can only view your own account")
		return
	}

	admin, err := h.adminService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Admin not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"admin": admin})
}

// Create handles POST /admins
// @Summary Create an admin
// @Description Create an admin account with an optional explicit permission set
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateAdminRequest true "Admin fields"
// @Success 201 {object} response "Created admin"
// @Failure 400 {object} response "Validation failed or duplicate email"
// @Router /admins [post]
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdminRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("email", req.Email)
	v.Email("email", req.Email)
	v.Required("password", req.Password)
	v.MinLen("password", req.Password, 8)
	v.Required("firstName", req.FirstName)
	v.Required("lastName", req.LastName)
	v.Required("role", req.Role)
	if req.Role != "" && !models.ValidRole(req.Role) {
		v.Add("role", "Invalid role")
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	admin, err := h.adminService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "Admin not found")
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Admin created successfully", map[string]any{"admin": admin})
}

// Update handles PUT /admins/{id}
// @Summary Update an admin
// @Description Partial update. Non-super admins may only change their own name and email.
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Param request body models.UpdateAdminRequest true "Fields to change"
// @Success 200 {object} response "Updated admin"
// @Failure 400 {object} response "Validation failed or duplicate email"
// @Failure 403 {object} response "Not your account"
// @Failure 404 {object} response "Admin not found"
// @Router /admins/{id} [put]
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid admin id")
		return
	}

	actor, _ := auth.GetAdmin(r.Context())
	if actor.Role != models.RoleSuperAdmin && actor.ID != id {
		h.RespondError(w, http.StatusForbidden, "You can only update your own account")
		return
	}

	var req models.UpdateAdminRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if actor.Role != models.RoleSuperAdmin {
		// Role, permission and activation changes stay super-admin only
		req.Role = nil
		req.Permissions = nil
		req.IsActive = nil
	}

	v := validation.New()
	if req.Email != nil {
		v.Email("email", *req.Email)
	}
	if req.Role != nil && !models.ValidRole(*req.Role) {
		v.Add("role", "Invalid role")
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	admin, err := h.adminService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "Admin not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Admin updated successfully", map[string]any{"admin": admin})
}

// Delete handles DELETE /admins/{id}
// @Summary Delete an admin
// @Description Delete an admin account. Deleting your own account is refused.
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} response "Deleted"
// @Failure 400 {object} response "Invalid id or self delete"
// @Failure 404 {object} response "Admin not found"
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid admin id")
		return
	}

	actor, _ := auth.GetAdmin(r.Context())
	if err := h.adminService.Delete(r.Context(), actor.ID, id); err != nil {
		if errors.Is(err, services.ErrSelfDelete) {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.RespondServiceError(w, err, "Admin not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Admin deleted successfully", nil)
}

// ToggleStatus handles PATCH /admins/{id}/toggle-status
// @Summary Toggle admin activation
// @Description Flip the activation flag. Deactivating your own account is refused.
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} response "Updated admin"
// @Failure 400 {object} response "Invalid id or self deactivate"
// @Failure 404 {object} response "Admin not found"
// @Router /admins/{id}/toggle-status [patch]
func (h *AdminHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid admin id")
		return
	}

	actor, _ := auth.GetAdmin(r.Context())
	admin, err := h.adminService.ToggleStatus(r.Context(), actor.ID, id)
	if err != nil {
		if errors.Is(err, services.ErrSelfDeactivate) {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.RespondServiceError(w, err, "Admin not found")
		return
	}

	message := "Admin deactivated"
	if admin.IsActive {
		message = "Admin activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"admin": admin})
}

// Stats handles GET /admins/stats/overview
// @Summary Admin statistics
// @Description Totals, per-role distribution and 7-day login count
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Aggregates"
// @Router /admins/stats/overview [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to load admin stats", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.RespondData(w, http.StatusOK, stats)
}
