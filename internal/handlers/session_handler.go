package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
	"github.com/innerdreams/admin-backend/internal/validation"
)

// SessionService is the interface that wraps session catalog management
type SessionService interface {
	List(ctx context.Context, filter models.SessionListFilter) ([]models.Session, int, error)
	Get(ctx context.Context, id int) (*models.Session, error)
	Create(ctx context.Context, req *models.CreateSessionRequest) (*models.Session, error)
	Update(ctx context.Context, id int, req *models.UpdateSessionRequest) (*models.Session, error)
	Delete(ctx context.Context, id int) error
	ToggleStatus(ctx context.Context, id int) (*models.Session, error)
	SetPublished(ctx context.Context, id int, published bool) (*models.Session, error)
}

// SessionHandler handles session catalog HTTP requests
type SessionHandler struct {
	BaseHandler
	sessionService SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		sessionService: sessionService,
	}
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapSessions))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle-status", h.ToggleStatus)
		r.Patch("/{id}/publish", h.Publish)
	})
}

// List handles GET /sessions
// @Summary List sessions
// @Description Get a paginated session list with search, type, category, expert and flag filters
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in title and description"
// @Param type query string false "Filter by type"
// @Param category query string false "Filter by category"
// @Param expert query int false "Filter by expert id"
// @Param isActive query bool false "Filter by activation"
// @Param isPublished query bool false "Filter by publication"
// @Success 200 {object} response "Session list with pagination"
// @Router /sessions [get]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.SessionListFilter{
		ListParams:  parseListParams(r),
		Type:        r.URL.Query().Get("type"),
		Category:    r.URL.Query().Get("category"),
		ExpertID:    queryInt(r, "expert"),
		IsActive:    queryBool(r, "isActive"),
		IsPublished: queryBool(r, "isPublished"),
	}

	sessions, total, err := h.sessionService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list sessions", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if sessions == nil {
		sessions = []models.Session{}
	}
	h.RespondData(w, http.StatusOK, listPayload("sessions", sessions, filter.ListParams, total))
}

// Get handles GET /sessions/{id}
// @Summary Get a session
// @Description Get one session with its expert projection
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} response "Session"
// @Failure 404 {object} response "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	session, err := h.sessionService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Session not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"session": session})
}

// validateSessionEnums records type and category membership errors
func validateSessionEnums(v *validation.Validator, sessionType, category string) {
	v.OneOf("type", sessionType, models.SessionTypes)
	v.OneOf("category", category, models.SessionCategories)
}

// Create handles POST /sessions
// @Summary Create a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateSessionRequest true "Session fields"
// @Success 201 {object} response "Created session"
// @Failure 400 {object} response "Validation failed"
// @Router /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("title", req.Title)
	v.MaxLen("title", req.Title, 200)
	v.Required("type", req.Type)
	v.Required("category", req.Category)
	validateSessionEnums(v, req.Type, req.Category)
	v.PositiveID("expert", req.ExpertID)
	v.IntMin("duration", req.Duration, 15)
	v.FloatMin("price", req.Price, 0)
	if req.MaxParticipants != 0 {
		v.IntMin("maxParticipants", req.MaxParticipants, 1)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	session, err := h.sessionService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "Session not found")
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Session created successfully", map[string]any{"session": session})
}

// Update handles PUT /sessions/{id}
// @Summary Update a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body models.UpdateSessionRequest true "Fields to change"
// @Success 200 {object} response "Updated session"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "Session not found"
// @Router /sessions/{id} [put]
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	var req models.UpdateSessionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	if req.Title != nil {
		v.Required("title", *req.Title)
		v.MaxLen("title", *req.Title, 200)
	}
	if req.Type != nil {
		v.OneOf("type", *req.Type, models.SessionTypes)
	}
	if req.Category != nil {
		v.OneOf("category", *req.Category, models.SessionCategories)
	}
	if req.ExpertID != nil {
		v.PositiveID("expert", *req.ExpertID)
	}
	if req.Duration != nil {
		v.IntMin("duration", *req.Duration, 15)
	}
	if req.Price != nil {
		v.FloatMin("price", *req.Price, 0)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	session, err := h.sessionService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "Session not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Session updated successfully", map[string]any{"session": session})
}

// Delete handles DELETE /sessions/{id}
// @Summary Delete a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} response "Deleted"
// @Failure 404 {object} response "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	if err := h.sessionService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "Session not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Session deleted successfully", nil)
}

// ToggleStatus handles PATCH /sessions/{id}/toggle-status
// @Summary Toggle session activation
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} response "Updated session"
// @Failure 404 {object} response "Session not found"
// @Router /sessions/{id}/toggle-status [patch]
func (h *SessionHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	session, err := h.sessionService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Session not found")
		return
	}

	message := "Session deactivated"
	if session.IsActive {
		message = "Session activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"session": session})
}

// Publish handles PATCH /sessions/{id}/publish
// @Summary Set session publication
// @Description Flip the published flag, stamping or clearing published_at
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body publishRequest true "Publication flag"
// @Success 200 {object} response "Updated session"
// @Failure 404 {object} response "Session not found"
// @Router /sessions/{id}/publish [patch]
func (h *SessionHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	var req publishRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	session, err := h.sessionService.SetPublished(r.Context(), id, req.IsPublished)
	if err != nil {
		h.RespondServiceError(w, err, "Session not found")
		return
	}

	message := "Session unpublished"
	if session.IsPublished {
		message = "Session published"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"session": session})
}
