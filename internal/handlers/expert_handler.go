package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
	"github.com/innerdreams/admin-backend/internal/validation"
)

// ExpertService is the interface that wraps expert management
type ExpertService interface {
	List(ctx context.Context, filter models.ExpertListFilter) ([]models.Expert, int, error)
	Get(ctx context.Context, id int) (*models.Expert, error)
	Create(ctx context.Context, req *models.CreateExpertRequest) (*models.Expert, error)
	Update(ctx context.Context, id int, req *models.UpdateExpertRequest) (*models.Expert, error)
	Delete(ctx context.Context, id int) error
	ToggleStatus(ctx context.Context, id int) (*models.Expert, error)
	SetVerified(ctx context.Context, id int, verified bool) (*models.Expert, error)
}

// ExpertHandler handles expert HTTP requests
type ExpertHandler struct {
	BaseHandler
	expertService ExpertService
	store         FileStore
}

// NewExpertHandler creates a new expert handler
func NewExpertHandler(expertService ExpertService, store FileStore, logger *zap.Logger) *ExpertHandler {
	return &ExpertHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		expertService: expertService,
		store:         store,
	}
}

// RegisterRoutes registers all expert routes
func (h *ExpertHandler) RegisterRoutes(r chi.Router) {
	r.Route("/experts", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapExperts))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle-status", h.ToggleStatus)
		r.Patch("/{id}/verify", h.Verify)
	})
}

// List handles GET /experts
// @Summary List experts
// @Description Get a paginated expert list with search, specialization and flag filters
// @Tags experts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in names and bio"
// @Param specialization query string false "Filter by specialization"
// @Param isVerified query bool false "Filter by verification"
// @Param isActive query bool false "Filter by activation"
// @Success 200 {object} response "Expert list with pagination"
// @Router /experts [get]
func (h *ExpertHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ExpertListFilter{
		ListParams:     parseListParams(r),
		Specialization: r.URL.Query().Get("specialization"),
		IsVerified:     queryBool(r, "isVerified"),
		IsActive:       queryBool(r, "isActive"),
	}

	experts, total, err := h.expertService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list experts", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if experts == nil {
		experts = []models.Expert{}
	}
	h.RespondData(w, http.StatusOK, listPayload("experts", experts, filter.ListParams, total))
}

// Get handles GET /experts/{id}
// @Summary Get an expert
// @Tags experts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expert ID"
// @Success 200 {object} response "Expert"
// @Failure 404 {object} response "Expert not found"
// @Router /experts/{id} [get]
func (h *ExpertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid expert id")
		return
	}

	expert, err := h.expertService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Expert not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"expert": expert})
}

// Create handles POST /experts
// @Summary Create an expert
// @Description Multipart create with an optional profile image. Specialization, languages and session types are comma-separated.
// @Tags experts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param phone formData string false "Phone"
// @Param bio formData string false "Biography"
// @Param shortBio formData string false "Short biography"
// @Param specialization formData string false "Comma-separated specializations"
// @Param languages formData string false "Comma-separated languages"
// @Param sessionTypes formData string false "Comma-separated session types"
// @Param sessionDuration formData int false "Default session duration in minutes"
// @Param profileImage formData file false "Profile image"
// @Success 201 {object} response "Created expert"
// @Failure 400 {object} response "Validation failed, duplicate email or bad upload"
// @Router /experts [post]
func (h *ExpertHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Failed to parse request")
		return
	}

	req := models.CreateExpertRequest{
		FirstName:      r.FormValue("firstName"),
		LastName:       r.FormValue("lastName"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		Bio:            r.FormValue("bio"),
		ShortBio:       r.FormValue("shortBio"),
		Specialization: models.SplitCommaList(r.FormValue("specialization")),
		Languages:      models.SplitCommaList(r.FormValue("languages")),
		SessionTypes:   models.SplitCommaList(r.FormValue("sessionTypes")),
	}
	if raw := r.FormValue("sessionDuration"); raw != "" {
		if d, err := strconv.Atoi(raw); err == nil {
			req.SessionDuration = d
		}
	}

	v := validation.New()
	v.Required("firstName", req.FirstName)
	v.Required("lastName", req.LastName)
	v.Required("email", req.Email)
	v.Email("email", req.Email)
	v.MaxLen("shortBio", req.ShortBio, 300)
	if req.SessionDuration != 0 {
		v.IntMin("sessionDuration", req.SessionDuration, 15)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	var ok bool
	if req.ProfileImage, ok = savedFileURL(&h.BaseHandler, w, r, h.store, "profileImage"); !ok {
		return
	}

	expert, err := h.expertService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "Expert not found")
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Expert created successfully", map[string]any{"expert": expert})
}

// Update handles PUT /experts/{id}
// @Summary Update an expert
// @Description Partial update including availability and pricing blocks; a changed email must be free
// @Tags experts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expert ID"
// @Param request body models.UpdateExpertRequest true "Fields to change"
// @Success 200 {object} response "Updated expert"
// @Failure 400 {object} response "Validation failed or duplicate email"
// @Failure 404 {object} response "Expert not found"
// @Router /experts/{id} [put]
func (h *ExpertHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid expert id")
		return
	}

	var req models.UpdateExpertRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	if req.Email != nil {
		v.Email("email", *req.Email)
	}
	if req.ShortBio != nil {
		v.MaxLen("shortBio", *req.ShortBio, 300)
	}
	if req.SessionDuration != nil {
		v.IntMin("sessionDuration", *req.SessionDuration, 15)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	expert, err := h.expertService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "Expert not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Expert updated successfully", map[string]any{"expert": expert})
}

// Delete handles DELETE /experts/{id}
// @Summary Delete an expert
// @Tags experts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expert ID"
// @Success 200 {object} response "Deleted"
// @Failure 404 {object} response "Expert not found"
// @Router /experts/{id} [delete]
func (h *ExpertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid expert id")
		return
	}

	if err := h.expertService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "Expert not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Expert deleted successfully", nil)
}

// ToggleStatus handles PATCH /experts/{id}/toggle-status
// @Summary Toggle expert activation
// @Tags experts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expert ID"
// @Success 200 {object} response "Updated expert"
// @Failure 404 {object} response "Expert not found"
// @Router /experts/{id}/toggle-status [patch]
func (h *ExpertHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid expert id")
		return
	}

	expert, err := h.expertService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Expert not found")
		return
	}

	message := "Expert deactivated"
	if expert.IsActive {
		message = "Expert activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"expert": expert})
}

// Verify handles PATCH /experts/{id}/verify
// @Summary Set expert verification
// @Description Flip the verified flag, stamping or clearing verified_at
// @Tags experts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expert ID"
// @Param request body verifyRequest true "Verification flag"
// @Success 200 {object} response "Updated expert"
// @Failure 404 {object} response "Expert not found"
// @Router /experts/{id}/verify [patch]
func (h *ExpertHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid expert id")
		return
	}

	var req verifyRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	expert, err := h.expertService.SetVerified(r.Context(), id, req.IsVerified)
	if err != nil {
		h.RespondServiceError(w, err, "Expert not found")
		return
	}

	message := "Expert verification removed"
	if expert.IsVerified {
		message = "Expert verified"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"expert": expert})
}
