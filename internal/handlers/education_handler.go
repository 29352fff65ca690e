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

// EducationService is the interface that wraps education content management
type EducationService interface {
	List(ctx context.Context, filter models.EducationListFilter) ([]models.Education, int, error)
	Get(ctx context.Context, id int) (*models.Education, error)
	Create(ctx context.Context, req *models.CreateEducationRequest) (*models.Education, error)
	Update(ctx context.Context, id int, req *models.UpdateEducationRequest) (*models.Education, error)
	Delete(ctx context.Context, id int) error
	ToggleStatus(ctx context.Context, id int) (*models.Education, error)
	SetPublished(ctx context.Context, id int, published bool) (*models.Education, error)
	Stats(ctx context.Context) (*models.EducationStats, error)
}

// EducationHandler handles education HTTP requests
type EducationHandler struct {
	BaseHandler
	educationService EducationService
	store            FileStore
}

// NewEducationHandler creates a new education handler
func NewEducationHandler(educationService EducationService, store FileStore, logger *zap.Logger) *EducationHandler {
	return &EducationHandler{
		BaseHandler:      BaseHandler{Logger: logger},
		educationService: educationService,
		store:            store,
	}
}

// RegisterRoutes registers all education routes
func (h *EducationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/education", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapEducation))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle-status", h.ToggleStatus)
		r.Patch("/{id}/publish", h.Publish)
		r.Get("/stats/overview", h.Stats)
	})
}

// List handles GET /education
// @Summary List education records
// @Description Get a paginated education list with search, category, level and flag filters
// @Tags education
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in title, description and tags"
// @Param category query string false "Filter by category"
// @Param level query string false "Filter by level"
// @Param author query int false "Filter by author id"
// @Param isActive query bool false "Filter by activation"
// @Param isPublished query bool false "Filter by publication"
// @Success 200 {object} response "Education list with pagination"
// @Router /education [get]
func (h *EducationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.EducationListFilter{
		ListParams:  parseListParams(r),
		Category:    r.URL.Query().Get("category"),
		Level:       r.URL.Query().Get("level"),
		AuthorID:    queryInt(r, "author"),
		IsActive:    queryBool(r, "isActive"),
		IsPublished: queryBool(r, "isPublished"),
	}

	educations, total, err := h.educationService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list educations", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if educations == nil {
		educations = []models.Education{}
	}
	h.RespondData(w, http.StatusOK, listPayload("educations", educations, filter.ListParams, total))
}

// Get handles GET /education/{id}
// @Summary Get an education record
// @Description Get one record with its author projection
// @Tags education
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Success 200 {object} response "Education record"
// @Failure 404 {object} response "Education not found"
// @Router /education/{id} [get]
func (h *EducationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid education id")
		return
	}

	education, err := h.educationService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Education not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"education": education})
}

// Create handles POST /education
// @Summary Create an education record
// @Description Multipart create. Uploaded images become the record's image urls, the first one's thumbnail becomes the record thumbnail. Tags are comma-separated. Bumps the author's education counter.
// @Tags education
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param shortDescription formData string false "Short description"
// @Param content formData string false "Body content"
// @Param category formData string true "Category"
// @Param level formData string true "Level"
// @Param duration formData int false "Duration in minutes"
// @Param author formData int false "Author id"
// @Param tags formData string false "Comma-separated tags"
// @Param isPremium formData bool false "Premium flag"
// @Param images formData file false "Images (up to 10)"
// @Success 201 {object} response "Created record"
// @Failure 400 {object} response "Validation failed or bad upload"
// @Router /education [post]
func (h *EducationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Failed to parse request")
		return
	}

	req := models.CreateEducationRequest{
		Title:            r.FormValue("title"),
		Description:      r.FormValue("description"),
		ShortDescription: r.FormValue("shortDescription"),
		Content:          r.FormValue("content"),
		Category:         r.FormValue("category"),
		Level:            r.FormValue("level"),
		Tags:             models.SplitCommaList(r.FormValue("tags")),
	}
	if raw := r.FormValue("duration"); raw != "" {
		if d, err := strconv.Atoi(raw); err == nil {
			req.Duration = d
		}
	}
	if raw := r.FormValue("author"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			req.AuthorID = id
		}
	}
	if raw := r.FormValue("isPremium"); raw != "" {
		req.IsPremium, _ = strconv.ParseBool(raw)
	}

	v := validation.New()
	v.Required("title", req.Title)
	v.MaxLen("title", req.Title, 200)
	v.Required("description", req.Description)
	v.MaxLen("shortDescription", req.ShortDescription, 300)
	v.Required("category", req.Category)
	v.OneOf("category", req.Category, models.EducationCategories)
	v.Required("level", req.Level)
	v.OneOf("level", req.Level, models.EducationLevels)
	if req.Duration != 0 {
		v.IntMin("duration", req.Duration, 1)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	stored, ok := savedFiles(&h.BaseHandler, w, r, h.store, "images")
	if !ok {
		return
	}
	for _, file := range stored {
		req.Images = append(req.Images, file.URL)
	}
	if len(stored) > 0 {
		req.Thumbnail = stored[0].ThumbnailURL
	}

	education, err := h.educationService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "Education not found")
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Education created successfully",
		map[string]any{"education": education})
}

// Update handles PUT /education/{id}
// @Summary Update an education record
// @Tags education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Param request body models.UpdateEducationRequest true "Fields to change"
// @Success 200 {object} response "Updated record"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "Education not found"
// @Router /education/{id} [put]
func (h *EducationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid education id")
		return
	}

	var req models.UpdateEducationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	if req.Title != nil {
		v.Required("title", *req.Title)
		v.MaxLen("title", *req.Title, 200)
	}
	if req.Category != nil {
		v.OneOf("category", *req.Category, models.EducationCategories)
	}
	if req.Level != nil {
		v.OneOf("level", *req.Level, models.EducationLevels)
	}
	if req.Duration != nil {
		v.IntMin("duration", *req.Duration, 1)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	education, err := h.educationService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "Education not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Education updated successfully",
		map[string]any{"education": education})
}

// Delete handles DELETE /education/{id}
// @Summary Delete an education record
// @Description Delete the record and drop the author's education counter
// @Tags education
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Success 200 {object} response "Deleted"
// @Failure 404 {object} response "Education not found"
// @Router /education/{id} [delete]
func (h *EducationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid education id")
		return
	}

	if err := h.educationService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "Education not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Education deleted successfully", nil)
}

// ToggleStatus handles PATCH /education/{id}/toggle-status
// @Summary Toggle education activation
// @Tags education
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Success 200 {object} response "Updated record"
// @Failure 404 {object} response "Education not found"
// @Router /education/{id}/toggle-status [patch]
func (h *EducationHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid education id")
		return
	}

	education, err := h.educationService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Education not found")
		return
	}

	message := "Education deactivated"
	if education.IsActive {
		message = "Education activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"education": education})
}

type publishRequest struct {
	IsPublished bool `json:"isPublished"`
}

// Publish handles PATCH /education/{id}/publish
// @Summary Set education publication
// @Description Flip the published flag, stamping or clearing published_at
// @Tags education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Param request body publishRequest true "Publication flag"
// @Success 200 {object} response "Updated record"
// @Failure 404 {object} response "Education not found"
// @Router /education/{id}/publish [patch]
func (h *EducationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid education id")
		return
	}

	var req publishRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	education, err := h.educationService.SetPublished(r.Context(), id, req.IsPublished)
	if err != nil {
		h.RespondServiceError(w, err, "Education not found")
		return
	}

	message := "Education unpublished"
	if education.IsPublished {
		message = "Education published"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"education": education})
}

// Stats handles GET /education/stats/overview
// @Summary Education statistics
// @Description Totals, category and level distributions and top authors
// @Tags education
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Aggregates"
// @Router /education/stats/overview [get]
func (h *EducationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.educationService.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to load education stats", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.RespondData(w, http.StatusOK, stats)
}
