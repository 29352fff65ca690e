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

// AuthorService is the interface that wraps author management
type AuthorService interface {
	List(ctx context.Context, filter models.AuthorListFilter) ([]models.Author, int, error)
	Get(ctx context.Context, id int) (*models.Author, error)
	Create(ctx context.Context, req *models.CreateAuthorRequest) (*models.Author, error)
	Update(ctx context.Context, id int, req *models.UpdateAuthorRequest) (*models.Author, error)
	Delete(ctx context.Context, id int) error
	ToggleStatus(ctx context.Context, id int) (*models.Author, error)
	SetVerified(ctx context.Context, id int, verified bool) (*models.Author, error)
}

// AuthorHandler handles author HTTP requests
type AuthorHandler struct {
	BaseHandler
	authorService AuthorService
	store         FileStore
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(authorService AuthorService, store FileStore, logger *zap.Logger) *AuthorHandler {
	return &AuthorHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		authorService: authorService,
		store:         store,
	}
}

// RegisterRoutes registers all author routes
func (h *AuthorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/authors", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapAuthors))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle-status", h.ToggleStatus)
		r.Patch("/{id}/verify", h.Verify)
	})
}

// List handles GET /authors
// @Summary List authors
// @Description Get a paginated author list with search, specialization and flag filters
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in names and bio"
// @Param specialization query string false "Filter by specialization"
// @Param isVerified query bool false "Filter by verification"
// @Param isActive query bool false "Filter by activation"
// @Success 200 {object} response "Author list with pagination"
// @Router /authors [get]
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.AuthorListFilter{
		ListParams:     parseListParams(r),
		Specialization: r.URL.Query().Get("specialization"),
		IsVerified:     queryBool(r, "isVerified"),
		IsActive:       queryBool(r, "isActive"),
	}

	authors, total, err := h.authorService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list authors", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if authors == nil {
		authors = []models.Author{}
	}
	h.RespondData(w, http.StatusOK, listPayload("authors", authors, filter.ListParams, total))
}

// Get handles GET /authors/{id}
// @Summary Get an author
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 200 {object} response "Author"
// @Failure 404 {object} response "Author not found"
// @Router /authors/{id} [get]
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid author id")
		return
	}

	author, err := h.authorService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Author not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"author": author})
}

// Create handles POST /authors
// @Summary Create an author
// @Description Multipart create with optional profile and cover images. Specialization and languages are comma-separated.
// @Tags authors
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
// @Param profileImage formData file false "Profile image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} response "Created author"
// @Failure 400 {object} response "Validation failed, duplicate email or bad upload"
// @Router /authors [post]
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Failed to parse request")
		return
	}

	req := models.CreateAuthorRequest{
		FirstName:      r.FormValue("firstName"),
		LastName:       r.FormValue("lastName"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		Bio:            r.FormValue("bio"),
		ShortBio:       r.FormValue("shortBio"),
		Specialization: models.SplitCommaList(r.FormValue("specialization")),
		Languages:      models.SplitCommaList(r.FormValue("languages")),
	}

	v := validation.New()
	v.Required("firstName", req.FirstName)
	v.Required("lastName", req.LastName)
	v.Required("email", req.Email)
	v.Email("email", req.Email)
	v.MaxLen("shortBio", req.ShortBio, 300)
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	var ok bool
	if req.ProfileImage, ok = savedFileURL(&h.BaseHandler, w, r, h.store, "profileImage"); !ok {
		return
	}
	if req.CoverImage, ok = savedFileURL(&h.BaseHandler, w, r, h.store, "coverImage"); !ok {
		return
	}

	author, err := h.authorService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "Author not found")
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Author created successfully", map[string]any{"author": author})
}

// Update handles PUT /authors/{id}
// @Summary Update an author
// @Description Partial update; a changed email must be free
// @Tags authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Param request body models.UpdateAuthorRequest true "Fields to change"
// @Success 200 {object} response "Updated author"
// @Failure 400 {object} response "Validation failed or duplicate email"
// @Failure 404 {object} response "Author not found"
// @Router /authors/{id} [put]
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid author id")
		return
	}

	var req models.UpdateAuthorRequest
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
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	author, err := h.authorService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "Author not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Author updated successfully", map[string]any{"author": author})
}

// Delete handles DELETE /authors/{id}
// @Summary Delete an author
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 200 {object} response "Deleted"
// @Failure 404 {object} response "Author not found"
// @Router /authors/{id} [delete]
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid author id")
		return
	}

	if err := h.authorService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "Author not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Author deleted successfully", nil)
}

// ToggleStatus handles PATCH /authors/{id}/toggle-status
// @Summary Toggle author activation
// @Tags authors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 200 {object} response "Updated author"
// @Failure 404 {object} response "Author not found"
// @Router /authors/{id}/toggle-status [patch]
func (h *AuthorHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid author id")
		return
	}

	author, err := h.authorService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Author not found")
		return
	}

	message := "Author deactivated"
	if author.IsActive {
		message = "Author activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"author": author})
}

type verifyRequest struct {
	IsVerified bool `json:"isVerified"`
}

// Verify handles PATCH /authors/{id}/verify
// @Summary Set author verification
// @Description Flip the verified flag, stamping or clearing verified_at
// @Tags authors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Param request body verifyRequest true "Verification flag"
// @Success 200 {object} response "Updated author"
// @Failure 404 {object} response "Author not found"
// @Router /authors/{id}/verify [patch]
func (h *AuthorHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid author id")
		return
	}

	var req verifyRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	author, err := h.authorService.SetVerified(r.Context(), id, req.IsVerified)
	if err != nil {
		h.RespondServiceError(w, err, "Author not found")
		return
	}

	message := "Author verification removed"
	if author.IsVerified {
		message = "Author verified"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"author": author})
}
