package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
	"github.com/innerdreams/admin-backend/internal/services"
	"github.com/innerdreams/admin-backend/internal/validation"
)

// ContentService is the interface that wraps editorial content management
type ContentService interface {
	List(ctx context.Context, filter models.ContentListFilter) ([]models.Content, int, error)
	Get(ctx context.Context, id int) (*models.Content, error)
	Create(ctx context.Context, req *models.CreateContentRequest) (*models.Content, error)
	Update(ctx context.Context, id int, req *models.UpdateContentRequest) (*models.Content, error)
	Delete(ctx context.Context, id int) error
	ToggleStatus(ctx context.Context, id int) (*models.Content, error)
	SetPublished(ctx context.Context, id int, published bool) (*models.Content, error)
	ModerateComment(ctx context.Context, contentID, commentID int, approved bool) (*models.Comment, error)
}

// ContentHandler handles editorial content HTTP requests
type ContentHandler struct {
	BaseHandler
	contentService ContentService
	store          FileStore
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService ContentService, store FileStore, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		contentService: contentService,
		store:          store,
	}
}

// RegisterRoutes registers all content routes
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/content", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapContent))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle-status", h.ToggleStatus)
		r.Patch("/{id}/publish", h.Publish)
		r.Patch("/{id}/comments/{commentId}/moderate", h.ModerateComment)
	})
}

// List handles GET /content
// @Summary List content pieces
// @Description Get a paginated content list with search, type, category and author filters
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in title, description and tags"
// @Param type query string false "Filter by type"
// @Param category query string false "Filter by category"
// @Param author query int false "Filter by author id"
// @Param isActive query bool false "Filter by active flag"
// @Param isPublished query bool false "Filter by published flag"
// @Success 200 {object} response "Content list with pagination"
// @Router /content [get]
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ContentListFilter{
		ListParams:  parseListParams(r),
		Type:        r.URL.Query().Get("type"),
		Category:    r.URL.Query().Get("category"),
		IsPremium:   queryBool(r, "isPremium"),
		IsActive:    queryBool(r, "isActive"),
		IsPublished: queryBool(r, "isPublished"),
		AuthorID:    queryInt(r, "author"),
	}

	pieces, total, err := h.contentService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list content", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if pieces == nil {
		pieces = []models.Content{}
	}
	h.RespondData(w, http.StatusOK, listPayload("content", pieces, filter.ListParams, total))
}

// Get handles GET /content/{id}
// @Summary Get a content piece
// @Description Get one content piece with its author projection
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} response "Content piece"
// @Failure 404 {object} response "Content not found"
// @Router /content/{id} [get]
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid content id")
		return
	}

	piece, err := h.contentService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Content not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"content": piece})
}

// Create handles POST /content
// @Summary Create a content piece
// @Description Create content from a multipart form with an optional featured image upload. A slug is derived from the title when not given.
// @Tags content
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response "Created content piece"
// @Failure 400 {object} response "Validation failed"
// @Router /content [post]
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := &models.CreateContentRequest{
		Title:     r.FormValue("title"),
		Slug:      r.FormValue("slug"),
		Excerpt:   r.FormValue("excerpt"),
		Body:      r.FormValue("body"),
		Type:      r.FormValue("type"),
		Category:  r.FormValue("category"),
		Tags:      models.SplitCommaList(r.FormValue("tags")),
		Keywords:  models.SplitCommaList(r.FormValue("keywords")),
		IsPremium: r.FormValue("isPremium") == "true",
	}

	v := validation.New()
	v.Required("title", req.Title)
	v.MaxLen("title", req.Title, 200)
	v.Required("body", req.Body)
	v.Required("type", req.Type)
	v.OneOf("type", req.Type, models.ContentTypes)
	v.Required("category", req.Category)
	v.OneOf("category", req.Category, models.ContentCategories)

	if raw := r.FormValue("author"); raw != "" {
		authorID, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("author", "author must be a number")
		} else {
			req.AuthorID = authorID
			v.PositiveID("author", authorID)
		}
	}
	if raw := r.FormValue("readingTime"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("readingTime", "readingTime must be a number")
		} else {
			req.ReadingTime = minutes
			v.IntMin("readingTime", minutes, 1)
		}
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	featuredURL, ok := savedFileURL(&h.BaseHandler, w, r, h.store, "featuredImage")
	if !ok {
		return
	}
	req.FeaturedImage = featuredURL

	piece, err := h.contentService.Create(r.Context(), req)
	if err != nil {
		h.RespondServiceError(w, err, "Content not found")
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Content created", map[string]any{"content": piece})
}

// Update handles PUT /content/{id}
// @Summary Update a content piece
// @Description Update content fields. An explicit slug must stay unique; a body change recomputes the word count.
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} response "Updated content piece"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "Content not found"
// @Router /content/{id} [put]
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid content id")
		return
	}

	var req models.UpdateContentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	if req.Title != nil {
		v.Required("title", *req.Title)
		v.MaxLen("title", *req.Title, 200)
	}
	if req.Type != nil {
		v.OneOf("type", *req.Type, models.ContentTypes)
	}
	if req.Category != nil {
		v.OneOf("category", *req.Category, models.ContentCategories)
	}
	if req.AuthorID != nil {
		v.PositiveID("author", *req.AuthorID)
	}
	if req.ReadingTime != nil {
		v.IntMin("readingTime", *req.ReadingTime, 1)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	piece, err := h.contentService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "Content not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Content updated", map[string]any{"content": piece})
}

// Delete handles DELETE /content/{id}
// @Summary Delete a content piece
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} response "Content deleted"
// @Failure 404 {object} response "Content not found"
// @Router /content/{id} [delete]
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid content id")
		return
	}

	if err := h.contentService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "Content not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Content deleted", nil)
}

// ToggleStatus handles PATCH /content/{id}/toggle-status
// @Summary Toggle content active flag
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 200 {object} response "Updated content piece"
// @Failure 404 {object} response "Content not found"
// @Router /content/{id}/toggle-status [patch]
func (h *ContentHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid content id")
		return
	}

	piece, err := h.contentService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Content not found")
		return
	}

	message := "Content deactivated"
	if piece.IsActive {
		message = "Content activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"content": piece})
}

// Publish handles PATCH /content/{id}/publish
// @Summary Publish or unpublish a content piece
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Param request body publishRequest true "Published flag"
// @Success 200 {object} response "Updated content piece"
// @Failure 404 {object} response "Content not found"
// @Router /content/{id}/publish [patch]
func (h *ContentHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid content id")
		return
	}

	var req publishRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	piece, err := h.contentService.SetPublished(r.Context(), id, req.IsPublished)
	if err != nil {
		h.RespondServiceError(w, err, "Content not found")
		return
	}

	message := "Content unpublished"
	if piece.IsPublished {
		message = "Content published"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"content": piece})
}

type moderateCommentRequest struct {
	Approved bool `json:"approved"`
}

// ModerateComment handles PATCH /content/{id}/comments/{commentId}/moderate
// @Summary Moderate a reader comment
// @Description Approve or reject one comment held on a content piece
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Param commentId path int true "Comment ID"
// @Param request body moderateCommentRequest true "Approval flag"
// @Success 200 {object} response "Moderated comment"
// @Failure 404 {object} response "Content or comment not found"
// @Router /content/{id}/comments/{commentId}/moderate [patch]
func (h *ContentHandler) ModerateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid content id")
		return
	}
	commentID, err := strconv.Atoi(chi.URLParam(r, "commentId"))
	if err != nil || commentID < 1 {
		h.RespondError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var req moderateCommentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	comment, err := h.contentService.ModerateComment(r.Context(), id, commentID, req.Approved)
	if err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			h.RespondError(w, http.StatusNotFound, "Comment not found")
			return
		}
		h.RespondServiceError(w, err, "Content not found")
		return
	}

	message := "Comment rejected"
	if req.Approved {
		message = "Comment approved"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"comment": comment})
}
