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

// BookService is the interface that wraps book catalogue management
type BookService interface {
	List(ctx context.Context, filter models.BookListFilter) ([]models.Book, int, error)
	Get(ctx context.Context, id int) (*models.Book, error)
	Create(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, id int, req *models.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id int) error
	ToggleStatus(ctx context.Context, id int) (*models.Book, error)
	SetPublished(ctx context.Context, id int, published bool) (*models.Book, error)
}

// BookHandler handles book HTTP requests
type BookHandler struct {
	BaseHandler
	bookService BookService
	store       FileStore
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService BookService, store FileStore, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		BaseHandler: BaseHandler{Logger: logger},
		bookService: bookService,
		store:       store,
	}
}

// RegisterRoutes registers all book routes
func (h *BookHandler) RegisterRoutes(r chi.Router) {
	r.Route("/books", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapBooks))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle-status", h.ToggleStatus)
		r.Patch("/{id}/publish", h.Publish)
	})
}

// List handles GET /books
// @Summary List books
// @Description Get a paginated book list with search and category/premium/status filters
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search in title, description, author and tags"
// @Param category query string false "Filter by category"
// @Param isPremium query bool false "Filter by premium flag"
// @Param isActive query bool false "Filter by active flag"
// @Param isPublished query bool false "Filter by published flag"
// @Success 200 {object} response "Book list with pagination"
// @Router /books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.BookListFilter{
		ListParams:  parseListParams(r),
		Category:    r.URL.Query().Get("category"),
		IsPremium:   queryBool(r, "isPremium"),
		IsActive:    queryBool(r, "isActive"),
		IsPublished: queryBool(r, "isPublished"),
	}

	books, total, err := h.bookService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list books", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if books == nil {
		books = []models.Book{}
	}
	h.RespondData(w, http.StatusOK, listPayload("books", books, filter.ListParams, total))
}

// Get handles GET /books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response "Book"
// @Failure 404 {object} response "Book not found"
// @Router /books/{id} [get]
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	book, err := h.bookService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Book not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"book": book})
}

// Create handles POST /books
// @Summary Create a book
// @Description Create a book from a multipart form with an optional cover image upload
// @Tags books
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response "Created book"
// @Failure 400 {object} response "Validation failed"
// @Router /books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartFormLimit); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := &models.CreateBookRequest{
		Title:            r.FormValue("title"),
		Subtitle:         r.FormValue("subtitle"),
		Description:      r.FormValue("description"),
		ShortDescription: r.FormValue("shortDescription"),
		Author:           r.FormValue("author"),
		ISBN:             r.FormValue("isbn"),
		Publisher:        r.FormValue("publisher"),
		Language:         r.FormValue("language"),
		Category:         r.FormValue("category"),
		PDFURL:           r.FormValue("pdfUrl"),
		EpubURL:          r.FormValue("epubUrl"),
		AudiobookURL:     r.FormValue("audiobookUrl"),
		Currency:         r.FormValue("currency"),
		Tags:             models.SplitCommaList(r.FormValue("tags")),
		IsPremium:        r.FormValue("isPremium") == "true",
	}

	v := validation.New()
	v.Required("title", req.Title)
	v.Required("description", req.Description)
	v.Required("author", req.Author)
	v.Required("category", req.Category)
	v.OneOf("category", req.Category, models.BookCategories)

	if raw := r.FormValue("publicationYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("publicationYear", "publicationYear must be a number")
		} else {
			req.PublicationYear = year
		}
	}
	if raw := r.FormValue("pageCount"); raw != "" {
		pages, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("pageCount", "pageCount must be a number")
		} else {
			req.PageCount = pages
			v.IntMin("pageCount", pages, 1)
		}
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v.Add("price", "price must be a number")
		} else {
			req.Price = price
			v.FloatMin("price", price, 0)
		}
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	coverURL, ok := savedFileURL(&h.BaseHandler, w, r, h.store, "coverImage")
	if !ok {
		return
	}
	req.CoverImage = coverURL

	book, err := h.bookService.Create(r.Context(), req)
	if err != nil {
		h.RespondServiceError(w, err, "Book not found")
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Book created", map[string]any{"book": book})
}

// Update handles PUT /books/{id}
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response "Updated book"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "Book not found"
// @Router /books/{id} [put]
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	var req models.UpdateBookRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	if req.Title != nil {
		v.Required("title", *req.Title)
	}
	if req.Category != nil {
		v.OneOf("category", *req.Category, models.BookCategories)
	}
	if req.PageCount != nil {
		v.IntMin("pageCount", *req.PageCount, 1)
	}
	if req.Price != nil {
		v.FloatMin("price", *req.Price, 0)
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	book, err := h.bookService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "Book not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Book updated", map[string]any{"book": book})
}

// Delete handles DELETE /books/{id}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response "Book deleted"
// @Failure 404 {object} response "Book not found"
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	if err := h.bookService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "Book not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Book deleted", nil)
}

// ToggleStatus handles PATCH /books/{id}/toggle-status
// @Summary Toggle book active flag
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response "Updated book"
// @Failure 404 {object} response "Book not found"
// @Router /books/{id}/toggle-status [patch]
func (h *BookHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	book, err := h.bookService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Book not found")
		return
	}

	message := "Book deactivated"
	if book.IsActive {
		message = "Book activated"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"book": book})
}

// Publish handles PATCH /books/{id}/publish
// @Summary Publish or unpublish a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body publishRequest true "Published flag"
// @Success 200 {object} response "Updated book"
// @Failure 404 {object} response "Book not found"
// @Router /books/{id}/publish [patch]
func (h *BookHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid book id")
		return
	}

	var req publishRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	book, err := h.bookService.SetPublished(r.Context(), id, req.IsPublished)
	if err != nil {
		h.RespondServiceError(w, err, "Book not found")
		return
	}

	message := "Book unpublished"
	if book.IsPublished {
		message = "Book published"
	}
	h.RespondMessage(w, http.StatusOK, message, map[string]any{"book": book})
}
