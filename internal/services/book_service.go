package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// BookRepository is the interface that wraps book table data access
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id int) (*models.Book, error)
	ExistsByISBN(ctx context.Context, isbn string, excludeID int) (bool, error)
	List(ctx context.Context, filter models.BookListFilter) ([]models.Book, int, error)
	Update(ctx context.Context, id int, req *models.UpdateBookRequest) error
	SetActive(ctx context.Context, id int, active bool) error
	SetPublished(ctx context.Context, id int, published bool) error
	Delete(ctx context.Context, id int) error
}

// bookService implements book catalogue management
type bookService struct {
	bookRepo BookRepository
	logger   *zap.Logger
}

// NewBookService creates a new book service
func NewBookService(bookRepo BookRepository, logger *zap.Logger) *bookService {
	return &bookService{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// List retrieves a page of books
func (s *bookService) List(ctx context.Context, filter models.BookListFilter) ([]models.Book, int, error) {
	return s.bookRepo.List(ctx, filter)
}

// Get retrieves a single book
func (s *bookService) Get(ctx context.Context, id int) (*models.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

// Create inserts a new book, rejecting a duplicate ISBN
func (s *bookService) Create(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error) {
	if req.ISBN != "" {
		exists, err := s.bookRepo.ExistsByISBN(ctx, req.ISBN, 0)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("a book with this ISBN already exists: %w", models.ErrDuplicate)
		}
	}

	book := &models.Book{
		Title:            req.Title,
		Subtitle:         req.Subtitle,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Author:           req.Author,
		ISBN:             req.ISBN,
		Publisher:        req.Publisher,
		PublicationYear:  req.PublicationYear,
		Language:         req.Language,
		Category:         req.Category,
		CoverImage:       req.CoverImage,
		Images:           req.Images,
		PDFURL:           req.PDFURL,
		EpubURL:          req.EpubURL,
		AudiobookURL:     req.AudiobookURL,
		PageCount:        req.PageCount,
		Tags:             req.Tags,
		Price:            req.Price,
		Currency:         req.Currency,
		IsPremium:        req.IsPremium,
		IsActive:         true,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// Update applies a partial update, rejecting an ISBN already held by
// another book
func (s *bookService) Update(ctx context.Context, id int, req *models.UpdateBookRequest) (*models.Book, error) {
	if req.ISBN != nil && *req.ISBN != "" {
		taken, err := s.bookRepo.ExistsByISBN(ctx, *req.ISBN, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("a book with this ISBN already exists: %w", models.ErrDuplicate)
		}
	}

	if err := s.bookRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, id)
}

// Delete removes a book
func (s *bookService) Delete(ctx context.Context, id int) error {
	return s.bookRepo.Delete(ctx, id)
}

// ToggleStatus flips the activation flag
func (s *bookService) ToggleStatus(ctx context.Context, id int) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.bookRepo.SetActive(ctx, id, !book.IsActive); err != nil {
		return nil, err
	}

	book.IsActive = !book.IsActive
	return book, nil
}

// SetPublished flips the published flag
func (s *bookService) SetPublished(ctx context.Context, id int, published bool) (*models.Book, error) {
	if err := s.bookRepo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	return s.bookRepo.GetByID(ctx, id)
}
