package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var bookSortColumns = map[string]string{
	"createdAt":       "created_at",
	"title":           "title",
	"author":          "author",
	"publicationYear": "publication_year",
	"price":           "price",
	"views":           "views",
	"downloads":       "downloads",
	"rating":          "rating_average",
	"order":           "display_order",
}

// bookRepository implements book persistence
type bookRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *sql.DB, logger *zap.Logger) *bookRepository {
	return &bookRepository{
		db:     db,
		logger: logger,
	}
}

const bookColumns = `id, title, subtitle, description, short_description, author, isbn, publisher, publication_year, language, category, cover_image, images, pdf_url, epub_url, audiobook_url, page_count, tags, price, currency, is_premium, is_active, is_published, published_at, views, downloads, likes, rating_average, rating_count, display_order, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	book := &models.Book{}
	var isbn sql.NullString
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Subtitle,
		&book.Description,
		&book.ShortDescription,
		&book.Author,
		&isbn,
		&book.Publisher,
		&book.PublicationYear,
		&book.Language,
		&book.Category,
		&book.CoverImage,
		&book.Images,
		&book.PDFURL,
		&book.EpubURL,
		&book.AudiobookURL,
		&book.PageCount,
		&book.Tags,
		&book.Price,
		&book.Currency,
		&book.IsPremium,
		&book.IsActive,
		&book.IsPublished,
		&book.PublishedAt,
		&book.Views,
		&book.Downloads,
		&book.Likes,
		&book.Rating.Average,
		&book.Rating.Count,
		&book.DisplayOrder,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if isbn.Valid {
		book.ISBN = isbn.String
	}
	return book, nil
}

// Create inserts a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (title, subtitle, description, short_description, author, isbn, publisher, publication_year, language, category, cover_image, images, pdf_url, epub_url, audiobook_url, page_count, tags, price, currency, is_premium, is_active, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var isbn any
	if book.ISBN != "" {
		isbn = book.ISBN
	}

	result, err := r.db.ExecContext(ctx, query,
		book.Title,
		book.Subtitle,
		book.Description,
		book.ShortDescription,
		book.Author,
		isbn,
		book.Publisher,
		book.PublicationYear,
		book.Language,
		book.Category,
		book.CoverImage,
		book.Images,
		book.PDFURL,
		book.EpubURL,
		book.AudiobookURL,
		book.PageCount,
		book.Tags,
		book.Price,
		book.Currency,
		book.IsPremium,
		book.IsActive,
		book.DisplayOrder,
	)
	if err != nil {
		r.logger.Error("failed to create book", zap.Error(err))
		return fmt.Errorf("failed to create book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	book.ID = int(id)
	return nil
}

// GetByID retrieves a book by id
func (r *bookRepository) GetByID(ctx context.Context, id int) (*models.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = ? LIMIT 1`, bookColumns)

	book, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get book by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return book, nil
}

// ExistsByISBN reports whether any other book holds the given ISBN.
// excludeID skips the book being updated; pass 0 on create.
func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string, excludeID int) (bool, error) {
	query := `SELECT COUNT(*) FROM books WHERE isbn = ? AND id != ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, isbn, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check isbn existence: %w", err)
	}

	return count > 0, nil
}

// List retrieves a page of books plus the total count
func (r *bookRepository) List(ctx context.Context, filter models.BookListFilter) ([]models.Book, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(title LIKE ? OR description LIKE ? OR author LIKE ? OR tags LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.Category != "" {
		conditions = append(conditions, `category = ?`)
		args = append(args, filter.Category)
	}
	if filter.IsPremium != nil {
		conditions = append(conditions, `is_premium = ?`)
		args = append(args, *filter.IsPremium)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}
	if filter.IsPublished != nil {
		conditions = append(conditions, `is_published = ?`)
		args = append(args, *filter.IsPublished)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		%s
		LIMIT ? OFFSET ?
	`, bookColumns, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, bookSortColumns, "created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return books, total, nil
}

// Update applies the non-nil fields of the request
func (r *bookRepository) Update(ctx context.Context, id int, req *models.UpdateBookRequest) error {
	var setParts []string
	var args []any

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Subtitle != nil {
		setParts = append(setParts, "subtitle = ?")
		args = append(args, *req.Subtitle)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *req.Description)
	}
	if req.ShortDescription != nil {
		setParts = append(setParts, "short_description = ?")
		args = append(args, *req.ShortDescription)
	}
	if req.Author != nil {
		setParts = append(setParts, "author = ?")
		args = append(args, *req.Author)
	}
	if req.ISBN != nil {
		setParts = append(setParts, "isbn = ?")
		if *req.ISBN == "" {
			args = append(args, nil)
		} else {
			args = append(args, *req.ISBN)
		}
	}
	if req.Publisher != nil {
		setParts = append(setParts, "publisher = ?")
		args = append(args, *req.Publisher)
	}
	if req.PublicationYear != nil {
		setParts = append(setParts, "publication_year = ?")
		args = append(args, *req.PublicationYear)
	}
	if req.Language != nil {
		setParts = append(setParts, "language = ?")
		args = append(args, *req.Language)
	}
	if req.Category != nil {
		setParts = append(setParts, "category = ?")
		args = append(args, *req.Category)
	}
	if req.CoverImage != nil {
		setParts = append(setParts, "cover_image = ?")
		args = append(args, *req.CoverImage)
	}
	if req.Images != nil {
		setParts = append(setParts, "images = ?")
		args = append(args, req.Images)
	}
	if req.PDFURL != nil {
		setParts = append(setParts, "pdf_url = ?")
		args = append(args, *req.PDFURL)
	}
	if req.EpubURL != nil {
		setParts = append(setParts, "epub_url = ?")
		args = append(args, *req.EpubURL)
	}
	if req.AudiobookURL != nil {
		setParts = append(setParts, "audiobook_url = ?")
		args = append(args, *req.AudiobookURL)
	}
	if req.PageCount != nil {
		setParts = append(setParts, "page_count = ?")
		args = append(args, *req.PageCount)
	}
	if req.Tags != nil {
		setParts = append(setParts, "tags = ?")
		args = append(args, req.Tags)
	}
	if req.Price != nil {
		setParts = append(setParts, "price = ?")
		args = append(args, *req.Price)
	}
	if req.Currency != nil {
		setParts = append(setParts, "currency = ?")
		args = append(args, *req.Currency)
	}
	if req.IsPremium != nil {
		setParts = append(setParts, "is_premium = ?")
		args = append(args, *req.IsPremium)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE books SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetActive flips the active flag
func (r *bookRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE books SET is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update book status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetPublished flips the published flag and stamps or clears the
// publication time
func (r *bookRepository) SetPublished(ctx context.Context, id int, published bool) error {
	query := `UPDATE books SET is_published = ?, published_at = IF(?, NOW(), NULL) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, published, published, id)
	if err != nil {
		return fmt.Errorf("failed to update book publication: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a book by id
func (r *bookRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM books WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}
