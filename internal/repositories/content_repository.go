package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var contentSortColumns = map[string]string{
	"createdAt":   "c.created_at",
	"title":       "c.title",
	"type":        "c.type",
	"category":    "c.category",
	"publishedAt": "c.published_at",
	"views":       "c.views",
	"likes":       "c.likes",
	"order":       "c.display_order",
}

// contentRepository implements content persistence
type contentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *sql.DB, logger *zap.Logger) *contentRepository {
	return &contentRepository{
		db:     db,
		logger: logger,
	}
}

const contentColumns = `c.id, c.title, c.slug, c.excerpt, c.body, c.type, c.category, c.author_id, c.featured_image, c.images, c.tags, c.keywords, c.reading_time, c.word_count, c.is_premium, c.is_active, c.is_published, c.published_at, c.comments, c.views, c.likes, c.shares, c.display_order, c.created_at, c.updated_at`

func scanContent(row interface{ Scan(...any) error }) (*models.Content, error) {
	content := &models.Content{}
	var excerpt, featuredImage sql.NullString
	var authorID sql.NullInt64
	var publishedAt sql.NullTime
	var refID sql.NullInt64
	var refFirst, refLast, refImage sql.NullString
	err := row.Scan(
		&content.ID,
		&content.Title,
		&content.Slug,
		&excerpt,
		&content.Body,
		&content.Type,
		&content.Category,
		&authorID,
		&featuredImage,
		&content.Images,
		&content.Tags,
		&content.Keywords,
		&content.ReadingTime,
		&content.WordCount,
		&content.IsPremium,
		&content.IsActive,
		&content.IsPublished,
		&publishedAt,
		&content.Comments,
		&content.Views,
		&content.Likes,
		&content.Shares,
		&content.DisplayOrder,
		&content.CreatedAt,
		&content.UpdatedAt,
		&refID,
		&refFirst,
		&refLast,
		&refImage,
	)
	if err != nil {
		return nil, err
	}
	if excerpt.Valid {
		content.Excerpt = excerpt.String
	}
	if featuredImage.Valid {
		content.FeaturedImage = featuredImage.String
	}
	if authorID.Valid {
		content.AuthorID = int(authorID.Int64)
	}
	if publishedAt.Valid {
		content.PublishedAt = &publishedAt.Time
	}
	if refID.Valid {
		content.Author = &models.AuthorRef{
			ID:           int(refID.Int64),
			FirstName:    refFirst.String,
			LastName:     refLast.String,
			ProfileImage: refImage.String,
		}
	}
	return content, nil
}

// Create inserts a new content piece
func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	query := `
		INSERT INTO contents (title, slug, excerpt, body, type, category, author_id, featured_image, images, tags, keywords, reading_time, word_count, is_premium, is_active, comments, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var authorID any
	if content.AuthorID != 0 {
		authorID = content.AuthorID
	}

	result, err := r.db.ExecContext(ctx, query,
		content.Title,
		content.Slug,
		content.Excerpt,
		content.Body,
		content.Type,
		content.Category,
		authorID,
		content.FeaturedImage,
		content.Images,
		content.Tags,
		content.Keywords,
		content.ReadingTime,
		content.WordCount,
		content.IsPremium,
		content.IsActive,
		content.Comments,
		content.DisplayOrder,
	)
	if err != nil {
		r.logger.Error("failed to create content", zap.Error(err))
		return fmt.Errorf("failed to create content: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	content.ID = int(id)
	return nil
}

// GetByID retrieves a content piece with its author projection
func (r *contentRepository) GetByID(ctx context.Context, id int) (*models.Content, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM contents c
		LEFT JOIN authors a ON a.id = c.author_id
		WHERE c.id = ?
		LIMIT 1
	`, contentColumns, authorRefColumns)

	content, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get content by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get content by id: %w", err)
	}

	return content, nil
}

// ExistsBySlug reports whether any other content piece holds the given
// slug. excludeID skips the piece being updated; pass 0 on create.
func (r *contentRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `SELECT COUNT(*) FROM contents WHERE slug = ? AND id != ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return count > 0, nil
}

// List retrieves a page of content plus the total count
func (r *contentRepository) List(ctx context.Context, filter models.ContentListFilter) ([]models.Content, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(c.title LIKE ? OR c.excerpt LIKE ? OR c.tags LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Type != "" {
		conditions = append(conditions, `c.type = ?`)
		args = append(args, filter.Type)
	}
	if filter.Category != "" {
		conditions = append(conditions, `c.category = ?`)
		args = append(args, filter.Category)
	}
	if filter.AuthorID != 0 {
		conditions = append(conditions, `c.author_id = ?`)
		args = append(args, filter.AuthorID)
	}
	if filter.IsPremium != nil {
		conditions = append(conditions, `c.is_premium = ?`)
		args = append(args, *filter.IsPremium)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, `c.is_active = ?`)
		args = append(args, *filter.IsActive)
	}
	if filter.IsPublished != nil {
		conditions = append(conditions, `c.is_published = ?`)
		args = append(args, *filter.IsPublished)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM contents c %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contents: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM contents c
		LEFT JOIN authors a ON a.id = c.author_id
		%s
		%s
		LIMIT ? OFFSET ?
	`, contentColumns, authorRefColumns, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, contentSortColumns, "c.created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query contents: %w", err)
	}
	defer rows.Close()

	var contents []models.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, *content)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return contents, total, nil
}

// Update applies the non-nil fields of the request
func (r *contentRepository) Update(ctx context.Context, id int, req *models.UpdateContentRequest) error {
	var setParts []string
	var args []any

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Slug != nil {
		setParts = append(setParts, "slug = ?")
		args = append(args, *req.Slug)
	}
	if req.Excerpt != nil {
		setParts = append(setParts, "excerpt = ?")
		args = append(args, *req.Excerpt)
	}
	if req.Body != nil {
		setParts = append(setParts, "body = ?", "word_count = ?")
		args = append(args, *req.Body, len(strings.Fields(*req.Body)))
	}
	if req.Type != nil {
		setParts = append(setParts, "type = ?")
		args = append(args, *req.Type)
	}
	if req.Category != nil {
		setParts = append(setParts, "category = ?")
		args = append(args, *req.Category)
	}
	if req.AuthorID != nil {
		setParts = append(setParts, "author_id = ?")
		if *req.AuthorID == 0 {
			args = append(args, nil)
		} else {
			args = append(args, *req.AuthorID)
		}
	}
	if req.FeaturedImage != nil {
		setParts = append(setParts, "featured_image = ?")
		args = append(args, *req.FeaturedImage)
	}
	if req.Images != nil {
		setParts = append(setParts, "images = ?")
		args = append(args, req.Images)
	}
	if req.Tags != nil {
		setParts = append(setParts, "tags = ?")
		args = append(args, req.Tags)
	}
	if req.Keywords != nil {
		setParts = append(setParts, "keywords = ?")
		args = append(args, req.Keywords)
	}
	if req.ReadingTime != nil {
		setParts = append(setParts, "reading_time = ?")
		args = append(args, *req.ReadingTime)
	}
	if req.IsPremium != nil {
		setParts = append(setParts, "is_premium = ?")
		args = append(args, *req.IsPremium)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE contents SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
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

// UpdateComments replaces the moderated comment list
func (r *contentRepository) UpdateComments(ctx context.Context, id int, comments models.CommentList) error {
	query := `UPDATE contents SET comments = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, comments, id)
	if err != nil {
		return fmt.Errorf("failed to update content comments: %w", err)
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
func (r *contentRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE contents SET is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update content status: %w", err)
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
func (r *contentRepository) SetPublished(ctx context.Context, id int, published bool) error {
	query := `UPDATE contents SET is_published = ?, published_at = IF(?, NOW(), NULL) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, published, published, id)
	if err != nil {
		return fmt.Errorf("failed to update content publication: %w", err)
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

// Delete removes a content piece by id
func (r *contentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM contents WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
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
