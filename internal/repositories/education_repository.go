package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var educationSortColumns = map[string]string{
	"createdAt":   "e.created_at",
	"title":       "e.title",
	"category":    "e.category",
	"level":       "e.level",
	"views":       "e.views",
	"likes":       "e.likes",
	"order":       "e.display_order",
	"publishedAt": "e.published_at",
}

// educationRepository implements education persistence
type educationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEducationRepository creates a new education repository
func NewEducationRepository(db *sql.DB, logger *zap.Logger) *educationRepository {
	return &educationRepository{
		db:     db,
		logger: logger,
	}
}

const educationColumns = `e.id, e.title, e.description, e.short_description, e.content, e.category, e.level, e.duration, e.thumbnail, e.images, e.tags, e.author_id, e.is_premium, e.is_active, e.is_published, e.published_at, e.views, e.likes, e.rating_average, e.rating_count, e.display_order, e.created_at, e.updated_at`

// authorRefColumns joins the owning author's display projection
const authorRefColumns = `a.id, a.first_name, a.last_name, a.profile_image`

func scanEducation(row interface{ Scan(...any) error }) (*models.Education, error) {
	edu := &models.Education{}
	var shortDescription, thumbnail sql.NullString
	var publishedAt sql.NullTime
	var refID sql.NullInt64
	var refFirst, refLast, refImage sql.NullString
	err := row.Scan(
		&edu.ID,
		&edu.Title,
		&edu.Description,
		&shortDescription,
		&edu.Content,
		&edu.Category,
		&edu.Level,
		&edu.Duration,
		&thumbnail,
		&edu.Images,
		&edu.Tags,
		&edu.AuthorID,
		&edu.IsPremium,
		&edu.IsActive,
		&edu.IsPublished,
		&publishedAt,
		&edu.Views,
		&edu.Likes,
		&edu.Rating.Average,
		&edu.Rating.Count,
		&edu.DisplayOrder,
		&edu.CreatedAt,
		&edu.UpdatedAt,
		&refID,
		&refFirst,
		&refLast,
		&refImage,
	)
	if err != nil {
		return nil, err
	}
	if shortDescription.Valid {
		edu.ShortDescription = shortDescription.String
	}
	if thumbnail.Valid {
		edu.Thumbnail = thumbnail.String
	}
	if publishedAt.Valid {
		edu.PublishedAt = &publishedAt.Time
	}
	if refID.Valid {
		edu.Author = &models.AuthorRef{
			ID:           int(refID.Int64),
			FirstName:    refFirst.String,
			LastName:     refLast.String,
			ProfileImage: refImage.String,
		}
	}
	return edu, nil
}

// Create inserts a new education record
func (r *educationRepository) Create(ctx context.Context, edu *models.Education) error {
	query := `
		INSERT INTO educations (title, description, short_description, content, category, level, duration, thumbnail, images, tags, author_id, is_premium, is_active, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		edu.Title,
		edu.Description,
		edu.ShortDescription,
		edu.Content,
		edu.Category,
		edu.Level,
		edu.Duration,
		edu.Thumbnail,
		edu.Images,
		edu.Tags,
		edu.AuthorID,
		edu.IsPremium,
		edu.IsActive,
		edu.DisplayOrder,
	)
	if err != nil {
		r.logger.Error("failed to create education", zap.Error(err))
		return fmt.Errorf("failed to create education: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	edu.ID = int(id)
	return nil
}

// GetByID retrieves an education record with its author projection
func (r *educationRepository) GetByID(ctx context.Context, id int) (*models.Education, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM educations e
		LEFT JOIN authors a ON a.id = e.author_id
		WHERE e.id = ?
		LIMIT 1
	`, educationColumns, authorRefColumns)

	edu, err := scanEducation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get education by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get education by id: %w", err)
	}

	return edu, nil
}

// List retrieves a page of education records plus the total count
func (r *educationRepository) List(ctx context.Context, filter models.EducationListFilter) ([]models.Education, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(e.title LIKE ? OR e.description LIKE ? OR e.content LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Category != "" {
		conditions = append(conditions, `e.category = ?`)
		args = append(args, filter.Category)
	}
	if filter.Level != "" {
		conditions = append(conditions, `e.level = ?`)
		args = append(args, filter.Level)
	}
	if filter.AuthorID != 0 {
		conditions = append(conditions, `e.author_id = ?`)
		args = append(args, filter.AuthorID)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, `e.is_active = ?`)
		args = append(args, *filter.IsActive)
	}
	if filter.IsPublished != nil {
		conditions = append(conditions, `e.is_published = ?`)
		args = append(args, *filter.IsPublished)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM educations e %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count educations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM educations e
		LEFT JOIN authors a ON a.id = e.author_id
		%s
		%s
		LIMIT ? OFFSET ?
	`, educationColumns, authorRefColumns, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, educationSortColumns, "e.created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query educations: %w", err)
	}
	defer rows.Close()

	var educations []models.Education
	for rows.Next() {
		edu, err := scanEducation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan education: %w", err)
		}
		educations = append(educations, *edu)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return educations, total, nil
}

// Update applies the non-nil fields of the request
func (r *educationRepository) Update(ctx context.Context, id int, req *models.UpdateEducationRequest) error {
	var setParts []string
	var args []any

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *req.Description)
	}
	if req.ShortDescription != nil {
		setParts = append(setParts, "short_description = ?")
		args = append(args, *req.ShortDescription)
	}
	if req.Content != nil {
		setParts = append(setParts, "content = ?")
		args = append(args, *req.Content)
	}
	if req.Category != nil {
		setParts = append(setParts, "category = ?")
		args = append(args, *req.Category)
	}
	if req.Level != nil {
		setParts = append(setParts, "level = ?")
		args = append(args, *req.Level)
	}
	if req.Duration != nil {
		setParts = append(setParts, "duration = ?")
		args = append(args, *req.Duration)
	}
	if req.Thumbnail != nil {
		setParts = append(setParts, "thumbnail = ?")
		args = append(args, *req.Thumbnail)
	}
	if req.Images != nil {
		setParts = append(setParts, "images = ?")
		args = append(args, req.Images)
	}
	if req.Tags != nil {
		setParts = append(setParts, "tags = ?")
		args = append(args, req.Tags)
	}
	if req.AuthorID != nil {
		setParts = append(setParts, "author_id = ?")
		args = append(args, *req.AuthorID)
	}
	if req.IsPremium != nil {
		setParts = append(setParts, "is_premium = ?")
		args = append(args, *req.IsPremium)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE educations SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update education", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update education: %w", err)
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

// SetActive flips the activation flag
func (r *educationRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE educations SET is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set education active flag: %w", err)
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

// SetPublished flips the publish flag, stamping or clearing published_at
func (r *educationRepository) SetPublished(ctx context.Context, id int, published bool) error {
	query := `UPDATE educations SET is_published = ?, published_at = IF(?, NOW(), NULL) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, published, published, id)
	if err != nil {
		return fmt.Errorf("failed to set education published flag: %w", err)
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

// Delete removes an education record by id
func (r *educationRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM educations WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete education: %w", err)
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

// Stats aggregates education counts, category and level distributions
// and the top five authors by education count
func (r *educationRepository) Stats(ctx context.Context) (*models.EducationStats, error) {
	countsQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_published = 1), 0),
			COALESCE(SUM(is_published = 0), 0),
			COALESCE(SUM(is_active = 1), 0),
			COALESCE(SUM(is_active = 0), 0),
			COALESCE(SUM(is_premium = 1), 0),
			COALESCE(SUM(is_premium = 0), 0)
		FROM educations
	`

	stats := &models.EducationStats{}
	err := r.db.QueryRowContext(ctx, countsQuery).Scan(
		&stats.TotalEducations,
		&stats.PublishedEducations,
		&stats.UnpublishedEducations,
		&stats.ActiveEducations,
		&stats.InactiveEducations,
		&stats.PremiumEducations,
		&stats.FreeEducations,
	)
	if err != nil {
		r.logger.Error("failed to get education stats", zap.Error(err))
		return nil, fmt.Errorf("failed to get education stats: %w", err)
	}

	stats.CategoryDistribution, err = r.groupedCounts(ctx, "category")
	if err != nil {
		return nil, err
	}

	stats.LevelDistribution, err = r.groupedCounts(ctx, "level")
	if err != nil {
		return nil, err
	}

	topQuery := `
		SELECT a.id, CONCAT(a.first_name, ' ', a.last_name), COUNT(e.id) AS cnt
		FROM educations e
		JOIN authors a ON a.id = e.author_id
		GROUP BY a.id, a.first_name, a.last_name
		ORDER BY cnt DESC
		LIMIT 5
	`

	rows, err := r.db.QueryContext(ctx, topQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query top authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var top models.TopAuthor
		if err := rows.Scan(&top.AuthorID, &top.AuthorName, &top.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top author: %w", err)
		}
		stats.TopAuthors = append(stats.TopAuthors, top)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}

// groupedCounts counts educations grouped by the given enum column
func (r *educationRepository) groupedCounts(ctx context.Context, column string) ([]models.CountBucket, error) {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM educations GROUP BY %s ORDER BY COUNT(*) DESC`, column, column)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s distribution: %w", column, err)
	}
	defer rows.Close()

	var buckets []models.CountBucket
	for rows.Next() {
		var bucket models.CountBucket
		if err := rows.Scan(&bucket.Key, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s distribution: %w", column, err)
		}
		buckets = append(buckets, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return buckets, nil
}
