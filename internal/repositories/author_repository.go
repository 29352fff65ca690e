package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var authorSortColumns = map[string]string{
	"createdAt":      "created_at",
	"firstName":      "first_name",
	"lastName":       "last_name",
	"email":          "email",
	"educationCount": "education_count",
	"totalViews":     "total_views",
	"rating":         "rating_average",
}

// authorRepository implements author persistence
type authorRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *sql.DB, logger *zap.Logger) *authorRepository {
	return &authorRepository{
		db:     db,
		logger: logger,
	}
}

const authorColumns = `id, first_name, last_name, email, phone, bio, short_bio, profile_image, cover_image, specialization, languages, is_active, is_verified, verified_at, rating_average, rating_count, education_count, total_views, total_likes, created_at, updated_at`

func scanAuthor(row interface{ Scan(...any) error }) (*models.Author, error) {
	author := &models.Author{}
	var phone, shortBio, profileImage, coverImage sql.NullString
	var verifiedAt sql.NullTime
	err := row.Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&author.Email,
		&phone,
		&author.Bio,
		&shortBio,
		&profileImage,
		&coverImage,
		&author.Specialization,
		&author.Languages,
		&author.IsActive,
		&author.IsVerified,
		&verifiedAt,
		&author.Rating.Average,
		&author.Rating.Count,
		&author.EducationCount,
		&author.TotalViews,
		&author.TotalLikes,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		author.Phone = phone.String
	}
	if shortBio.Valid {
		author.ShortBio = shortBio.String
	}
	if profileImage.Valid {
		author.ProfileImage = profileImage.String
	}
	if coverImage.Valid {
		author.CoverImage = coverImage.String
	}
	if verifiedAt.Valid {
		author.VerifiedAt = &verifiedAt.Time
	}
	return author, nil
}

// Create inserts a new author
func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	query := `
		INSERT INTO authors (first_name, last_name, email, phone, bio, short_bio, profile_image, cover_image, specialization, languages, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		author.FirstName,
		author.LastName,
		author.Email,
		author.Phone,
		author.Bio,
		author.ShortBio,
		author.ProfileImage,
		author.CoverImage,
		author.Specialization,
		author.Languages,
		author.IsActive,
	)
	if err != nil {
		r.logger.Error("failed to create author", zap.Error(err))
		return fmt.Errorf("failed to create author: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	author.ID = int(id)
	return nil
}

// GetByID retrieves an author by id
func (r *authorRepository) GetByID(ctx context.Context, id int) (*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = ? LIMIT 1`

	author, err := scanAuthor(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get author by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	return author, nil
}

// ExistsByEmail checks if an author other than excludeID holds the given
// email. Pass 0 on create.
func (r *authorRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM authors WHERE email = ? AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author email existence: %w", err)
	}

	return exists, nil
}

// List retrieves a page of authors plus the total count for the filter
func (r *authorRepository) List(ctx context.Context, filter models.AuthorListFilter) ([]models.Author, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR bio LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.Specialization != "" {
		// Specialization is a JSON array column
		conditions = append(conditions, `JSON_CONTAINS(specialization, JSON_QUOTE(?))`)
		args = append(args, filter.Specialization)
	}
	if filter.IsVerified != nil {
		conditions = append(conditions, `is_verified = ?`)
		args = append(args, *filter.IsVerified)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM authors %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM authors
		%s
		%s
		LIMIT ? OFFSET ?
	`, authorColumns, whereClause, orderClause(filter.SortBy, filter.SortOrder, authorSortColumns, "created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, *author)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return authors, total, nil
}

// Update applies the non-nil fields of the request
func (r *authorRepository) Update(ctx context.Context, id int, req *models.UpdateAuthorRequest) error {
	var setParts []string
	var args []any

	if req.FirstName != nil {
		setParts = append(setParts, "first_name = ?")
		args = append(args, *req.FirstName)
	}
	if req.LastName != nil {
		setParts = append(setParts, "last_name = ?")
		args = append(args, *req.LastName)
	}
	if req.Email != nil {
		setParts = append(setParts, "email = ?")
		args = append(args, *req.Email)
	}
	if req.Phone != nil {
		setParts = append(setParts, "phone = ?")
		args = append(args, *req.Phone)
	}
	if req.Bio != nil {
		setParts = append(setParts, "bio = ?")
		args = append(args, *req.Bio)
	}
	if req.ShortBio != nil {
		setParts = append(setParts, "short_bio = ?")
		args = append(args, *req.ShortBio)
	}
	if req.ProfileImage != nil {
		setParts = append(setParts, "profile_image = ?")
		args = append(args, *req.ProfileImage)
	}
	if req.CoverImage != nil {
		setParts = append(setParts, "cover_image = ?")
		args = append(args, *req.CoverImage)
	}
	if req.Specialization != nil {
		setParts = append(setParts, "specialization = ?")
		args = append(args, req.Specialization)
	}
	if req.Languages != nil {
		setParts = append(setParts, "languages = ?")
		args = append(args, req.Languages)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE authors SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update author", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update author: %w", err)
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
func (r *authorRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE authors SET is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set author active flag: %w", err)
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

// SetVerified marks an author verified, stamping or clearing the
// verification time
func (r *authorRepository) SetVerified(ctx context.Context, id int, verified bool) error {
	query := `UPDATE authors SET is_verified = ?, verified_at = IF(?, NOW(), NULL) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, verified, verified, id)
	if err != nil {
		return fmt.Errorf("failed to set author verified flag: %w", err)
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

// IncrementEducationCount atomically adjusts the cached education count
func (r *authorRepository) IncrementEducationCount(ctx context.Context, id, delta int) error {
	query := `UPDATE authors SET education_count = GREATEST(education_count + ?, 0) WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, delta, id); err != nil {
		return fmt.Errorf("failed to adjust author education count: %w", err)
	}
	return nil
}

// Delete removes an author by id
func (r *authorRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM authors WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
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
