package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var expertSortColumns = map[string]string{
	"createdAt":     "created_at",
	"firstName":     "first_name",
	"lastName":      "last_name",
	"email":         "email",
	"totalSessions": "total_sessions",
	"totalEarnings": "total_earnings",
	"rating":        "rating_average",
}

// expertRepository implements expert persistence
type expertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpertRepository creates a new expert repository
func NewExpertRepository(db *sql.DB, logger *zap.Logger) *expertRepository {
	return &expertRepository{
		db:     db,
		logger: logger,
	}
}

const expertColumns = `id, first_name, last_name, email, phone, bio, short_bio, profile_image, specialization, languages, availability, session_types, session_duration, pricing, is_active, is_verified, verified_at, rating_average, rating_count, total_sessions, total_clients, total_earnings, created_at, updated_at`

func scanExpert(row interface{ Scan(...any) error }) (*models.Expert, error) {
	expert := &models.Expert{}
	var shortBio, profileImage sql.NullString
	var verifiedAt sql.NullTime
	err := row.Scan(
		&expert.ID,
		&expert.FirstName,
		&expert.LastName,
		&expert.Email,
		&expert.Phone,
		&expert.Bio,
		&shortBio,
		&profileImage,
		&expert.Specialization,
		&expert.Languages,
		&expert.Availability,
		&expert.SessionTypes,
		&expert.SessionDuration,
		&expert.Pricing,
		&expert.IsActive,
		&expert.IsVerified,
		&verifiedAt,
		&expert.Rating.Average,
		&expert.Rating.Count,
		&expert.TotalSessions,
		&expert.TotalClients,
		&expert.TotalEarnings,
		&expert.CreatedAt,
		&expert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if shortBio.Valid {
		expert.ShortBio = shortBio.String
	}
	if profileImage.Valid {
		expert.ProfileImage = profileImage.String
	}
	if verifiedAt.Valid {
		expert.VerifiedAt = &verifiedAt.Time
	}
	return expert, nil
}

// Create inserts a new expert
func (r *expertRepository) Create(ctx context.Context, expert *models.Expert) error {
	query := `
		INSERT INTO experts (first_name, last_name, email, phone, bio, short_bio, profile_image, specialization, languages, availability, session_types, session_duration, pricing, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		expert.FirstName,
		expert.LastName,
		expert.Email,
		expert.Phone,
		expert.Bio,
		expert.ShortBio,
		expert.ProfileImage,
		expert.Specialization,
		expert.Languages,
		expert.Availability,
		expert.SessionTypes,
		expert.SessionDuration,
		expert.Pricing,
		expert.IsActive,
	)
	if err != nil {
		r.logger.Error("failed to create expert", zap.Error(err))
		return fmt.Errorf("failed to create expert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	expert.ID = int(id)
	return nil
}

// GetByID retrieves an expert by id
func (r *expertRepository) GetByID(ctx context.Context, id int) (*models.Expert, error) {
	query := `SELECT ` + expertColumns + ` FROM experts WHERE id = ? LIMIT 1`

	expert, err := scanExpert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get expert by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get expert by id: %w", err)
	}

	return expert, nil
}

// ExistsByEmail checks if an expert other than excludeID holds the given
// email. Pass 0 on create.
func (r *expertRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM experts WHERE email = ? AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check expert email existence: %w", err)
	}

	return exists, nil
}

// List retrieves a page of experts plus the total count for the filter
func (r *expertRepository) List(ctx context.Context, filter models.ExpertListFilter) ([]models.Expert, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR bio LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.Specialization != "" {
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

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM experts %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count experts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM experts
		%s
		%s
		LIMIT ? OFFSET ?
	`, expertColumns, whereClause, orderClause(filter.SortBy, filter.SortOrder, expertSortColumns, "created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query experts: %w", err)
	}
	defer rows.Close()

	var experts []models.Expert
	for rows.Next() {
		expert, err := scanExpert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expert: %w", err)
		}
		experts = append(experts, *expert)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return experts, total, nil
}

// Update applies the non-nil fields of the request
func (r *expertRepository) Update(ctx context.Context, id int, req *models.UpdateExpertRequest) error {
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
	if req.Specialization != nil {
		setParts = append(setParts, "specialization = ?")
		args = append(args, req.Specialization)
	}
	if req.Languages != nil {
		setParts = append(setParts, "languages = ?")
		args = append(args, req.Languages)
	}
	if req.SessionTypes != nil {
		setParts = append(setParts, "session_types = ?")
		args = append(args, req.SessionTypes)
	}
	if req.SessionDuration != nil {
		setParts = append(setParts, "session_duration = ?")
		args = append(args, *req.SessionDuration)
	}
	if req.Availability != nil {
		setParts = append(setParts, "availability = ?")
		args = append(args, *req.Availability)
	}
	if req.Pricing != nil {
		setParts = append(setParts, "pricing = ?")
		args = append(args, *req.Pricing)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE experts SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update expert", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update expert: %w", err)
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
func (r *expertRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE experts SET is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set expert active flag: %w", err)
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

// SetVerified marks an expert verified, stamping or clearing the
// verification time
func (r *expertRepository) SetVerified(ctx context.Context, id int, verified bool) error {
	query := `UPDATE experts SET is_verified = ?, verified_at = IF(?, NOW(), NULL) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, verified, verified, id)
	if err != nil {
		return fmt.Errorf("failed to set expert verified flag: %w", err)
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

// Delete removes an expert by id
func (r *expertRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM experts WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete expert: %w", err)
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
