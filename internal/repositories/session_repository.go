package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var sessionSortColumns = map[string]string{
	"createdAt":   "s.created_at",
	"title":       "s.title",
	"type":        "s.type",
	"category":    "s.category",
	"price":       "s.price",
	"views":       "s.views",
	"bookings":    "s.bookings",
	"publishedAt": "s.published_at",
}

// sessionRepository implements session persistence
type sessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

const sessionColumns = `s.id, s.title, s.description, s.type, s.category, s.expert_id, s.duration, s.max_participants, s.current_participants, s.price, s.currency, s.thumbnail, s.images, s.tags, s.is_active, s.is_published, s.published_at, s.views, s.bookings, s.rating_average, s.rating_count, s.created_at, s.updated_at`

const expertRefColumns = `ex.id, ex.first_name, ex.last_name, ex.profile_image`

func scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	session := &models.Session{}
	var thumbnail sql.NullString
	var publishedAt sql.NullTime
	var refID sql.NullInt64
	var refFirst, refLast, refImage sql.NullString
	err := row.Scan(
		&session.ID,
		&session.Title,
		&session.Description,
		&session.Type,
		&session.Category,
		&session.ExpertID,
		&session.Duration,
		&session.MaxParticipants,
		&session.CurrentParticipants,
		&session.Price,
		&session.Currency,
		&thumbnail,
		&session.Images,
		&session.Tags,
		&session.IsActive,
		&session.IsPublished,
		&publishedAt,
		&session.Views,
		&session.Bookings,
		&session.Rating.Average,
		&session.Rating.Count,
		&session.CreatedAt,
		&session.UpdatedAt,
		&refID,
		&refFirst,
		&refLast,
		&refImage,
	)
	if err != nil {
		return nil, err
	}
	if thumbnail.Valid {
		session.Thumbnail = thumbnail.String
	}
	if publishedAt.Valid {
		session.PublishedAt = &publishedAt.Time
	}
	if refID.Valid {
		session.Expert = &models.ExpertRef{
			ID:           int(refID.Int64),
			FirstName:    refFirst.String,
			LastName:     refLast.String,
			ProfileImage: refImage.String,
		}
	}
	return session, nil
}

// Create inserts a new session
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (title, description, type, category, expert_id, duration, max_participants, price, currency, thumbnail, images, tags, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		session.Title,
		session.Description,
		session.Type,
		session.Category,
		session.ExpertID,
		session.Duration,
		session.MaxParticipants,
		session.Price,
		session.Currency,
		session.Thumbnail,
		session.Images,
		session.Tags,
		session.IsActive,
	)
	if err != nil {
		r.logger.Error("failed to create session", zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	session.ID = int(id)
	return nil
}

// GetByID retrieves a session with its expert projection
func (r *sessionRepository) GetByID(ctx context.Context, id int) (*models.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM sessions s
		LEFT JOIN experts ex ON ex.id = s.expert_id
		WHERE s.id = ?
		LIMIT 1
	`, sessionColumns, expertRefColumns)

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get session by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// List retrieves a page of sessions plus the total count
func (r *sessionRepository) List(ctx context.Context, filter models.SessionListFilter) ([]models.Session, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(s.title LIKE ? OR s.description LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern)
	}
	if filter.Type != "" {
		conditions = append(conditions, `s.type = ?`)
		args = append(args, filter.Type)
	}
	if filter.Category != "" {
		conditions = append(conditions, `s.category = ?`)
		args = append(args, filter.Category)
	}
	if filter.ExpertID != 0 {
		conditions = append(conditions, `s.expert_id = ?`)
		args = append(args, filter.ExpertID)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, `s.is_active = ?`)
		args = append(args, *filter.IsActive)
	}
	if filter.IsPublished != nil {
		conditions = append(conditions, `s.is_published = ?`)
		args = append(args, *filter.IsPublished)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM sessions s %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM sessions s
		LEFT JOIN experts ex ON ex.id = s.expert_id
		%s
		%s
		LIMIT ? OFFSET ?
	`, sessionColumns, expertRefColumns, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, sessionSortColumns, "s.created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return sessions, total, nil
}

// Update applies the non-nil fields of the request
func (r *sessionRepository) Update(ctx context.Context, id int, req *models.UpdateSessionRequest) error {
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
	if req.Type != nil {
		setParts = append(setParts, "type = ?")
		args = append(args, *req.Type)
	}
	if req.Category != nil {
		setParts = append(setParts, "category = ?")
		args = append(args, *req.Category)
	}
	if req.ExpertID != nil {
		setParts = append(setParts, "expert_id = ?")
		args = append(args, *req.ExpertID)
	}
	if req.Duration != nil {
		setParts = append(setParts, "duration = ?")
		args = append(args, *req.Duration)
	}
	if req.MaxParticipants != nil {
		setParts = append(setParts, "max_participants = ?")
		args = append(args, *req.MaxParticipants)
	}
	if req.Price != nil {
		setParts = append(setParts, "price = ?")
		args = append(args, *req.Price)
	}
	if req.Currency != nil {
		setParts = append(setParts, "currency = ?")
		args = append(args, *req.Currency)
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

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE sessions SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update session", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update session: %w", err)
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
func (r *sessionRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE sessions SET is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set session active flag: %w", err)
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
func (r *sessionRepository) SetPublished(ctx context.Context, id int, published bool) error {
	query := `UPDATE sessions SET is_published = ?, published_at = IF(?, NOW(), NULL) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, published, published, id)
	if err != nil {
		return fmt.Errorf("failed to set session published flag: %w", err)
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

// Delete removes a session by id
func (r *sessionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM sessions WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
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
