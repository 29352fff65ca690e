package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var userSortColumns = map[string]string{
	"createdAt":  "created_at",
	"email":      "email",
	"firstName":  "first_name",
	"lastName":   "last_name",
	"lastLogin":  "last_login",
	"dreamCount": "dream_count",
}

// userRepository implements user persistence
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, email, first_name, last_name, phone, subscription_status, subscription_expiry, is_active, dream_count, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var phone sql.NullString
	var subscriptionExpiry, lastLogin sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&phone,
		&user.SubscriptionStatus,
		&subscriptionExpiry,
		&user.IsActive,
		&user.DreamCount,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		user.Phone = phone.String
	}
	if subscriptionExpiry.Valid {
		user.SubscriptionExpiry = &subscriptionExpiry.Time
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return user, nil
}

// GetByID retrieves a user by id
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// ExistsByEmail reports whether another user holds the given email.
// excludeID skips the user being updated.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ? AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user email existence: %w", err)
	}

	return exists, nil
}

// List retrieves a page of users plus the total count for the filter
func (r *userRepository) List(ctx context.Context, filter models.UserListFilter) ([]models.User, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(email LIKE ? OR first_name LIKE ? OR last_name LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.SubscriptionStatus != "" {
		conditions = append(conditions, `subscription_status = ?`)
		args = append(args, filter.SubscriptionStatus)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		%s
		%s
		LIMIT ? OFFSET ?
	`, userColumns, whereClause, orderClause(filter.SortBy, filter.SortOrder, userSortColumns, "created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, total, nil
}

// Update applies the non-nil fields of the request
func (r *userRepository) Update(ctx context.Context, id int, req *models.UpdateUserRequest) error {
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
	if req.SubscriptionStatus != nil {
		setParts = append(setParts, "subscription_status = ?")
		args = append(args, *req.SubscriptionStatus)
	}
	if req.IsActive != nil {
		setParts = append(setParts, "is_active = ?")
		args = append(args, *req.IsActive)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update user: %w", err)
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
func (r *userRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE users SET is_active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %w", err)
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

// UpdateSubscription changes the subscription tier and expiry
func (r *userRepository) UpdateSubscription(ctx context.Context, id int, status models.SubscriptionStatus, expiry *time.Time) error {
	query := `UPDATE users SET subscription_status = ?, subscription_expiry = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, expiry, id)
	if err != nil {
		return fmt.Errorf("failed to update user subscription: %w", err)
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

// Delete removes a user by id
func (r *userRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

// Stats aggregates user counts, subscription split, registrations in the
// last seven days and dream journal activity
func (r *userRepository) Stats(ctx context.Context) (*models.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_active = 1), 0),
			COALESCE(SUM(is_active = 0), 0),
			COALESCE(SUM(subscription_status = 'premium'), 0),
			COALESCE(SUM(subscription_status = 'free'), 0),
			COALESCE(SUM(created_at >= DATE_SUB(NOW(), INTERVAL 7 DAY)), 0),
			COALESCE(SUM(dream_count > 0), 0),
			COALESCE(SUM(dream_count = 0), 0),
			COALESCE(AVG(dream_count), 0)
		FROM users
	`

	stats := &models.UserStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.InactiveUsers,
		&stats.PremiumUsers,
		&stats.FreeUsers,
		&stats.RecentRegistrations,
		&stats.UsersWithDreams,
		&stats.UsersWithoutDreams,
		&stats.AvgDreamsPerUser,
	)
	if err != nil {
		r.logger.Error("failed to get user stats", zap.Error(err))
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return stats, nil
}
