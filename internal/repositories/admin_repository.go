package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var adminSortColumns = map[string]string{
	"createdAt": "created_at",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
	"lastLogin": "last_login",
	"role":      "role",
}

// adminRepository implements admin persistence
type adminRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *sql.DB, logger *zap.Logger) *adminRepository {
	return &adminRepository{
		db:     db,
		logger: logger,
	}
}

const adminColumns = `id, email, first_name, last_name, role, permissions, is_active, last_login, login_count, profile_image, created_at, updated_at`

func scanAdmin(row interface{ Scan(...any) error }) (*models.Admin, error) {
	admin := &models.Admin{}
	var lastLogin sql.NullTime
	var profileImage sql.NullString
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.FirstName,
		&admin.LastName,
		&admin.Role,
		&admin.Permissions,
		&admin.IsActive,
		&lastLogin,
		&admin.LoginCount,
		&profileImage,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		admin.LastLogin = &lastLogin.Time
	}
	if profileImage.Valid {
		admin.ProfileImage = profileImage.String
	}
	return admin, nil
}

// Create inserts a new admin
func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (email, password_hash, first_name, last_name, role, permissions, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		admin.Email,
		admin.PasswordHash,
		admin.FirstName,
		admin.LastName,
		admin.Role,
		admin.Permissions,
		admin.IsActive,
	)
	if err != nil {
		r.logger.Error("failed to create admin", zap.Error(err))
		return fmt.Errorf("failed to create admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	admin.ID = int(id)
	return nil
}

// GetByID retrieves an admin by id, without the password hash
func (r *adminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = ? LIMIT 1`

	admin, err := scanAdmin(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get admin by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get admin by id: %w", err)
	}

	return admin, nil
}

// GetByEmail retrieves an admin by email including the password hash,
// for credential checks
func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, role, permissions, is_active, last_login, login_count, created_at, updated_at
		FROM admins
		WHERE email = ?
		LIMIT 1
	`

	admin := &models.Admin{}
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.FirstName,
		&admin.LastName,
		&admin.Role,
		&admin.Permissions,
		&admin.IsActive,
		&lastLogin,
		&admin.LoginCount,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get admin by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	if lastLogin.Valid {
		admin.LastLogin = &lastLogin.Time
	}

	return admin, nil
}

// ExistsByEmail checks if an admin exists with the given email
func (r *adminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM admins WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin email existence: %w", err)
	}

	return exists, nil
}

// List retrieves a page of admins plus the total count for the filter
func (r *adminRepository) List(ctx context.Context, filter models.AdminListFilter) ([]models.Admin, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(email LIKE ? OR first_name LIKE ? OR last_name LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Role != "" {
		conditions = append(conditions, `role = ?`)
		args = append(args, filter.Role)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, `is_active = ?`)
		args = append(args, *filter.IsActive)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM admins %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count admins: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM admins
		%s
		%s
		LIMIT ? OFFSET ?
	`, adminColumns, whereClause, orderClause(filter.SortBy, filter.SortOrder, adminSortColumns, "created_at"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, *admin)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return admins, total, nil
}

// Update applies the non-nil fields of the request
func (r *adminRepository) Update(ctx context.Context, id int, req *models.UpdateAdminRequest) error {
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
	if req.Role != nil {
		setParts = append(setParts, "role = ?")
		args = append(args, *req.Role)
	}
	if req.Permissions != nil {
		setParts = append(setParts, "permissions = ?")
		args = append(args, *req.Permissions)
	}
	if req.IsActive != nil {
		setParts = append(setParts, "is_active = ?")
		args = append(args, *req.IsActive)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE admins SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update admin", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update admin: %w", err)
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

// UpdatePassword replaces the stored credential hash
func (r *adminRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE admins SET password_hash = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
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

// RecordLogin stamps the login time and bumps the counter atomically
func (r *adminRepository) RecordLogin(ctx context.Context, id int) error {
	query := `UPDATE admins SET last_login = NOW(), login_count = login_count + 1 WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to record admin login: %w", err)
	}
	return nil
}

// Delete removes an admin by id
func (r *adminRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM admins WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
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

// Stats aggregates admin counts, the role distribution and the number of
// logins in the last seven days
func (r *adminRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_active = 1), 0),
			COALESCE(SUM(is_active = 0), 0),
			COALESCE(SUM(role = 'super_admin'), 0),
			COALESCE(SUM(role = 'admin'), 0),
			COALESCE(SUM(role = 'moderator'), 0),
			COALESCE(SUM(role = 'content_manager'), 0),
			COALESCE(SUM(last_login >= DATE_SUB(NOW(), INTERVAL 7 DAY)), 0)
		FROM admins
	`

	stats := &models.AdminStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalAdmins,
		&stats.ActiveAdmins,
		&stats.InactiveAdmins,
		&stats.RoleDistribution.SuperAdmins,
		&stats.RoleDistribution.RegularAdmins,
		&stats.RoleDistribution.Moderators,
		&stats.RoleDistribution.ContentManagers,
		&stats.RecentLogins,
	)
	if err != nil {
		r.logger.Error("failed to get admin stats", zap.Error(err))
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}

	return stats, nil
}
