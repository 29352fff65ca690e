package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// setupAdminTestRepository creates an admin repository with a mock database
func setupAdminTestRepository(t *testing.T) (*adminRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewAdminRepository(db, zap.NewNop())

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

var adminRowColumns = []string{
	"id", "email", "first_name", "last_name", "role", "permissions",
	"is_active", "last_login", "login_count", "profile_image", "created_at", "updated_at",
}

func TestAdminRepository_GetByID(t *testing.T) {
	now := time.Now()
	permissionsJSON := []byte(`{"users":true,"education":true,"authors":true,"experts":true,"sessions":true,"appointments":true,"books":true,"content":true,"analytics":false,"settings":false}`)

	tests := []struct {
		name          string
		id            int
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedEmail string
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(adminRowColumns).
					AddRow(1, "admin@innerdreams.app", "Alice", "Morgan", "admin", permissionsJSON, true, now, 4, nil, now, now)
				mock.ExpectQuery(`SELECT id, email, first_name, last_name, role, permissions, is_active, last_login, login_count, profile_image, created_at, updated_at FROM admins WHERE id = \? LIMIT 1`).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectedEmail: "admin@innerdreams.app",
		},
		{
			name: "not found",
			id:   999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email, first_name, last_name, role, permissions, is_active, last_login, login_count, profile_image, created_at, updated_at FROM admins WHERE id = \? LIMIT 1`).
					WithArgs(999).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email, first_name, last_name, role, permissions, is_active, last_login, login_count, profile_image, created_at, updated_at FROM admins WHERE id = \? LIMIT 1`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAdminTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			admin, err := repo.GetByID(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, admin)
				if errors.Is(tt.expectedError, models.ErrNotFound) {
					assert.ErrorIs(t, err, models.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, admin)
				assert.Equal(t, tt.expectedEmail, admin.Email)
				assert.True(t, admin.Permissions.Users)
				assert.False(t, admin.Permissions.Settings)
				assert.Empty(t, admin.PasswordHash)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_GetByEmail(t *testing.T) {
	now := time.Now()
	permissionsJSON := []byte(`{"users":true}`)

	repo, mock, cleanup := setupAdminTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "role", "permissions",
		"is_active", "last_login", "login_count", "created_at", "updated_at",
	}).
		AddRow(3, "ops@innerdreams.app", "$2a$10$hash", "Omar", "Reed", "super_admin", permissionsJSON, true, nil, 0, now, now)
	mock.ExpectQuery(`SELECT id, email, password_hash, first_name, last_name, role, permissions, is_active, last_login, login_count, created_at, updated_at FROM admins WHERE email = \? LIMIT 1`).
		WithArgs("ops@innerdreams.app").
		WillReturnRows(rows)

	admin, err := repo.GetByEmail(context.Background(), "ops@innerdreams.app")

	assert.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "$2a$10$hash", admin.PasswordHash)
	assert.Equal(t, models.RoleSuperAdmin, admin.Role)
	assert.Nil(t, admin.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_List(t *testing.T) {
	now := time.Now()
	permissionsJSON := []byte(`{"users":true}`)

	tests := []struct {
		name          string
		filter        models.AdminListFilter
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
		expectedTotal int
	}{
		{
			name: "success without filters",
			filter: models.AdminListFilter{
				ListParams: models.ListParams{Page: 1, Limit: 10},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				rows := sqlmock.NewRows(adminRowColumns).
					AddRow(1, "a@innerdreams.app", "Alice", "Morgan", "admin", permissionsJSON, true, now, 4, nil, now, now).
					AddRow(2, "b@innerdreams.app", "Ben", "Cole", "moderator", permissionsJSON, true, nil, 0, nil, now, now)
				mock.ExpectQuery(`SELECT id, email, first_name, last_name, role, permissions, is_active, last_login, login_count, profile_image, created_at, updated_at FROM admins ORDER BY created_at DESC LIMIT \? OFFSET \?`).
					WithArgs(10, 0).
					WillReturnRows(rows)
			},
			expectedCount: 2,
			expectedTotal: 2,
		},
		{
			name: "success with search and role filter",
			filter: models.AdminListFilter{
				ListParams: models.ListParams{Page: 2, Limit: 5, Search: "alice"},
				Role:       "admin",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins WHERE \(email LIKE \? OR first_name LIKE \? OR last_name LIKE \?\) AND role = \?`).
					WithArgs("%alice%", "%alice%", "%alice%", "admin").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
				rows := sqlmock.NewRows(adminRowColumns).
					AddRow(1, "alice@innerdreams.app", "Alice", "Morgan", "admin", permissionsJSON, true, now, 4, nil, now, now)
				mock.ExpectQuery(`SELECT id, email, first_name, last_name, role, permissions, is_active, last_login, login_count, profile_image, created_at, updated_at FROM admins WHERE \(email LIKE \? OR first_name LIKE \? OR last_name LIKE \?\) AND role = \? ORDER BY created_at DESC LIMIT \? OFFSET \?`).
					WithArgs("%alice%", "%alice%", "%alice%", "admin", 5, 5).
					WillReturnRows(rows)
			},
			expectedCount: 1,
			expectedTotal: 6,
		},
		{
			name: "count query error",
			filter: models.AdminListFilter{
				ListParams: models.ListParams{Page: 1, Limit: 10},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAdminTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			admins, total, err := repo.List(context.Background(), tt.filter)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, admins, tt.expectedCount)
				assert.Equal(t, tt.expectedTotal, total)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_Update(t *testing.T) {
	firstName := "Updated"
	active := false

	tests := []struct {
		name          string
		id            int
		req           *models.UpdateAdminRequest
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success - partial update",
			id:   1,
			req:  &models.UpdateAdminRequest{FirstName: &firstName, IsActive: &active},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE admins SET first_name = \?, is_active = \? WHERE id = \?`).
					WithArgs("Updated", false, 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:      "no fields to update",
			id:        1,
			req:       &models.UpdateAdminRequest{},
			setupMock: func(mock sqlmock.Sqlmock) {},
		},
		{
			name: "admin not found",
			id:   999,
			req:  &models.UpdateAdminRequest{FirstName: &firstName},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE admins SET first_name = \? WHERE id = \?`).
					WithArgs("Updated", 999).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAdminTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Update(context.Background(), tt.id, tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_RecordLogin(t *testing.T) {
	repo, mock, cleanup := setupAdminTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE admins SET last_login = NOW\(\), login_count = login_count \+ 1 WHERE id = \?`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordLogin(context.Background(), 7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		id            int
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM admins WHERE id = \?`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "admin not found",
			id:   999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM admins WHERE id = \?`).
					WithArgs(999).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupAdminTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Delete(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_Stats(t *testing.T) {
	repo, mock, cleanup := setupAdminTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"total", "active", "inactive", "super_admins", "admins", "moderators", "content_managers", "recent",
	}).AddRow(10, 8, 2, 1, 4, 3, 2, 5)
	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(is_active = 1\), 0\)`).
		WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())

	assert.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 10, stats.TotalAdmins)
	assert.Equal(t, 8, stats.ActiveAdmins)
	assert.Equal(t, 1, stats.RoleDistribution.SuperAdmins)
	assert.Equal(t, 5, stats.RecentLogins)
	assert.NoError(t, mock.ExpectationsWereMet())
}
