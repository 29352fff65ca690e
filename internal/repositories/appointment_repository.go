package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

var appointmentSortColumns = map[string]string{
	"createdAt":       "ap.created_at",
	"appointmentDate": "ap.appointment_date",
	"status":          "ap.status",
	"paymentStatus":   "ap.payment_status",
	"amount":          "ap.amount",
}

// appointmentRepository implements appointment persistence
type appointmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *sql.DB, logger *zap.Logger) *appointmentRepository {
	return &appointmentRepository{
		db:     db,
		logger: logger,
	}
}

const appointmentColumns = `ap.id, ap.user_id, ap.expert_id, ap.session_id, ap.appointment_date, ap.start_time, ap.end_time, ap.duration, ap.type, ap.status, ap.payment_status, ap.amount, ap.currency, ap.payment_method, ap.payment_id, ap.notes, ap.meeting_link, ap.location, ap.cancellation, ap.reschedule, ap.created_at, ap.updated_at`

const appointmentJoins = `
	LEFT JOIN users u ON u.id = ap.user_id
	LEFT JOIN experts ex ON ex.id = ap.expert_id
	LEFT JOIN sessions s ON s.id = ap.session_id
`

const appointmentRefColumns = `u.id, u.first_name, u.last_name, u.email, ex.id, ex.first_name, ex.last_name, ex.profile_image, s.id, s.title, s.type, s.category`

// nullableJSON wraps an optional JSON column; a NULL row leaves the
// target pointer nil
type nullableJSON[T any] struct {
	target **T
}

func (n nullableJSON[T]) Scan(src any) error {
	var data []byte
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported JSON column source type %T", src)
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	value := new(T)
	if err := json.Unmarshal(data, value); err != nil {
		return err
	}
	*n.target = value
	return nil
}

// jsonOrNull marshals an optional JSON column; nil stores NULL
func jsonOrNull(v any) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON column: %w", err)
	}
	return string(b), nil
}

func scanAppointment(row interface{ Scan(...any) error }) (*models.Appointment, error) {
	ap := &models.Appointment{}
	var paymentMethod, paymentID, meetingLink, location sql.NullString
	var userID, expertID, sessionID sql.NullInt64
	var userFirst, userLast, userEmail sql.NullString
	var expFirst, expLast, expImage sql.NullString
	var sesTitle, sesType, sesCategory sql.NullString
	err := row.Scan(
		&ap.ID,
		&ap.UserID,
		&ap.ExpertID,
		&ap.SessionID,
		&ap.AppointmentDate,
		&ap.StartTime,
		&ap.EndTime,
		&ap.Duration,
		&ap.Type,
		&ap.Status,
		&ap.PaymentStatus,
		&ap.Amount,
		&ap.Currency,
		&paymentMethod,
		&paymentID,
		&ap.Notes,
		&meetingLink,
		&location,
		nullableJSON[models.Cancellation]{&ap.Cancellation},
		nullableJSON[models.Reschedule]{&ap.Reschedule},
		&ap.CreatedAt,
		&ap.UpdatedAt,
		&userID,
		&userFirst,
		&userLast,
		&userEmail,
		&expertID,
		&expFirst,
		&expLast,
		&expImage,
		&sessionID,
		&sesTitle,
		&sesType,
		&sesCategory,
	)
	if err != nil {
		return nil, err
	}
	if paymentMethod.Valid {
		ap.PaymentMethod = paymentMethod.String
	}
	if paymentID.Valid {
		ap.PaymentID = paymentID.String
	}
	if meetingLink.Valid {
		ap.MeetingLink = meetingLink.String
	}
	if location.Valid {
		ap.Location = location.String
	}
	if userID.Valid {
		ap.User = &models.UserRef{
			ID:        int(userID.Int64),
			FirstName: userFirst.String,
			LastName:  userLast.String,
			Email:     userEmail.String,
		}
	}
	if expertID.Valid {
		ap.Expert = &models.ExpertRef{
			ID:           int(expertID.Int64),
			FirstName:    expFirst.String,
			LastName:     expLast.String,
			ProfileImage: expImage.String,
		}
	}
	if sessionID.Valid {
		ap.Session = &models.SessionRef{
			ID:       int(sessionID.Int64),
			Title:    sesTitle.String,
			Type:     sesType.String,
			Category: sesCategory.String,
		}
	}
	return ap, nil
}

// Create inserts a new appointment
func (r *appointmentRepository) Create(ctx context.Context, ap *models.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, expert_id, session_id, appointment_date, start_time, end_time, duration, type, status, payment_status, amount, currency, payment_method, payment_id, notes, meeting_link, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		ap.UserID,
		ap.ExpertID,
		ap.SessionID,
		ap.AppointmentDate,
		ap.StartTime,
		ap.EndTime,
		ap.Duration,
		ap.Type,
		ap.Status,
		ap.PaymentStatus,
		ap.Amount,
		ap.Currency,
		ap.PaymentMethod,
		ap.PaymentID,
		ap.Notes,
		ap.MeetingLink,
		ap.Location,
	)
	if err != nil {
		r.logger.Error("failed to create appointment", zap.Error(err))
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	ap.ID = int(id)
	return nil
}

// GetByID retrieves an appointment with its user, expert and session
// projections
func (r *appointmentRepository) GetByID(ctx context.Context, id int) (*models.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM appointments ap
		%s
		WHERE ap.id = ?
		LIMIT 1
	`, appointmentColumns, appointmentRefColumns, appointmentJoins)

	ap, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get appointment by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get appointment by id: %w", err)
	}

	return ap, nil
}

// List retrieves a page of appointments plus the total count
func (r *appointmentRepository) List(ctx context.Context, filter models.AppointmentListFilter) ([]models.Appointment, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, `(u.email LIKE ? OR u.first_name LIKE ? OR u.last_name LIKE ?)`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		conditions = append(conditions, `ap.status = ?`)
		args = append(args, filter.Status)
	}
	if filter.PaymentStatus != "" {
		conditions = append(conditions, `ap.payment_status = ?`)
		args = append(args, filter.PaymentStatus)
	}
	if filter.ExpertID != 0 {
		conditions = append(conditions, `ap.expert_id = ?`)
		args = append(args, filter.ExpertID)
	}
	if filter.UserID != 0 {
		conditions = append(conditions, `ap.user_id = ?`)
		args = append(args, filter.UserID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, `ap.appointment_date >= ?`)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, `ap.appointment_date <= ?`)
		args = append(args, *filter.DateTo)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM appointments ap
		%s
		%s
	`, appointmentJoins, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM appointments ap
		%s
		%s
		%s
		LIMIT ? OFFSET ?
	`, appointmentColumns, appointmentRefColumns, appointmentJoins, whereClause,
		orderClause(filter.SortBy, filter.SortOrder, appointmentSortColumns, "ap.appointment_date"))

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []models.Appointment
	for rows.Next() {
		ap, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, *ap)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return appointments, total, nil
}

// UpdateStatus changes the lifecycle status and optionally the admin note
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int, status models.AppointmentStatus, notes *models.AppointmentNotes) error {
	var query string
	var args []any

	if notes != nil {
		query = `UPDATE appointments SET status = ?, notes = ? WHERE id = ?`
		args = []any{status, *notes, id}
	} else {
		query = `UPDATE appointments SET status = ? WHERE id = ?`
		args = []any{status, id}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
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

// UpdatePayment changes the payment state and optionally the method and
// provider reference
func (r *appointmentRepository) UpdatePayment(ctx context.Context, id int, status models.PaymentStatus, method, paymentID string) error {
	var setParts []string
	var args []any

	setParts = append(setParts, "payment_status = ?")
	args = append(args, status)
	if method != "" {
		setParts = append(setParts, "payment_method = ?")
		args = append(args, method)
	}
	if paymentID != "" {
		setParts = append(setParts, "payment_id = ?")
		args = append(args, paymentID)
	}

	query := fmt.Sprintf(`UPDATE appointments SET %s WHERE id = ?`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update appointment payment: %w", err)
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

// Cancel stores the cancellation block and moves the appointment to
// cancelled
func (r *appointmentRepository) Cancel(ctx context.Context, id int, cancellation *models.Cancellation) error {
	payload, err := jsonOrNull(cancellation)
	if err != nil {
		return err
	}

	query := `UPDATE appointments SET status = 'cancelled', cancellation = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, payload, id)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
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

// Reschedule stores the reschedule block and moves the slot to the new
// date and time
func (r *appointmentRepository) Reschedule(ctx context.Context, id int, reschedule *models.Reschedule) error {
	payload, err := jsonOrNull(reschedule)
	if err != nil {
		return err
	}

	query := `
		UPDATE appointments
		SET appointment_date = ?, start_time = ?, reschedule = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, reschedule.NewDate, reschedule.NewTime, payload, id)
	if err != nil {
		return fmt.Errorf("failed to reschedule appointment: %w", err)
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

// Delete removes an appointment by id
func (r *appointmentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM appointments WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
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

// Stats aggregates appointment counts, status and payment distributions
// and the appointment volume per month over the last year
func (r *appointmentRepository) Stats(ctx context.Context) (*models.AppointmentStats, error) {
	countsQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(status = 'pending'), 0),
			COALESCE(SUM(status = 'confirmed'), 0),
			COALESCE(SUM(status = 'completed'), 0),
			COALESCE(SUM(status = 'cancelled'), 0)
		FROM appointments
	`

	stats := &models.AppointmentStats{}
	err := r.db.QueryRowContext(ctx, countsQuery).Scan(
		&stats.TotalAppointments,
		&stats.PendingAppointments,
		&stats.ConfirmedAppointments,
		&stats.CompletedAppointments,
		&stats.CancelledAppointments,
	)
	if err != nil {
		r.logger.Error("failed to get appointment stats", zap.Error(err))
		return nil, fmt.Errorf("failed to get appointment stats: %w", err)
	}

	stats.StatusDistribution, err = r.groupedCounts(ctx, "status")
	if err != nil {
		return nil, err
	}

	stats.PaymentDistribution, err = r.groupedCounts(ctx, "payment_status")
	if err != nil {
		return nil, err
	}

	monthlyQuery := `
		SELECT YEAR(appointment_date), MONTH(appointment_date), COUNT(*)
		FROM appointments
		WHERE appointment_date >= DATE_SUB(NOW(), INTERVAL 12 MONTH)
		GROUP BY YEAR(appointment_date), MONTH(appointment_date)
		ORDER BY YEAR(appointment_date), MONTH(appointment_date)
	`

	rows, err := r.db.QueryContext(ctx, monthlyQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly appointment stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket models.MonthBucket
		if err := rows.Scan(&bucket.Year, &bucket.Month, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly bucket: %w", err)
		}
		stats.MonthlyStats = append(stats.MonthlyStats, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}

// groupedCounts counts appointments grouped by the given enum column
func (r *appointmentRepository) groupedCounts(ctx context.Context, column string) ([]models.CountBucket, error) {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM appointments GROUP BY %s ORDER BY COUNT(*) DESC`, column, column)

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
