package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// mockAppointmentRepository is a mock implementation of AppointmentRepository
type mockAppointmentRepository struct {
	appointment  *models.Appointment
	err          error
	statusNotes  *models.AppointmentNotes
	status       models.AppointmentStatus
	cancellation *models.Cancellation
	reschedule   *models.Reschedule
}

func (m *mockAppointmentRepository) GetByID(ctx context.Context, id int) (*models.Appointment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.appointment, nil
}

func (m *mockAppointmentRepository) List(ctx context.Context, filter models.AppointmentListFilter) ([]models.Appointment, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.Appointment{*m.appointment}, 1, nil
}

func (m *mockAppointmentRepository) UpdateStatus(ctx context.Context, id int, status models.AppointmentStatus, notes *models.AppointmentNotes) error {
	m.status = status
	m.statusNotes = notes
	return m.err
}

func (m *mockAppointmentRepository) UpdatePayment(ctx context.Context, id int, status models.PaymentStatus, method, paymentID string) error {
	return m.err
}

func (m *mockAppointmentRepository) Cancel(ctx context.Context, id int, cancellation *models.Cancellation) error {
	m.cancellation = cancellation
	return m.err
}

func (m *mockAppointmentRepository) Reschedule(ctx context.Context, id int, reschedule *models.Reschedule) error {
	m.reschedule = reschedule
	return m.err
}

func (m *mockAppointmentRepository) Stats(ctx context.Context) (*models.AppointmentStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.AppointmentStats{TotalAppointments: 1}, nil
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("keeps existing notes when adding an admin note", func(t *testing.T) {
		repo := &mockAppointmentRepository{
			appointment: &models.Appointment{
				ID:    1,
				Notes: models.AppointmentNotes{User: "please call", Expert: "first session"},
			},
		}
		svc := NewAppointmentService(repo, logger)

		_, err := svc.UpdateStatus(context.Background(), 1, models.AppointmentCompleted, "resolved dispute")

		require.NoError(t, err)
		assert.Equal(t, models.AppointmentCompleted, repo.status)
		require.NotNil(t, repo.statusNotes)
		assert.Equal(t, "please call", repo.statusNotes.User)
		assert.Equal(t, "first session", repo.statusNotes.Expert)
		assert.Equal(t, "resolved dispute", repo.statusNotes.Admin)
	})

	t.Run("no note leaves notes untouched", func(t *testing.T) {
		repo := &mockAppointmentRepository{appointment: &models.Appointment{ID: 1}}
		svc := NewAppointmentService(repo, logger)

		_, err := svc.UpdateStatus(context.Background(), 1, models.AppointmentConfirmed, "")

		require.NoError(t, err)
		assert.Nil(t, repo.statusNotes)
	})
}

func TestAppointmentService_Cancel(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name           string
		reason         string
		refundAmount   *float64
		expectedReason string
		expectedRefund float64
	}{
		{
			name:           "defaults",
			expectedReason: "Cancelled by admin",
			expectedRefund: 80,
		},
		{
			name:           "explicit reason and partial refund",
			reason:         "expert unavailable",
			refundAmount:   floatPtr(40),
			expectedReason: "expert unavailable",
			expectedRefund: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointmentRepository{
				appointment: &models.Appointment{ID: 1, Amount: 80},
			}
			svc := NewAppointmentService(repo, logger)

			_, err := svc.Cancel(context.Background(), 1, tt.reason, tt.refundAmount)

			require.NoError(t, err)
			require.NotNil(t, repo.cancellation)
			assert.Equal(t, tt.expectedReason, repo.cancellation.Reason)
			assert.Equal(t, "admin", repo.cancellation.CancelledBy)
			assert.Equal(t, tt.expectedRefund, repo.cancellation.RefundAmount)
			assert.Equal(t, "pending", repo.cancellation.RefundStatus)
			assert.WithinDuration(t, time.Now(), repo.cancellation.CancelledAt, time.Second)
		})
	}
}

func TestAppointmentService_Reschedule(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	originalDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockAppointmentRepository{
		appointment: &models.Appointment{
			ID:              1,
			AppointmentDate: originalDate,
			StartTime:       "14:00",
		},
	}
	svc := NewAppointmentService(repo, logger)

	newDate := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	_, err := svc.Reschedule(context.Background(), 1, newDate, "16:30", "expert request", 7)

	require.NoError(t, err)
	require.NotNil(t, repo.reschedule)
	assert.Equal(t, originalDate, repo.reschedule.OriginalDate)
	assert.Equal(t, "14:00", repo.reschedule.OriginalTime)
	assert.Equal(t, newDate, repo.reschedule.NewDate)
	assert.Equal(t, "16:30", repo.reschedule.NewTime)
	assert.Equal(t, "admin", repo.reschedule.RequestedBy)
	assert.Equal(t, 7, repo.reschedule.ApprovedBy)
}

func TestAppointmentService_UpdateStatus_NotFound(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	svc := NewAppointmentService(&mockAppointmentRepository{err: models.ErrNotFound}, logger)

	appointment, err := svc.UpdateStatus(context.Background(), 99, models.AppointmentCompleted, "note")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, appointment)
}

func floatPtr(v float64) *float64 { return &v }
