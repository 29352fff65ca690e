package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
)

// AppointmentRepository is the interface that wraps appointment table data access
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentListFilter) ([]models.Appointment, int, error)
	UpdateStatus(ctx context.Context, id int, status models.AppointmentStatus, notes *models.AppointmentNotes) error
	UpdatePayment(ctx context.Context, id int, status models.PaymentStatus, method, paymentID string) error
	Cancel(ctx context.Context, id int, cancellation *models.Cancellation) error
	Reschedule(ctx context.Context, id int, reschedule *models.Reschedule) error
	Stats(ctx context.Context) (*models.AppointmentStats, error)
}

// appointmentService implements appointment oversight. Appointments are
// booked from the consumer app; the back office only inspects and
// moderates them.
type appointmentService struct {
	appointmentRepo AppointmentRepository
	logger          *zap.Logger
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(appointmentRepo AppointmentRepository, logger *zap.Logger) *appointmentService {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// List retrieves a page of appointments
func (s *appointmentService) List(ctx context.Context, filter models.AppointmentListFilter) ([]models.Appointment, int, error) {
	return s.appointmentRepo.List(ctx, filter)
}

// Get retrieves a single appointment with its reference projections
func (s *appointmentService) Get(ctx context.Context, id int) (*models.Appointment, error) {
	return s.appointmentRepo.GetByID(ctx, id)
}

// UpdateStatus moves the appointment to the given status, optionally
// replacing the admin note
func (s *appointmentService) UpdateStatus(ctx context.Context, id int, status models.AppointmentStatus, adminNote string) (*models.Appointment, error) {
	var notes *models.AppointmentNotes
	if adminNote != "" {
		current, err := s.appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		updated := current.Notes
		updated.Admin = adminNote
		notes = &updated
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, status, notes); err != nil {
		return nil, err
	}

	return s.appointmentRepo.GetByID(ctx, id)
}

// UpdatePayment changes the payment state and optionally the method and
// provider reference
func (s *appointmentService) UpdatePayment(ctx context.Context, id int, status models.PaymentStatus, method, paymentID string) (*models.Appointment, error) {
	if err := s.appointmentRepo.UpdatePayment(ctx, id, status, method, paymentID); err != nil {
		return nil, err
	}
	return s.appointmentRepo.GetByID(ctx, id)
}

// Cancel moves the appointment to cancelled, recording who cancelled and
// the refund. The refund defaults to the full amount, pending.
func (s *appointmentService) Cancel(ctx context.Context, id int, reason string, refundAmount *float64) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = "Cancelled by admin"
	}
	refund := appointment.Amount
	if refundAmount != nil {
		refund = *refundAmount
	}

	cancellation := &models.Cancellation{
		Reason:       reason,
		CancelledBy:  "admin",
		CancelledAt:  time.Now(),
		RefundAmount: refund,
		RefundStatus: "pending",
	}

	if err := s.appointmentRepo.Cancel(ctx, id, cancellation); err != nil {
		return nil, err
	}

	return s.appointmentRepo.GetByID(ctx, id)
}

// Reschedule moves the appointment to a new date and time, keeping the
// original slot in the reschedule block
func (s *appointmentService) Reschedule(ctx context.Context, id int, newDate time.Time, newTime, reason string, approvedBy int) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reschedule := &models.Reschedule{
		OriginalDate: appointment.AppointmentDate,
		OriginalTime: appointment.StartTime,
		NewDate:      newDate,
		NewTime:      newTime,
		Reason:       reason,
		RequestedBy:  "admin",
		RequestedAt:  now,
		ApprovedAt:   now,
		ApprovedBy:   approvedBy,
	}

	if err := s.appointmentRepo.Reschedule(ctx, id, reschedule); err != nil {
		return nil, err
	}

	return s.appointmentRepo.GetByID(ctx, id)
}

// Stats aggregates appointment figures
func (s *appointmentService) Stats(ctx context.Context) (*models.AppointmentStats, error) {
	return s.appointmentRepo.Stats(ctx)
}
