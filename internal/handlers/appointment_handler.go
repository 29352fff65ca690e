package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/models"
	"github.com/innerdreams/admin-backend/internal/validation"
)

// AppointmentService is the interface that wraps appointment oversight
type AppointmentService interface {
	List(ctx context.Context, filter models.AppointmentListFilter) ([]models.Appointment, int, error)
	Get(ctx context.Context, id int) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id int, status models.AppointmentStatus, adminNote string) (*models.Appointment, error)
	UpdatePayment(ctx context.Context, id int, status models.PaymentStatus, method, paymentID string) (*models.Appointment, error)
	Cancel(ctx context.Context, id int, reason string, refundAmount *float64) (*models.Appointment, error)
	Reschedule(ctx context.Context, id int, newDate time.Time, newTime, reason string, approvedBy int) (*models.Appointment, error)
	Stats(ctx context.Context) (*models.AppointmentStats, error)
}

// AppointmentHandler handles appointment HTTP requests
type AppointmentHandler struct {
	BaseHandler
	appointmentService AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		BaseHandler:        BaseHandler{Logger: logger},
		appointmentService: appointmentService,
	}
}

// RegisterRoutes registers all appointment routes. Appointments are
// booked from the consumer app, so there is no create endpoint.
func (h *AppointmentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/appointments", func(r chi.Router) {
		r.Use(auth.RequirePermission(models.CapAppointments))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Patch("/{id}/payment", h.UpdatePayment)
		r.Patch("/{id}/cancel", h.Cancel)
		r.Patch("/{id}/reschedule", h.Reschedule)
		r.Get("/stats/overview", h.Stats)
	})
}

// List handles GET /appointments
// @Summary List appointments
// @Description Get a paginated appointment list with status, payment, party and date range filters
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param status query string false "Filter by status"
// @Param paymentStatus query string false "Filter by payment status"
// @Param expert query int false "Filter by expert id"
// @Param user query int false "Filter by user id"
// @Param dateFrom query string false "Earliest appointment date (yyyy-mm-dd)"
// @Param dateTo query string false "Latest appointment date (yyyy-mm-dd)"
// @Success 200 {object} response "Appointment list with pagination"
// @Router /appointments [get]
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.AppointmentListFilter{
		ListParams:    parseListParams(r),
		Status:        r.URL.Query().Get("status"),
		PaymentStatus: r.URL.Query().Get("paymentStatus"),
		ExpertID:      queryInt(r, "expert"),
		UserID:        queryInt(r, "user"),
		DateFrom:      queryDate(r, "dateFrom"),
		DateTo:        queryDate(r, "dateTo"),
	}

	appointments, total, err := h.appointmentService.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list appointments", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if appointments == nil {
		appointments = []models.Appointment{}
	}
	h.RespondData(w, http.StatusOK, listPayload("appointments", appointments, filter.ListParams, total))
}

// Get handles GET /appointments/{id}
// @Summary Get an appointment
// @Description Get one appointment with its user, expert and session projections
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} response "Appointment"
// @Failure 404 {object} response "Appointment not found"
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid appointment id")
		return
	}

	appointment, err := h.appointmentService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "Appointment not found")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"appointment": appointment})
}

type appointmentStatusRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"adminNote"`
}

// UpdateStatus handles PATCH /appointments/{id}/status
// @Summary Change appointment status
// @Description Move the appointment to a new status, optionally recording an admin note
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body appointmentStatusRequest true "Status and optional note"
// @Success 200 {object} response "Updated appointment"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "Appointment not found"
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid appointment id")
		return
	}

	var req appointmentStatusRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("status", req.Status)
	v.OneOf("status", req.Status, models.AppointmentStatuses)
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(r.Context(), id,
		models.AppointmentStatus(req.Status), req.AdminNote)
	if err != nil {
		h.RespondServiceError(w, err, "Appointment not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Appointment status updated",
		map[string]any{"appointment": appointment})
}

type appointmentPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentID     string `json:"paymentId"`
}

// UpdatePayment handles PATCH /appointments/{id}/payment
// @Summary Change appointment payment state
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body appointmentPaymentRequest true "Payment status, optional method and provider reference"
// @Success 200 {object} response "Updated appointment"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "Appointment not found"
// @Router /appointments/{id}/payment [patch]
func (h *AppointmentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid appointment id")
		return
	}

	var req appointmentPaymentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("paymentStatus", req.PaymentStatus)
	v.OneOf("paymentStatus", req.PaymentStatus, models.PaymentStatuses)
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	appointment, err := h.appointmentService.UpdatePayment(r.Context(), id,
		models.PaymentStatus(req.PaymentStatus), req.PaymentMethod, req.PaymentID)
	if err != nil {
		h.RespondServiceError(w, err, "Appointment not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Appointment payment updated",
		map[string]any{"appointment": appointment})
}

type appointmentCancelRequest struct {
	Reason       string   `json:"reason"`
	RefundAmount *float64 `json:"refundAmount"`
}

// Cancel handles PATCH /appointments/{id}/cancel
// @Summary Cancel an appointment
// @Description Move to cancelled with a cancellation block. Reason defaults to "Cancelled by admin", refund to the full amount, pending.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body appointmentCancelRequest true "Optional reason and refund amount"
// @Success 200 {object} response "Cancelled appointment"
// @Failure 404 {object} response "Appointment not found"
// @Router /appointments/{id}/cancel [patch]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid appointment id")
		return
	}

	var req appointmentCancelRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if req.RefundAmount != nil && *req.RefundAmount < 0 {
		h.RespondValidation(w, []validation.FieldError{
			{Field: "refundAmount", Message: "refundAmount must be at least 0"},
		})
		return
	}

	appointment, err := h.appointmentService.Cancel(r.Context(), id, req.Reason, req.RefundAmount)
	if err != nil {
		h.RespondServiceError(w, err, "Appointment not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Appointment cancelled",
		map[string]any{"appointment": appointment})
}

type appointmentRescheduleRequest struct {
	NewDate string `json:"newDate"`
	NewTime string `json:"newTime"`
	Reason  string `json:"reason"`
}

// Reschedule handles PATCH /appointments/{id}/reschedule
// @Summary Reschedule an appointment
// @Description Move the appointment to a new slot, keeping the original in the reschedule block. The caller is recorded as approver.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body appointmentRescheduleRequest true "New date (yyyy-mm-dd), new time and optional reason"
// @Success 200 {object} response "Rescheduled appointment"
// @Failure 400 {object} response "Validation failed"
// @Failure 404 {object} response "Appointment not found"
// @Router /appointments/{id}/reschedule [patch]
func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid appointment id")
		return
	}

	var req appointmentRescheduleRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	v := validation.New()
	v.Required("newDate", req.NewDate)
	v.Required("newTime", req.NewTime)
	var newDate time.Time
	if req.NewDate != "" {
		var parseErr error
		if newDate, parseErr = time.Parse("2006-01-02", req.NewDate); parseErr != nil {
			v.Add("newDate", "newDate must be a valid date (yyyy-mm-dd)")
		}
	}
	if !v.Valid() {
		h.RespondValidation(w, v.Errors())
		return
	}

	actor, _ := auth.GetAdmin(r.Context())
	appointment, err := h.appointmentService.Reschedule(r.Context(), id,
		newDate, req.NewTime, req.Reason, actor.ID)
	if err != nil {
		h.RespondServiceError(w, err, "Appointment not found")
		return
	}

	h.RespondMessage(w, http.StatusOK, "Appointment rescheduled",
		map[string]any{"appointment": appointment})
}

// Stats handles GET /appointments/stats/overview
// @Summary Appointment statistics
// @Description Totals, status and payment distributions and last-12-month counts
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response "Aggregates"
// @Router /appointments/stats/overview [get]
func (h *AppointmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.appointmentService.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to load appointment stats", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.RespondData(w, http.StatusOK, stats)
}
