package models

import (
	"database/sql/driver"
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// AppointmentStatuses lists every valid appointment status.
var AppointmentStatuses = []string{
	string(AppointmentPending), string(AppointmentConfirmed),
	string(AppointmentCancelled), string(AppointmentCompleted),
	string(AppointmentNoShow),
}

// PaymentStatus is the payment state of an appointment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// PaymentStatuses lists every valid payment status.
var PaymentStatuses = []string{
	string(PaymentPending), string(PaymentPaid),
	string(PaymentRefunded), string(PaymentFailed),
}

// AppointmentNotes holds the free-text notes attached by each party.
type AppointmentNotes struct {
	User   string `json:"user,omitempty"`
	Expert string `json:"expert,omitempty"`
	Admin  string `json:"admin,omitempty"`
}

// Value implements driver.Valuer.
func (n AppointmentNotes) Value() (driver.Value, error) { return jsonValue(n) }

// Scan implements sql.Scanner.
func (n *AppointmentNotes) Scan(src any) error { return jsonScan(n, src) }

// Cancellation records why and by whom an appointment was cancelled.
type Cancellation struct {
	Reason       string    `json:"reason"`
	CancelledBy  string    `json:"cancelledBy"`
	CancelledAt  time.Time `json:"cancelledAt"`
	RefundAmount float64   `json:"refundAmount"`
	RefundStatus string    `json:"refundStatus"`
}

// Reschedule records a date/time move, keeping the original slot.
type Reschedule struct {
	OriginalDate time.Time `json:"originalDate"`
	OriginalTime string    `json:"originalTime"`
	NewDate      time.Time `json:"newDate"`
	NewTime      string    `json:"newTime"`
	Reason       string    `json:"reason"`
	RequestedBy  string    `json:"requestedBy"`
	RequestedAt  time.Time `json:"requestedAt"`
	ApprovedAt   time.Time `json:"approvedAt"`
	ApprovedBy   int       `json:"approvedBy"`
}

// UserRef is the projection embedded when a user reference is populated.
type UserRef struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Appointment is a booked slot between a user and an expert for a session.
type Appointment struct {
	ID              int               `json:"id"`
	UserID          int               `json:"userId"`
	User            *UserRef          `json:"user,omitempty"`
	ExpertID        int               `json:"expertId"`
	Expert          *ExpertRef        `json:"expert,omitempty"`
	SessionID       int               `json:"sessionId"`
	Session         *SessionRef       `json:"session,omitempty"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Duration        int               `json:"duration"`
	Type            string            `json:"type"`
	Status          AppointmentStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	Amount          float64           `json:"amount"`
	Currency        string            `json:"currency"`
	PaymentMethod   string            `json:"paymentMethod,omitempty"`
	PaymentID       string            `json:"paymentId,omitempty"`
	Notes           AppointmentNotes  `json:"notes"`
	MeetingLink     string            `json:"meetingLink,omitempty"`
	Location        string            `json:"location,omitempty"`
	Cancellation    *Cancellation     `json:"cancellation,omitempty"`
	Reschedule      *Reschedule       `json:"reschedule,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// AppointmentListFilter narrows an appointment list query.
type AppointmentListFilter struct {
	ListParams
	Status        string
	PaymentStatus string
	ExpertID      int
	UserID        int
	DateFrom      *time.Time
	DateTo        *time.Time
}

// MonthBucket is one row of the monthly appointment aggregate.
type MonthBucket struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// AppointmentStats is the aggregate payload of the appointment stats endpoint.
type AppointmentStats struct {
	TotalAppointments     int           `json:"totalAppointments"`
	PendingAppointments   int           `json:"pendingAppointments"`
	ConfirmedAppointments int           `json:"confirmedAppointments"`
	CompletedAppointments int           `json:"completedAppointments"`
	CancelledAppointments int           `json:"cancelledAppointments"`
	StatusDistribution    []CountBucket `json:"statusDistribution"`
	PaymentDistribution   []CountBucket `json:"paymentDistribution"`
	MonthlyStats          []MonthBucket `json:"monthlyStats"`
}
