package ports

import (
	"context"
	"time"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

// CreateAppointmentInput carries the fields needed to book a slot.
type CreateAppointmentInput struct {
	DoctorID    string
	PatientID   string
	ScheduledAt time.Time
}

// UpdateAppointmentInput carries a partial update; nil fields are left
// untouched. Any change re-validates participant roles and slot uniqueness.
type UpdateAppointmentInput struct {
	DoctorID    *string
	PatientID   *string
	ScheduledAt *time.Time
}

// SummaryInput carries the summary query parameters. StartDate is required;
// EndDate is optional and inclusive; DoctorName matches doctor usernames
// case-insensitively as a substring.
type SummaryInput struct {
	StartDate  time.Time
	EndDate    *time.Time
	DoctorName string
}

// SummaryRow is one output row of the report: all appointments sharing a
// calendar date.
type SummaryRow struct {
	Date           string
	Count          int
	AppointmentIDs []string
}

// AppointmentService defines ledger use-cases. Mutations are admin-only at
// the boundary; read operations are scoped by the caller's role here as
// well, so a bypassed boundary still cannot leak another doctor's rows.
type AppointmentService interface {
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
	// Get returns an appointment if the caller is an admin or the assigned
	// doctor; everyone else is denied.
	Get(ctx context.Context, id string, caller domain.Caller) (*domain.Appointment, error)
	// List returns all appointments for admins, the caller's own for
	// doctors, and a denial for anyone else.
	List(ctx context.Context, caller domain.Caller) ([]*domain.Appointment, error)
	Update(ctx context.Context, id string, input UpdateAppointmentInput) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	// Summarize groups appointments in the date range by calendar date,
	// ascending, validating the range before touching the store.
	Summarize(ctx context.Context, input SummaryInput) ([]SummaryRow, error)
}
