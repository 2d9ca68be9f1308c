package ports

import (
	"context"
	"time"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

// RangeFilter restricts appointments by scheduled time and, optionally, by a
// set of doctor ids. From is inclusive; To, when non-nil, is exclusive.
type RangeFilter struct {
	From      time.Time
	To        *time.Time
	DoctorIDs []string // nil = any doctor; empty slice = match nothing
}

// AppointmentRepository defines persistence operations for the ledger.
// Implementations must back the (doctor_id, scheduled_at) pair with a
// storage-level uniqueness constraint so that concurrent creates for the
// same slot are serialized by the store, not by the application.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListAll(ctx context.Context) ([]*domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Appointment, error)
	// ListInRange returns appointments matching the filter, ordered by
	// scheduled time ascending.
	ListInRange(ctx context.Context, filter RangeFilter) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}
