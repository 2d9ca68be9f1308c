package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
)

// AppointmentService implements ledger use-cases. Participant roles are
// re-validated on every save; slot uniqueness is enforced by the repository's
// unique index, so a concurrent double-booking loses with ErrSlotConflict.
type AppointmentService struct {
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	logger       zerolog.Logger
}

func NewAppointmentService(appointments ports.AppointmentRepository, users ports.UserRepository, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{appointments: appointments, users: users, logger: logger}
}

func (s *AppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	now := time.Now().UTC()
	appt := &domain.Appointment{
		DoctorID:    input.DoctorID,
		PatientID:   input.PatientID,
		ScheduledAt: input.ScheduledAt.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.validateParticipants(ctx, appt); err != nil {
		return nil, err
	}

	created, err := s.appointments.Create(ctx, appt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("doctor_id", created.DoctorID).
		Str("patient_id", created.PatientID).
		Time("scheduled_at", created.ScheduledAt).
		Msg("appointment booked")
	return created, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string, caller domain.Caller) (*domain.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
		return appt, nil
	case domain.RoleDoctor:
		if appt.DoctorID == caller.ID {
			return appt, nil
		}
		return nil, domain.ErrPermissionDenied
	default:
		return nil, domain.ErrPermissionDenied
	}
}

func (s *AppointmentService) List(ctx context.Context, caller domain.Caller) ([]*domain.Appointment, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		return s.appointments.ListAll(ctx)
	case domain.RoleDoctor:
		return s.appointments.ListByDoctor(ctx, caller.ID)
	default:
		return nil, domain.ErrPermissionDenied
	}
}

func (s *AppointmentService) Update(ctx context.Context, id string, input ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DoctorID != nil {
		appt.DoctorID = *input.DoctorID
	}
	if input.PatientID != nil {
		appt.PatientID = *input.PatientID
	}
	if input.ScheduledAt != nil {
		appt.ScheduledAt = input.ScheduledAt.UTC()
	}
	appt.UpdatedAt = time.Now().UTC()

	if err := s.validateParticipants(ctx, appt); err != nil {
		return nil, err
	}

	updated, err := s.appointments.Update(ctx, appt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", updated.ID).Msg("appointment updated")
	return updated, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("appointment deleted")
	return nil
}

// validateParticipants resolves both participants and checks their roles.
// Runs unconditionally on every save path.
func (s *AppointmentService) validateParticipants(ctx context.Context, appt *domain.Appointment) error {
	doctor, err := s.users.FindByID(ctx, appt.DoctorID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.ErrNotADoctor
		}
		return err
	}
	patient, err := s.users.FindByID(ctx, appt.PatientID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.ErrNotAPatient
		}
		return err
	}
	return appt.ValidateParticipants(doctor, patient)
}

func (s *AppointmentService) Summarize(ctx context.Context, input ports.SummaryInput) ([]ports.SummaryRow, error) {
	if input.StartDate.IsZero() {
		return nil, domain.ErrMissingStartDate
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	filter := ports.RangeFilter{From: startOfDay(input.StartDate)}
	if input.EndDate != nil {
		// End date is inclusive: the range runs to the start of the next day.
		to := startOfDay(*input.EndDate).AddDate(0, 0, 1)
		filter.To = &to
	}

	if input.DoctorName != "" {
		doctors, err := s.users.SearchDoctors(ctx, input.DoctorName)
		if err != nil {
			return nil, err
		}
		if len(doctors) == 0 {
			return []ports.SummaryRow{}, nil
		}
		ids := make([]string, 0, len(doctors))
		for _, d := range doctors {
			ids = append(ids, d.ID)
		}
		filter.DoctorIDs = ids
	}

	appts, err := s.appointments.ListInRange(ctx, filter)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]string)
	for _, a := range appts {
		day := a.Day()
		byDay[day] = append(byDay[day], a.ID)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]ports.SummaryRow, 0, len(days))
	for _, day := range days {
		ids := byDay[day]
		rows = append(rows, ports.SummaryRow{Date: day, Count: len(ids), AppointmentIDs: ids})
	}
	return rows, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
