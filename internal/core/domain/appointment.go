package domain

import "time"

// Appointment links one doctor and one patient at a scheduled instant.
// The (DoctorID, ScheduledAt) pair is unique across the ledger.
type Appointment struct {
	ID          string    `json:"id"`
	DoctorID    string    `json:"doctor"`
	PatientID   string    `json:"patient"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidateParticipants enforces the participant-role invariant. It is called
// on every save (create and update), never only at the request boundary, so
// programmatic misuse cannot persist a mis-roled appointment.
func (a *Appointment) ValidateParticipants(doctor, patient *User) error {
	if doctor == nil || doctor.Role != RoleDoctor {
		return ErrNotADoctor
	}
	if patient == nil || patient.Role != RolePatient {
		return ErrNotAPatient
	}
	return nil
}

// Day returns the UTC calendar date of the scheduled instant, the grouping
// key used by the summary report.
func (a *Appointment) Day() string {
	return a.ScheduledAt.UTC().Format("2006-01-02")
}
