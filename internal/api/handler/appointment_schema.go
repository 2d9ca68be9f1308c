package handler

import (
	"time"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

type createAppointmentRequest struct {
	Doctor      string    `json:"doctor"       validate:"required"`
	Patient     string    `json:"patient"      validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

// updateAppointmentRequest is a partial update; absent fields stay untouched.
type updateAppointmentRequest struct {
	Doctor      *string    `json:"doctor"`
	Patient     *string    `json:"patient"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// appointmentResponse is the wire representation of a ledger record,
// including an absolute self-link.
type appointmentResponse struct {
	ID          string    `json:"id"`
	Doctor      string    `json:"doctor"`
	Patient     string    `json:"patient"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	URL         string    `json:"url"`
}

type summaryRowResponse struct {
	Date            string   `json:"date"`
	Count           int      `json:"count"`
	AppointmentURLs []string `json:"appointments_url"`
}

func toAppointmentResponse(a *domain.Appointment, baseURL string) appointmentResponse {
	return appointmentResponse{
		ID:          a.ID,
		Doctor:      a.DoctorID,
		Patient:     a.PatientID,
		ScheduledAt: a.ScheduledAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		URL:         appointmentURL(baseURL, a.ID),
	}
}

func appointmentURL(baseURL, id string) string {
	return baseURL + "/appointments/" + id
}
