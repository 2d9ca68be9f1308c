package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrPatientLoginBarred = errors.New("patients are not allowed to authenticate")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrUserNotFound      = errors.New("user not found")
	ErrMissingUserField  = errors.New("username, email and password are required")
	ErrUserExists        = errors.New("username already taken")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidRoleFilter = errors.New("role filter must be doctor or patient")

	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotConflict        = errors.New("doctor already has an appointment at this time")
	ErrNotADoctor          = errors.New("assigned doctor is not a doctor")
	ErrNotAPatient         = errors.New("assigned patient is not a patient")

	ErrMissingStartDate = errors.New("start_date is required")
	ErrInvalidDateRange = errors.New("end_date must not be before start_date")

	ErrTokenNotFound = errors.New("token not found")
)
