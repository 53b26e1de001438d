package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCheckedIn AppointmentStatus = "CHECKED_IN"
)

// Valid reports whether the status is one of the known states
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCheckedIn:
		return true
	}
	return false
}

// Terminal reports whether the status ends the normal lifecycle.
// Explicit edits may still move an appointment out of a terminal state.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCheckedIn
}

// Appointment represents a scheduled appointment between a doctor and a patient
type Appointment struct {
	ID             int64             `json:"id" db:"id"`
	DoctorID       int64             `json:"doctor_id" db:"doctor_id"`
	PatientID      int64             `json:"patient_id" db:"patient_id"`
	ScheduledAt    time.Time         `json:"scheduled_at" db:"scheduled_at"`
	Status         AppointmentStatus `json:"status" db:"status"`
	CheckInToken   string            `json:"check_in_token" db:"check_in_token"`
	CheckInURL     string            `json:"check_in_url" db:"check_in_url"`
	Notes          string            `json:"notes" db:"notes"`
	LastRemindedAt *time.Time        `json:"last_reminded_at,omitempty" db:"last_reminded_at"`
	Version        int64             `json:"version" db:"version"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}
