package repositories

import (
	"context"
	"time"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create persists a new appointment and assigns its ID
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id int64) (*entities.Appointment, error)

	// GetByCheckInToken retrieves an appointment by its check-in token
	GetByCheckInToken(ctx context.Context, token string) (*entities.Appointment, error)

	// Update saves an appointment with a compare-and-swap on its version.
	// A concurrent modification surfaces as a conflict error.
	Update(ctx context.Context, appointment *entities.Appointment) error

	// Delete removes an appointment
	Delete(ctx context.Context, id int64) error

	// ListAll retrieves every appointment
	ListAll(ctx context.Context) ([]*entities.Appointment, error)

	// ListByPatient retrieves appointments for a patient
	ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error)

	// ListByDoctor retrieves appointments for a doctor
	ListByDoctor(ctx context.Context, doctorID int64) ([]*entities.Appointment, error)

	// ListByDoctorAndRange retrieves a doctor's appointments scheduled within [start, end]
	ListByDoctorAndRange(ctx context.Context, doctorID int64, start, end time.Time) ([]*entities.Appointment, error)

	// ListConfirmedBetween retrieves confirmed appointments scheduled strictly
	// between from and to, used by the reminder sweep
	ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]*entities.Appointment, error)
}
