package services

import (
	"context"
	"strings"
	"time"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

// Clinic hours: bookings are accepted for hours in [9, 18)
const (
	clinicOpenHour  = 9
	clinicCloseHour = 18
)

// SchedulingValidator enforces booking preconditions. It performs pure
// checks against the identity collaborators and has no side effects.
type SchedulingValidator struct {
	doctorRepo repositories.DoctorRepository
	userRepo   repositories.UserRepository
}

// NewSchedulingValidator creates a new scheduling validator
func NewSchedulingValidator(doctorRepo repositories.DoctorRepository, userRepo repositories.UserRepository) *SchedulingValidator {
	return &SchedulingValidator{
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
	}
}

// Validate checks, in order: the doctor exists, the patient exists, the
// requested specialty (when supplied) matches the doctor's case-insensitively,
// and the scheduled hour falls inside clinic hours. On success it returns
// the resolved doctor and patient for the caller to reuse.
func (v *SchedulingValidator) Validate(ctx context.Context, doctorID, patientID int64, scheduledAt time.Time, specialty string) (*entities.Doctor, *entities.User, error) {
	doctor, err := v.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, nil, apperrors.NewNotFoundError("doctor not found")
		}
		return nil, nil, err
	}

	patient, err := v.userRepo.GetByID(ctx, patientID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, nil, apperrors.NewNotFoundError("patient not found")
		}
		return nil, nil, err
	}

	requested := strings.TrimSpace(specialty)
	if requested != "" && !strings.EqualFold(requested, doctor.Specialty) {
		return nil, nil, apperrors.NewValidationError("specialty does not match the doctor's")
	}

	hour := scheduledAt.Hour()
	if hour < clinicOpenHour || hour >= clinicCloseHour {
		return nil, nil, apperrors.NewValidationError("appointments can only be scheduled between 09:00 and 18:00")
	}

	return doctor, patient, nil
}
