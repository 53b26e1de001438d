package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clinicflow/appointments/internal/application/services"
	"github.com/clinicflow/appointments/internal/domain/entities"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

func atHour(hour int) time.Time {
	return time.Date(2026, time.March, 10, hour, 30, 0, 0, time.UTC)
}

func TestSchedulingValidator_Validate(t *testing.T) {
	doctor := &entities.Doctor{ID: 1, Name: "Garcia", Specialty: "Cardiology"}
	patient := &entities.User{ID: 2, Name: "John Doe", Email: "john@example.com", Role: entities.UserRolePatient}

	t.Run("passes and returns the resolved parties", func(t *testing.T) {
		doctorRepo := new(MockDoctorRepository)
		userRepo := new(MockUserRepository)
		doctorRepo.On("GetByID", mock.Anything, int64(1)).Return(doctor, nil)
		userRepo.On("GetByID", mock.Anything, int64(2)).Return(patient, nil)
		validator := services.NewSchedulingValidator(doctorRepo, userRepo)

		d, p, err := validator.Validate(context.Background(), 1, 2, atHour(10), "Cardiology")

		assert.NoError(t, err)
		assert.Equal(t, doctor, d)
		assert.Equal(t, patient, p)
	})

	t.Run("fails when doctor does not exist", func(t *testing.T) {
		doctorRepo := new(MockDoctorRepository)
		userRepo := new(MockUserRepository)
		doctorRepo.On("GetByID", mock.Anything, int64(1)).Return(nil, apperrors.NewNotFoundError("doctor not found"))
		validator := services.NewSchedulingValidator(doctorRepo, userRepo)

		_, _, err := validator.Validate(context.Background(), 1, 2, atHour(10), "")

		assert.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		userRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("fails when patient does not exist", func(t *testing.T) {
		doctorRepo := new(MockDoctorRepository)
		userRepo := new(MockUserRepository)
		doctorRepo.On("GetByID", mock.Anything, int64(1)).Return(doctor, nil)
		userRepo.On("GetByID", mock.Anything, int64(2)).Return(nil, apperrors.NewNotFoundError("user not found"))
		validator := services.NewSchedulingValidator(doctorRepo, userRepo)

		_, _, err := validator.Validate(context.Background(), 1, 2, atHour(10), "")

		assert.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		assert.Contains(t, err.Error(), "patient not found")
	})

	t.Run("matches specialty case-insensitively", func(t *testing.T) {
		doctorRepo := new(MockDoctorRepository)
		userRepo := new(MockUserRepository)
		doctorRepo.On("GetByID", mock.Anything, int64(1)).Return(doctor, nil)
		userRepo.On("GetByID", mock.Anything, int64(2)).Return(patient, nil)
		validator := services.NewSchedulingValidator(doctorRepo, userRepo)

		_, _, err := validator.Validate(context.Background(), 1, 2, atHour(10), "cardiology")

		assert.NoError(t, err)
	})

	t.Run("rejects a mismatched specialty", func(t *testing.T) {
		doctorRepo := new(MockDoctorRepository)
		userRepo := new(MockUserRepository)
		doctorRepo.On("GetByID", mock.Anything, int64(1)).Return(doctor, nil)
		userRepo.On("GetByID", mock.Anything, int64(2)).Return(patient, nil)
		validator := services.NewSchedulingValidator(doctorRepo, userRepo)

		_, _, err := validator.Validate(context.Background(), 1, 2, atHour(10), "Dermatology")

		assert.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("skips the specialty check when none is requested", func(t *testing.T) {
		doctorRepo := new(MockDoctorRepository)
		userRepo := new(MockUserRepository)
		doctorRepo.On("GetByID", mock.Anything, int64(1)).Return(doctor, nil)
		userRepo.On("GetByID", mock.Anything, int64(2)).Return(patient, nil)
		validator := services.NewSchedulingValidator(doctorRepo, userRepo)

		_, _, err := validator.Validate(context.Background(), 1, 2, atHour(10), "  ")

		assert.NoError(t, err)
	})

	t.Run("enforces clinic hours at the boundaries", func(t *testing.T) {
		cases := []struct {
			hour int
			ok   bool
		}{
			{8, false},
			{9, true},
			{17, true},
			{18, false},
		}

		for _, tc := range cases {
			doctorRepo := new(MockDoctorRepository)
			userRepo := new(MockUserRepository)
			doctorRepo.On("GetByID", mock.Anything, int64(1)).Return(doctor, nil)
			userRepo.On("GetByID", mock.Anything, int64(2)).Return(patient, nil)
			validator := services.NewSchedulingValidator(doctorRepo, userRepo)

			_, _, err := validator.Validate(context.Background(), 1, 2, atHour(tc.hour), "")

			if tc.ok {
				assert.NoError(t, err, "hour %d should be bookable", tc.hour)
			} else {
				assert.Error(t, err, "hour %d should be rejected", tc.hour)
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			}
		}
	})
}
