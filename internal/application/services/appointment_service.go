package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/observability"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

const appointmentTimeLayout = "Monday, January 2, 2006 at 3:04 PM"

// AppointmentService owns the appointment lifecycle: booking, the status
// state machine, QR check-in resolution, and the notification/audit
// fan-out every mutation triggers. Fan-out failures are logged and never
// fail the primary mutation.
type AppointmentService struct {
	repo          repositories.AppointmentRepository
	doctorRepo    repositories.DoctorRepository
	userRepo      repositories.UserRepository
	validator     *SchedulingValidator
	notifications *NotificationService
	audit         *AuditService
	checkInBase   string
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	doctorRepo repositories.DoctorRepository,
	userRepo repositories.UserRepository,
	validator *SchedulingValidator,
	notifications *NotificationService,
	audit *AuditService,
	checkInBase string,
) *AppointmentService {
	return &AppointmentService{
		repo:          repo,
		doctorRepo:    doctorRepo,
		userRepo:      userRepo,
		validator:     validator,
		notifications: notifications,
		audit:         audit,
		checkInBase:   strings.TrimRight(checkInBase, "/"),
	}
}

// Create books a new appointment. The booking runs through the scheduling
// validator, receives a unique check-in token, and is persisted as
// CONFIRMED before notifications and the audit entry fan out.
func (s *AppointmentService) Create(ctx context.Context, actor string, doctorID, patientID int64, scheduledAt time.Time, specialty, notes string) (*entities.Appointment, error) {
	doctor, patient, err := s.validator.Validate(ctx, doctorID, patientID, scheduledAt, specialty)
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()
	now := time.Now()
	appointment := &entities.Appointment{
		DoctorID:     doctorID,
		PatientID:    patientID,
		ScheduledAt:  scheduledAt,
		Status:       entities.AppointmentStatusConfirmed,
		CheckInToken: token,
		CheckInURL:   fmt.Sprintf("%s/checkin?token=%s", s.checkInBase, token),
		Notes:        notes,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	when := scheduledAt.Format(appointmentTimeLayout)
	s.dispatchToParties(ctx, doctor, patient, entities.NotificationNewAppointment,
		"New appointment scheduled",
		fmt.Sprintf("Your appointment with Dr. %s is scheduled for %s.\nNotes: %s", doctor.Name, when, notesOrDefault(notes)),
		"New appointment assigned",
		fmt.Sprintf("You have a new appointment with %s on %s.\nNotes: %s", patient.Name, when, notesOrDefault(notes)),
	)
	s.audit.Log(ctx, actor, AuditCreateAppointment,
		fmt.Sprintf("created appointment %d for patient %d with doctor %d", appointment.ID, patientID, doctorID))

	return appointment, nil
}

// Cancel transitions an appointment to CANCELLED. Cancelling an already
// cancelled appointment returns a conflict, making repeated cancellation
// attempts explicit rather than silent.
func (s *AppointmentService) Cancel(ctx context.Context, actor string, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if appointment.Status == entities.AppointmentStatusCancelled {
		return apperrors.NewConflictError("appointment is already cancelled")
	}

	appointment.Status = entities.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, appointment); err != nil {
		return err
	}

	doctor, patient, ok := s.loadParties(ctx, appointment)
	if ok {
		when := appointment.ScheduledAt.Format(appointmentTimeLayout)
		s.dispatchToParties(ctx, doctor, patient, entities.NotificationCancellation,
			"Appointment cancelled",
			fmt.Sprintf("Your appointment with Dr. %s on %s has been cancelled.\nNotes: %s", doctor.Name, when, notesOrDefault(appointment.Notes)),
			"Appointment cancelled",
			fmt.Sprintf("The appointment with %s on %s has been cancelled.\nNotes: %s", patient.Name, when, notesOrDefault(appointment.Notes)),
		)
	}
	s.audit.Log(ctx, actor, AuditCancelAppointment, fmt.Sprintf("cancelled appointment %d", id))

	return nil
}

// ApplyEdit applies an explicit edit to an appointment's scheduled time
// and/or status. This path deliberately bypasses the terminal-state rule:
// an edit may move an appointment out of CANCELLED or CHECKED_IN.
func (s *AppointmentService) ApplyEdit(ctx context.Context, actor string, id int64, newTime *time.Time, newStatus *entities.AppointmentStatus) (*entities.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	timeChanged := false
	oldStatus := appointment.Status

	if newStatus != nil {
		if !newStatus.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown appointment status %q", string(*newStatus)))
		}
		appointment.Status = *newStatus
		statusChanged = true
	}
	if newTime != nil {
		appointment.ScheduledAt = *newTime
		timeChanged = true
	}

	if !statusChanged && !timeChanged {
		return appointment, nil
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	doctor, patient, ok := s.loadParties(ctx, appointment)
	when := appointment.ScheduledAt.Format(appointmentTimeLayout)

	if statusChanged {
		if ok {
			s.dispatchToParties(ctx, doctor, patient, entities.NotificationUpdate,
				"Appointment status updated",
				fmt.Sprintf("The status of your appointment with Dr. %s is now %s.\nNotes: %s", doctor.Name, appointment.Status, notesOrDefault(appointment.Notes)),
				"Appointment status updated",
				fmt.Sprintf("The status of the appointment with %s is now %s.\nNotes: %s", patient.Name, appointment.Status, notesOrDefault(appointment.Notes)),
			)
		}
		s.audit.Log(ctx, actor, AuditUpdateAppointmentStatus,
			fmt.Sprintf("appointment %d status changed: %s -> %s", id, oldStatus, appointment.Status))
	}
	// Time-only edits are deliberately not audited; only status changes
	// leave an audit trail.
	if timeChanged && ok {
		s.dispatchToParties(ctx, doctor, patient, entities.NotificationReschedule,
			"Appointment rescheduled",
			fmt.Sprintf("Your appointment with Dr. %s has been rescheduled to %s.\nNotes: %s", doctor.Name, when, notesOrDefault(appointment.Notes)),
			"Appointment rescheduled",
			fmt.Sprintf("The appointment with %s has been rescheduled to %s.\nNotes: %s", patient.Name, when, notesOrDefault(appointment.Notes)),
		)
	}

	return appointment, nil
}

// Delete removes an appointment through the administrative path,
// fanning out removal notifications before the row disappears.
func (s *AppointmentService) Delete(ctx context.Context, actor string, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	doctor, patient, ok := s.loadParties(ctx, appointment)
	if ok {
		when := appointment.ScheduledAt.Format(appointmentTimeLayout)
		s.dispatchToParties(ctx, doctor, patient, entities.NotificationDeletion,
			"Appointment removed",
			fmt.Sprintf("Your appointment with Dr. %s on %s has been removed.\nNotes: %s", doctor.Name, when, notesOrDefault(appointment.Notes)),
			"Appointment removed",
			fmt.Sprintf("The appointment with %s on %s has been removed.\nNotes: %s", patient.Name, when, notesOrDefault(appointment.Notes)),
		)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, actor, AuditDeleteAppointment, fmt.Sprintf("deleted appointment %d", id))
	return nil
}

// CheckInByToken resolves a check-in token to its appointment and marks
// it CHECKED_IN. Resolution is idempotent: a token whose appointment is
// already checked in returns the record unchanged with no side effects.
func (s *AppointmentService) CheckInByToken(ctx context.Context, token string) (*entities.Appointment, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewNotFoundError("check-in token is missing or invalid")
	}

	appointment, err := s.repo.GetByCheckInToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if appointment.Status == entities.AppointmentStatusCheckedIn {
		return appointment, nil
	}

	appointment.Status = entities.AppointmentStatusCheckedIn
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, "qr-checkin", AuditCheckInAppointment, fmt.Sprintf("checked in appointment %d", appointment.ID))
	return appointment, nil
}

// GetByID retrieves an appointment
func (s *AppointmentService) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll retrieves every appointment
func (s *AppointmentService) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	return s.repo.ListAll(ctx)
}

// ListByPatient retrieves a patient's appointments
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// ListByDoctorAndRange retrieves a doctor's appointments within a time range
func (s *AppointmentService) ListByDoctorAndRange(ctx context.Context, doctorID int64, start, end time.Time) ([]*entities.Appointment, error) {
	return s.repo.ListByDoctorAndRange(ctx, doctorID, start, end)
}

// loadParties resolves the doctor and patient an appointment references.
// Lookup failures are logged and reported as not-ok so callers skip the
// notification fan-out without failing the committed mutation.
func (s *AppointmentService) loadParties(ctx context.Context, appointment *entities.Appointment) (*entities.Doctor, *entities.User, bool) {
	doctor, err := s.doctorRepo.GetByID(ctx, appointment.DoctorID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int64("appointment_id", appointment.ID).
			Msg("failed to load doctor for notification fan-out")
		return nil, nil, false
	}

	patient, err := s.userRepo.GetByID(ctx, appointment.PatientID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int64("appointment_id", appointment.ID).
			Msg("failed to load patient for notification fan-out")
		return nil, nil, false
	}

	return doctor, patient, true
}

// dispatchToParties sends one notification to the patient and, when the
// doctor has a linked user account, one to the doctor
func (s *AppointmentService) dispatchToParties(ctx context.Context, doctor *entities.Doctor, patient *entities.User, category entities.NotificationCategory, patientTitle, patientMessage, doctorTitle, doctorMessage string) {
	logger := observability.LoggerFromContext(ctx)

	if _, err := s.notifications.Dispatch(ctx, patientTitle, patientMessage, category, patient); err != nil {
		logger.Warn().Err(err).Int64("user_id", patient.ID).Msg("failed to dispatch patient notification")
	}

	if doctor.UserID == nil {
		return
	}
	doctorUser, err := s.userRepo.GetByID(ctx, *doctor.UserID)
	if err != nil {
		logger.Warn().Err(err).Int64("doctor_id", doctor.ID).Msg("failed to load doctor user for notification")
		return
	}
	if _, err := s.notifications.Dispatch(ctx, doctorTitle, doctorMessage, category, doctorUser); err != nil {
		logger.Warn().Err(err).Int64("user_id", doctorUser.ID).Msg("failed to dispatch doctor notification")
	}
}

func notesOrDefault(notes string) string {
	if notes == "" {
		return "No notes"
	}
	return notes
}
