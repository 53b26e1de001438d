package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/observability"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

// ReminderService periodically sweeps for confirmed appointments coming
// up within the lookahead window and dispatches a reminder to both
// parties. Each appointment is reminded at most once per scheduled time:
// the sweep stamps last_reminded_at and skips rows already stamped for
// the current slot, so rescheduling re-arms the reminder.
type ReminderService struct {
	repo          repositories.AppointmentRepository
	doctorRepo    repositories.DoctorRepository
	userRepo      repositories.UserRepository
	notifications *NotificationService
	interval      time.Duration
	lookahead     time.Duration
}

// NewReminderService creates a new reminder service
func NewReminderService(
	repo repositories.AppointmentRepository,
	doctorRepo repositories.DoctorRepository,
	userRepo repositories.UserRepository,
	notifications *NotificationService,
	interval, lookahead time.Duration,
) *ReminderService {
	if interval <= 0 {
		interval = time.Hour
	}
	if lookahead <= 0 {
		lookahead = 24 * time.Hour
	}
	return &ReminderService{
		repo:          repo,
		doctorRepo:    doctorRepo,
		userRepo:      userRepo,
		notifications: notifications,
		interval:      interval,
		lookahead:     lookahead,
	}
}

// Run sweeps on a fixed interval until the context is cancelled. It is
// meant to be started in its own goroutine alongside the HTTP server.
func (s *ReminderService) Run(ctx context.Context) {
	logger := observability.GetLogger()
	logger.Info().
		Dur("interval", s.interval).
		Dur("lookahead", s.lookahead).
		Msg("starting reminder sweep loop")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopping reminder sweep loop")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, time.Now()); err != nil {
				logger.Error().Err(err).Msg("reminder sweep failed")
			}
		}
	}
}

// Sweep dispatches reminders for confirmed appointments scheduled
// strictly between now and now+lookahead, returning how many reminders
// went out. Per-appointment failures are logged and do not abort the
// rest of the sweep.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) (int, error) {
	logger := observability.LoggerFromContext(ctx)

	appointments, err := s.repo.ListConfirmedBetween(ctx, now, now.Add(s.lookahead))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, appointment := range appointments {
		if !s.due(appointment) {
			continue
		}
		if err := s.remind(ctx, appointment, now); err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
				// Lost the stamp race to a concurrent sweep; the other
				// sweep owns the reminder.
				logger.Debug().Int64("appointment_id", appointment.ID).Msg("reminder already claimed")
				continue
			}
			logger.Error().Err(err).Int64("appointment_id", appointment.ID).Msg("failed to send reminder")
			continue
		}
		sent++
	}

	logger.Info().Int("candidates", len(appointments)).Int("sent", sent).Msg("reminder sweep complete")
	return sent, nil
}

// due reports whether an appointment still needs a reminder for its
// current scheduled time. A stamp older than scheduledAt-lookahead
// belongs to a previous slot and does not suppress the reminder.
func (s *ReminderService) due(appointment *entities.Appointment) bool {
	if appointment.LastRemindedAt == nil {
		return true
	}
	return appointment.LastRemindedAt.Before(appointment.ScheduledAt.Add(-s.lookahead))
}

func (s *ReminderService) remind(ctx context.Context, appointment *entities.Appointment, now time.Time) error {
	// Load both parties before stamping: a transient lookup failure here
	// leaves the row unstamped, so the next sweep retries it.
	doctor, err := s.doctorRepo.GetByID(ctx, appointment.DoctorID)
	if err != nil {
		return err
	}
	patient, err := s.userRepo.GetByID(ctx, appointment.PatientID)
	if err != nil {
		return err
	}

	// Stamp before dispatching so a crash after dispatch cannot
	// double-remind.
	stamp := now
	appointment.LastRemindedAt = &stamp
	if err := s.repo.Update(ctx, appointment); err != nil {
		return err
	}

	logger := observability.LoggerFromContext(ctx)
	when := appointment.ScheduledAt.Format(appointmentTimeLayout)

	if _, err := s.notifications.Dispatch(ctx, "Appointment reminder",
		fmt.Sprintf("You have an appointment with Dr. %s on %s.\nNotes: %s", doctor.Name, when, notesOrDefault(appointment.Notes)),
		entities.NotificationReminder, patient); err != nil {
		logger.Warn().Err(err).Int64("user_id", patient.ID).Msg("failed to dispatch patient reminder")
	}

	if doctor.UserID != nil {
		doctorUser, err := s.userRepo.GetByID(ctx, *doctor.UserID)
		if err != nil {
			logger.Warn().Err(err).Int64("doctor_id", doctor.ID).Msg("failed to load doctor user for reminder")
			return nil
		}
		if _, err := s.notifications.Dispatch(ctx, "Appointment reminder",
			fmt.Sprintf("You have an appointment with %s on %s.\nNotes: %s", patient.Name, when, notesOrDefault(appointment.Notes)),
			entities.NotificationReminder, doctorUser); err != nil {
			logger.Warn().Err(err).Int64("user_id", doctorUser.ID).Msg("failed to dispatch doctor reminder")
		}
	}

	return nil
}
