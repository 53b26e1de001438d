package services

import (
	"context"
	"time"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/observability"
)

// Audit action tags
const (
	AuditCreateAppointment       = "CREATE_APPOINTMENT"
	AuditCancelAppointment       = "CANCEL_APPOINTMENT"
	AuditUpdateAppointmentStatus = "UPDATE_APPOINTMENT_STATUS"
	AuditDeleteAppointment       = "DELETE_APPOINTMENT"
	AuditCheckInAppointment      = "CHECKIN_APPOINTMENT"
)

// AuditService appends immutable records of mutating actions. Append
// failures are logged and never propagated: the mutation has already
// committed and must not be rolled back because auditing failed.
type AuditService struct {
	repo repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log appends an audit record
func (s *AuditService) Log(ctx context.Context, actor, action, details string) {
	record := &entities.AuditRecord{
		Actor:      actor,
		Action:     action,
		Details:    details,
		RecordedAt: time.Now(),
	}

	if err := s.repo.Append(ctx, record); err != nil {
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("actor", actor).
			Str("action", action).
			Msg("failed to append audit record")
	}
}

// List retrieves the most recent audit records
func (s *AuditService) List(ctx context.Context, limit int) ([]*entities.AuditRecord, error) {
	return s.repo.List(ctx, limit)
}
