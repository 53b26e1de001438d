package repositories

import (
	"context"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Append stores a new audit record
	Append(ctx context.Context, record *entities.AuditRecord) error

	// List retrieves the most recent records, newest first
	List(ctx context.Context, limit int) ([]*entities.AuditRecord, error)
}
