package repositories

import (
	"context"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

// DoctorRepository defines the identity lookups the lifecycle core needs
// from the doctor profile collaborator
type DoctorRepository interface {
	// GetByID retrieves a doctor by ID
	GetByID(ctx context.Context, id int64) (*entities.Doctor, error)
}
