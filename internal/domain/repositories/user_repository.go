package repositories

import (
	"context"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

// UserRepository defines the identity lookups the lifecycle core needs
// from the user profile collaborator
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
