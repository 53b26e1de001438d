package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id int64) (*entities.Doctor, error) {
	query, args, err := a.db.Select(
		"id", "name", "specialty", "phone", "user_id", "created_at",
	).From("doctors").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor := &entities.Doctor{}
	var phone sql.NullString
	var userID sql.NullInt64

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialty,
		&phone,
		&userID,
		&doctor.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}

	doctor.Phone = phone.String
	if userID.Valid {
		uid := userID.Int64
		doctor.UserID = &uid
	}

	return doctor, nil
}
