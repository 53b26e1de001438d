package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

var appointmentColumns = []interface{}{
	"id", "doctor_id", "patient_id", "scheduled_at", "status",
	"check_in_token", "check_in_url", "notes", "last_reminded_at",
	"version", "created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new appointment and assigns its ID
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"doctor_id":        appointment.DoctorID,
		"patient_id":       appointment.PatientID,
		"scheduled_at":     appointment.ScheduledAt,
		"status":           appointment.Status,
		"check_in_token":   appointment.CheckInToken,
		"check_in_url":     appointment.CheckInURL,
		"notes":            appointment.Notes,
		"last_reminded_at": appointment.LastRemindedAt,
		"version":          appointment.Version,
		"created_at":       appointment.CreatedAt,
		"updated_at":       appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").
		Rows(record).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&appointment.ID); err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := a.scanOne(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// GetByCheckInToken retrieves an appointment by its check-in token
func (a *AppointmentAdapter) GetByCheckInToken(ctx context.Context, token string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"check_in_token": token}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := a.scanOne(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("appointment not found for token")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment by token", err)
	}

	return appointment, nil
}

// Update saves an appointment with a compare-and-swap on its version
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	currentVersion := appointment.Version
	appointment.Version = currentVersion + 1
	appointment.UpdatedAt = time.Now()

	record := goqu.Record{
		"scheduled_at":     appointment.ScheduledAt,
		"status":           appointment.Status,
		"notes":            appointment.Notes,
		"last_reminded_at": appointment.LastRemindedAt,
		"version":          appointment.Version,
		"updated_at":       appointment.UpdatedAt,
	}

	query, args, err := a.db.Update("appointments").
		Set(record).
		Where(goqu.Ex{"id": appointment.ID, "version": currentVersion}).
		ToSQL()
	if err != nil {
		appointment.Version = currentVersion
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		appointment.Version = currentVersion
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		appointment.Version = currentVersion
		return apperrors.NewConflictError(fmt.Sprintf("appointment %d was modified concurrently or does not exist", appointment.ID))
	}

	return nil
}

// Delete removes an appointment
func (a *AppointmentAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %d not found", id))
	}

	return nil
}

// ListAll retrieves every appointment
func (a *AppointmentAdapter) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Order(goqu.I("scheduled_at").Desc())

	return a.list(ctx, ds)
}

// ListByPatient retrieves appointments for a patient
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"patient_id": patientID}).
		Order(goqu.I("scheduled_at").Desc())

	return a.list(ctx, ds)
}

// ListByDoctor retrieves appointments for a doctor
func (a *AppointmentAdapter) ListByDoctor(ctx context.Context, doctorID int64) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"doctor_id": doctorID}).
		Order(goqu.I("scheduled_at").Desc())

	return a.list(ctx, ds)
}

// ListByDoctorAndRange retrieves a doctor's appointments scheduled within [start, end]
func (a *AppointmentAdapter) ListByDoctorAndRange(ctx context.Context, doctorID int64, start, end time.Time) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(
			goqu.Ex{"doctor_id": doctorID},
			goqu.C("scheduled_at").Gte(start),
			goqu.C("scheduled_at").Lte(end),
		).
		Order(goqu.I("scheduled_at").Asc())

	return a.list(ctx, ds)
}

// ListConfirmedBetween retrieves confirmed appointments scheduled strictly between from and to
func (a *AppointmentAdapter) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(
			goqu.Ex{"status": entities.AppointmentStatusConfirmed},
			goqu.C("scheduled_at").Gt(from),
			goqu.C("scheduled_at").Lt(to),
		).
		Order(goqu.I("scheduled_at").Asc())

	return a.list(ctx, ds)
}

func (a *AppointmentAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Appointment, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		appointment, err := a.scanOne(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *AppointmentAdapter) scanOne(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var notes sql.NullString
	var lastRemindedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.DoctorID,
		&appointment.PatientID,
		&appointment.ScheduledAt,
		&appointment.Status,
		&appointment.CheckInToken,
		&appointment.CheckInURL,
		&notes,
		&lastRemindedAt,
		&appointment.Version,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.Notes = notes.String
	if lastRemindedAt.Valid {
		t := lastRemindedAt.Time
		appointment.LastRemindedAt = &t
	}

	return appointment, nil
}
