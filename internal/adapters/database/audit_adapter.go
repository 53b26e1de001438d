package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

// AuditAdapter implements the AuditRepository interface
type AuditAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAuditAdapter creates a new audit adapter
func NewAuditAdapter(client *postgres.Client) repositories.AuditRepository {
	return &AuditAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Append stores a new audit record
func (a *AuditAdapter) Append(ctx context.Context, record *entities.AuditRecord) error {
	row := goqu.Record{
		"actor":       record.Actor,
		"action":      record.Action,
		"details":     record.Details,
		"recorded_at": record.RecordedAt,
	}

	query, args, err := a.db.Insert("audit_records").
		Rows(row).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&record.ID); err != nil {
		return apperrors.NewInternalError("failed to append audit record", err)
	}

	return nil
}

// List retrieves the most recent records, newest first
func (a *AuditAdapter) List(ctx context.Context, limit int) ([]*entities.AuditRecord, error) {
	ds := a.db.Select("id", "actor", "action", "details", "recorded_at").
		From("audit_records").
		Order(goqu.I("recorded_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list audit records", err)
	}
	defer rows.Close()

	var records []*entities.AuditRecord
	for rows.Next() {
		record := &entities.AuditRecord{}
		err := rows.Scan(
			&record.ID,
			&record.Actor,
			&record.Action,
			&record.Details,
			&record.RecordedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan audit record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate audit records", err)
	}

	return records, nil
}
