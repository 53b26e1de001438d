package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

var notificationColumns = []interface{}{
	"id", "user_id", "title", "message", "category", "read", "created_at",
}

// NotificationAdapter implements the NotificationRepository interface
type NotificationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(client *postgres.Client) repositories.NotificationRepository {
	return &NotificationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new notification and assigns its ID
func (a *NotificationAdapter) Create(ctx context.Context, notification *entities.Notification) error {
	record := goqu.Record{
		"user_id":    notification.UserID,
		"title":      notification.Title,
		"message":    notification.Message,
		"category":   notification.Category,
		"read":       notification.Read,
		"created_at": notification.CreatedAt,
	}

	query, args, err := a.db.Insert("notifications").
		Rows(record).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&notification.ID); err != nil {
		return apperrors.NewInternalError("failed to create notification", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications, newest first
func (a *NotificationAdapter) ListByUser(ctx context.Context, userID int64) ([]*entities.Notification, error) {
	ds := a.db.Select(notificationColumns...).
		From("notifications").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc())

	return a.list(ctx, ds)
}

// ListUnreadByUser retrieves a user's unread notifications, newest first
func (a *NotificationAdapter) ListUnreadByUser(ctx context.Context, userID int64) ([]*entities.Notification, error) {
	ds := a.db.Select(notificationColumns...).
		From("notifications").
		Where(goqu.Ex{"user_id": userID, "read": false}).
		Order(goqu.I("created_at").Desc())

	return a.list(ctx, ds)
}

// MarkRead flips the read flag on a notification
func (a *NotificationAdapter) MarkRead(ctx context.Context, id int64) error {
	query, args, err := a.db.Update("notifications").
		Set(goqu.Record{"read": true}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark notification read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("notification not found")
	}

	return nil
}

func (a *NotificationAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Notification, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}
	defer rows.Close()

	var notifications []*entities.Notification
	for rows.Next() {
		notification := &entities.Notification{}
		err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Title,
			&notification.Message,
			&notification.Category,
			&notification.Read,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan notification", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate notifications", err)
	}

	return notifications, nil
}
