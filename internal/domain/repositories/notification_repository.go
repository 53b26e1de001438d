package repositories

import (
	"context"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	// Create persists a new notification and assigns its ID
	Create(ctx context.Context, notification *entities.Notification) error

	// ListByUser retrieves a user's notifications, newest first
	ListByUser(ctx context.Context, userID int64) ([]*entities.Notification, error)

	// ListUnreadByUser retrieves a user's unread notifications, newest first
	ListUnreadByUser(ctx context.Context, userID int64) ([]*entities.Notification, error)

	// MarkRead flips the read flag on a notification
	MarkRead(ctx context.Context, id int64) error
}
