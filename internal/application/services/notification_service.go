package services

import (
	"context"
	"time"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/providers"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/observability"
)

// NotificationService persists in-app notifications and forwards them to
// the external email channel on a best-effort basis. The in-app record is
// always written first; a delivery failure is logged and absorbed so the
// triggering mutation never rolls back.
type NotificationService struct {
	repo   repositories.NotificationRepository
	sender providers.EmailSender
}

// NewNotificationService creates a new notification service. The sender
// may be nil, in which case notifications stay in-app only.
func NewNotificationService(repo repositories.NotificationRepository, sender providers.EmailSender) *NotificationService {
	return &NotificationService{
		repo:   repo,
		sender: sender,
	}
}

// Dispatch persists a notification for the recipient and then attempts
// email delivery
func (s *NotificationService) Dispatch(ctx context.Context, title, message string, category entities.NotificationCategory, recipient *entities.User) (*entities.Notification, error) {
	notification := &entities.Notification{
		UserID:    recipient.ID,
		Title:     title,
		Message:   message,
		Category:  category,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.sender != nil && recipient.Email != "" {
		if err := s.sender.Send(ctx, recipient.Email, title, message); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Int64("user_id", recipient.ID).
				Str("category", string(category)).
				Msg("email delivery failed, notification kept in-app")
		}
	}

	return notification, nil
}

// ListForUser retrieves a user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]*entities.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListUnread retrieves a user's unread notifications
func (s *NotificationService) ListUnread(ctx context.Context, userID int64) ([]*entities.Notification, error) {
	return s.repo.ListUnreadByUser(ctx, userID)
}

// MarkRead flips the read flag on a notification
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}
