package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clinicflow/appointments/internal/application/services"
	"github.com/clinicflow/appointments/internal/domain/entities"
)

func TestNotificationService_Dispatch(t *testing.T) {
	recipient := &entities.User{ID: 2, Name: "John Doe", Email: "john@example.com"}

	t.Run("persists the notification and sends the email", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		sender := new(MockEmailSender)
		service := services.NewNotificationService(repo, sender)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
			return n.UserID == 2 && n.Category == entities.NotificationNewAppointment && !n.Read
		})).Return(nil)
		sender.On("Send", mock.Anything, "john@example.com", "New appointment scheduled", "details").Return(nil)

		notification, err := service.Dispatch(context.Background(), "New appointment scheduled", "details", entities.NotificationNewAppointment, recipient)

		assert.NoError(t, err)
		assert.Equal(t, "New appointment scheduled", notification.Title)
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("keeps the in-app record when email delivery fails", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		sender := new(MockEmailSender)
		service := services.NewNotificationService(repo, sender)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("ses unavailable"))

		notification, err := service.Dispatch(context.Background(), "Appointment reminder", "details", entities.NotificationReminder, recipient)

		assert.NoError(t, err)
		assert.NotNil(t, notification)
	})

	t.Run("fails when the store write fails", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		sender := new(MockEmailSender)
		service := services.NewNotificationService(repo, sender)

		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("database unavailable"))

		_, err := service.Dispatch(context.Background(), "Appointment reminder", "details", entities.NotificationReminder, recipient)

		assert.Error(t, err)
		sender.AssertNotCalled(t, "Send")
	})

	t.Run("stays in-app only without a sender", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := services.NewNotificationService(repo, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := service.Dispatch(context.Background(), "Appointment reminder", "details", entities.NotificationReminder, recipient)

		assert.NoError(t, err)
	})

	t.Run("skips email for a recipient without an address", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		sender := new(MockEmailSender)
		service := services.NewNotificationService(repo, sender)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		noEmail := &entities.User{ID: 3, Name: "Walk In"}
		_, err := service.Dispatch(context.Background(), "Appointment reminder", "details", entities.NotificationReminder, noEmail)

		assert.NoError(t, err)
		sender.AssertNotCalled(t, "Send")
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	service := services.NewNotificationService(repo, nil)

	repo.On("MarkRead", mock.Anything, int64(7)).Return(nil)

	err := service.MarkRead(context.Background(), 7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
