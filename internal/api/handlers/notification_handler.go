package handlers

import (
	"context"
	"net/http"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

// NotificationService defines the interface for notification queries
type NotificationService interface {
	ListForUser(ctx context.Context, userID int64) ([]*entities.Notification, error)
	ListUnread(ctx context.Context, userID int64) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

// NotificationHandler handles notification requests
type NotificationHandler struct {
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// ListForUser handles GET /api/notifications/user/{id}
func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
	})
}

// ListUnreadForUser handles GET /api/notifications/user/{id}/unread
func (h *NotificationHandler) ListUnreadForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	notifications, err := h.service.ListUnread(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
	})
}

// MarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"read": true})
}
