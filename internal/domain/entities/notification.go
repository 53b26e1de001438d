package entities

import "time"

// NotificationCategory tags the reason a notification was produced
type NotificationCategory string

const (
	NotificationNewAppointment NotificationCategory = "NEW_APPOINTMENT"
	NotificationCancellation   NotificationCategory = "CANCELLATION"
	NotificationReschedule     NotificationCategory = "RESCHEDULE"
	NotificationUpdate         NotificationCategory = "UPDATE"
	NotificationReminder       NotificationCategory = "REMINDER"
	NotificationDeletion       NotificationCategory = "DELETE"
)

// Notification is an in-app message produced by appointment mutations.
// It is created once and only ever mutated to flip the read flag.
type Notification struct {
	ID        int64                `json:"id" db:"id"`
	UserID    int64                `json:"user_id" db:"user_id"`
	Title     string               `json:"title" db:"title"`
	Message   string               `json:"message" db:"message"`
	Category  NotificationCategory `json:"category" db:"category"`
	Read      bool                 `json:"read" db:"read"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
}
