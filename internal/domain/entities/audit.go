package entities

import "time"

// AuditRecord is an append-only log entry capturing who did what and when
type AuditRecord struct {
	ID         int64     `json:"id" db:"id"`
	Actor      string    `json:"actor" db:"actor"`
	Action     string    `json:"action" db:"action"`
	Details    string    `json:"details" db:"details"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}
