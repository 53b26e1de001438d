package entities

import "time"

// Doctor represents a practicing doctor. UserID links the doctor to the
// user account that receives their notifications; it may be unset for
// doctors that have not been given an account yet.
type Doctor struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Specialty string    `json:"specialty" db:"specialty"`
	Phone     string    `json:"phone" db:"phone"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
