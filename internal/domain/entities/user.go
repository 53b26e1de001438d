package entities

import "time"

// UserRole represents the role assigned to a user account
type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRolePatient UserRole = "PATIENT"
)

// User represents an account that can book appointments and receive
// notifications. Authentication and role enforcement live outside this
// service; the lifecycle core only reads identities.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
