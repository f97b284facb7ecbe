package entity

import (
	"time"

	"github.com/google/uuid"
)

// Back-office roles. Agents work leads day to day; admins additionally
// manage accounts and see the high-value report.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// ValidUserRole reports whether the given role is one the back-office knows.
func ValidUserRole(role string) bool {
	return role == RoleAdmin || role == RoleAgent
}

// User is a back-office account: an agent or admin working leads, never a
// lead itself.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
