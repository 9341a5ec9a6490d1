package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole determines which API surface an account may call.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is an account that can sign in to the dashboard.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Phone        string     `db:"phone" json:"phone,omitempty"`
	Company      string     `db:"company" json:"company,omitempty"`
	Role         UserRole   `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user may call the moderation API.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
