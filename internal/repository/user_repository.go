package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
)

// UserRepository defines the persistence interface for dashboard accounts.
type UserRepository interface {
	// Create persists a new user and fills ID, IsActive and the timestamps
	// from the database. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns one user, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns one user, or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdateProfile replaces name, phone and company and returns the
	// updated record, or ErrNotFound.
	UpdateProfile(ctx context.Context, id uuid.UUID, name, phone, company string) (*model.User, error)

	// UpdatePassword replaces the stored password hash, or returns ErrNotFound.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// TouchLastLogin records a successful sign-in.
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
