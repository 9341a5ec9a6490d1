package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
)

// ErrInvalidCredentials is returned when the email is unknown or the
// password does not match. Callers must not be able to tell which.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountDisabled is returned when a deactivated account signs in with
// otherwise valid credentials.
var ErrAccountDisabled = errors.New("account is deactivated")

// ErrEmailTaken is returned when signing up with an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

// SignupInput is the untrusted payload for account creation.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Company  string
}

// UpdateProfileInput carries optional profile changes; nil means keep the
// current value.
type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Company *string
}

// AuthService defines account management for dashboard users. Token
// issuance lives in pkg/auth; this service only answers identity questions.
type AuthService interface {
	// Signup validates the input, hashes the password and creates an
	// account with the "user" role.
	Signup(ctx context.Context, in SignupInput) (*model.User, error)

	// Login verifies credentials and records the sign-in time.
	Login(ctx context.Context, email, password string) (*model.User, error)

	// GetUser returns one account, or repository.ErrNotFound.
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdateProfile applies the provided profile fields and returns the
	// updated account.
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.User, error)

	// ChangePassword verifies the current password before storing a hash
	// of the new one.
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
}
