package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
)

// SubmitContactInput is the untrusted payload for a new submission.
// IPAddress and UserAgent are derived from the request by the caller,
// never taken from the client body.
type SubmitContactInput struct {
	Name      string
	Email     string
	Company   string
	Message   string
	IPAddress string
	UserAgent string
}

// ContactService defines the business logic of the contact pipeline:
// intake, moderation queries, the status workflow and stats.
type ContactService interface {
	// Submit validates the input and persists a new submission with status
	// "new". When any field fails its rule the returned error is a
	// validation.Errors listing every violation, and nothing is written.
	Submit(ctx context.Context, in SubmitContactInput) (*model.ContactSubmission, error)

	// List returns one page of submissions, newest first. Page and limit
	// are clamped to sane bounds before hitting the store.
	List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error)

	// Get returns one submission, or repository.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*model.ContactSubmission, error)

	// UpdateStatus moves one submission to the target status. Any
	// enumerated status is accepted from any other; anything outside the
	// enumeration fails with model.ErrInvalidStatus and no mutation.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.ContactSubmission, error)

	// Delete permanently removes one submission.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats recomputes the store summary. Today counts submissions created
	// since the server-local midnight.
	Stats(ctx context.Context) (*model.ContactStats, error)
}
