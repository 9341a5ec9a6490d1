package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
)

// ContactRepository defines the persistence interface for contact submissions.
type ContactRepository interface {
	// Insert persists a new submission and fills ID and CreatedAt from the
	// database.
	Insert(ctx context.Context, sub *model.ContactSubmission) error

	// List returns one page of submissions matching opts, newest first,
	// together with the total matching count.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, int, error)

	// GetByID returns one submission, or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContactSubmission, error)

	// UpdateStatus atomically replaces one submission's status and returns
	// the updated record, or ErrNotFound.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) (*model.ContactSubmission, error)

	// Delete permanently removes one submission, or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats recounts the store: totals per status plus the number of
	// submissions created at or after since.
	Stats(ctx context.Context, since time.Time) (*model.ContactStats, error)
}
