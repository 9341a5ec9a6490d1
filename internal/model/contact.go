package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the moderation state attached to a contact submission.
type ContactStatus string

const (
	StatusNew      ContactStatus = "new"
	StatusRead     ContactStatus = "read"
	StatusReplied  ContactStatus = "replied"
	StatusArchived ContactStatus = "archived"
)

// ErrInvalidStatus is returned when a status value is outside the enumeration.
var ErrInvalidStatus = errors.New("invalid contact status")

// ContactStatuses lists every valid status, in lifecycle order.
func ContactStatuses() []ContactStatus {
	return []ContactStatus{StatusNew, StatusRead, StatusReplied, StatusArchived}
}

// ParseContactStatus validates a raw status string against the enumeration.
// Any enumerated status may be set from any other; there is no forward-only
// ordering.
func ParseContactStatus(s string) (ContactStatus, error) {
	switch cs := ContactStatus(s); cs {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return cs, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ContactSubmission represents one contact-form entry. Only Status ever
// changes after creation; everything else is immutable once persisted.
type ContactSubmission struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Company   string        `db:"company" json:"company,omitempty"`
	Message   string        `db:"message" json:"message"`
	IPAddress string        `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent string        `db:"user_agent" json:"userAgent,omitempty"`
	Status    ContactStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}

// ContactListOptions carries filter and pagination parameters for listing
// submissions.
type ContactListOptions struct {
	// Status filters by exact status; the zero value returns all statuses.
	Status ContactStatus
	// Search matches name, email or company as a case-insensitive substring.
	Search string
	Page   int
	Limit  int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ContactPage is one page of submissions plus pagination metadata.
type ContactPage struct {
	Submissions []*ContactSubmission `json:"contacts"`
	Pagination  Pagination           `json:"pagination"`
}

// ContactStats is a point-in-time summary of the store. ByStatus only
// contains statuses that have at least one submission.
type ContactStats struct {
	Total    int                   `json:"total"`
	Today    int                   `json:"today"`
	ByStatus map[ContactStatus]int `json:"byStatus"`
}
