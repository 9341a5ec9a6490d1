package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
	"github.com/wapio/backend/internal/repository"
	"github.com/wapio/backend/internal/validation"
)

const (
	nameMinLen    = 2
	nameMaxLen    = 100
	messageMinLen = 10
	messageMaxLen = 1000
	companyMaxLen = 100

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo, now: time.Now}
}

func (s *contactServiceImpl) Submit(ctx context.Context, in SubmitContactInput) (*model.ContactSubmission, error) {
	var verrs validation.Errors

	name := strings.TrimSpace(in.Name)
	switch l := validation.RuneLen(name); {
	case l == 0:
		verrs.Add("name", "Name is required")
	case l < nameMinLen || l > nameMaxLen:
		verrs.Add("name", "Name must be between %d and %d characters", nameMinLen, nameMaxLen)
	}

	email, emailErr := validation.NormalizeEmail(in.Email)
	if strings.TrimSpace(in.Email) == "" {
		verrs.Add("email", "Email is required")
	} else if emailErr != nil {
		verrs.Add("email", "Please provide a valid email")
	}

	message := strings.TrimSpace(in.Message)
	switch l := validation.RuneLen(message); {
	case l == 0:
		verrs.Add("message", "Message is required")
	case l < messageMinLen || l > messageMaxLen:
		verrs.Add("message", "Message must be between %d and %d characters", messageMinLen, messageMaxLen)
	}

	company := strings.TrimSpace(in.Company)
	if validation.RuneLen(company) > companyMaxLen {
		verrs.Add("company", "Company name cannot exceed %d characters", companyMaxLen)
	}

	if err := verrs.Err(); err != nil {
		return nil, err
	}

	sub := &model.ContactSubmission{
		Name:      name,
		Email:     email,
		Company:   company,
		Message:   message,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		Status:    model.StatusNew,
	}
	if err := s.repo.Insert(ctx, sub); err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	return sub, nil
}

func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageLimit
	}
	if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}

	subs, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	// Return [] not null for empty pages
	if subs == nil {
		subs = []*model.ContactSubmission{}
	}

	pages := (total + opts.Limit - 1) / opts.Limit
	return &model.ContactPage{
		Submissions: subs,
		Pagination: model.Pagination{
			Page:  opts.Page,
			Limit: opts.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *contactServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.ContactSubmission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.ContactSubmission, error) {
	parsed, err := model.ParseContactStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, id, parsed)
}

func (s *contactServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *contactServiceImpl) Stats(ctx context.Context) (*model.ContactStats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.Stats(ctx, midnight)
}
