package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wapio/backend/internal/model"
	"github.com/wapio/backend/internal/repository"
	"github.com/wapio/backend/internal/validation"
)

const (
	signupNameMinLen = 2
	signupNameMaxLen = 50
	passwordMinLen   = 6
)

// authServiceImpl is the production implementation of AuthService.
type authServiceImpl struct {
	users repository.UserRepository
}

// NewAuthService creates an AuthService backed by the given repository.
func NewAuthService(users repository.UserRepository) AuthService {
	return &authServiceImpl{users: users}
}

func (s *authServiceImpl) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	var verrs validation.Errors

	name := strings.TrimSpace(in.Name)
	switch l := validation.RuneLen(name); {
	case l == 0:
		verrs.Add("name", "Name is required")
	case l < signupNameMinLen || l > signupNameMaxLen:
		verrs.Add("name", "Name must be between %d and %d characters", signupNameMinLen, signupNameMaxLen)
	}

	email, emailErr := validation.NormalizeEmail(in.Email)
	if strings.TrimSpace(in.Email) == "" {
		verrs.Add("email", "Email is required")
	} else if emailErr != nil {
		verrs.Add("email", "Please provide a valid email")
	}

	if in.Password == "" {
		verrs.Add("password", "Password is required")
	} else if !passwordOK(in.Password) {
		verrs.Add("password", "Password must be at least %d characters and contain an uppercase letter, a lowercase letter, and a number", passwordMinLen)
	}

	if err := verrs.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID)
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		// A failed last_login write must not block the sign-in.
		slog.Warn("touch last_login failed", "user_id", user.ID, "error", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return user, nil
}

func (s *authServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var verrs validation.Errors
	name, phone, company := current.Name, current.Phone, current.Company
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if l := validation.RuneLen(name); l < signupNameMinLen || l > signupNameMaxLen {
			verrs.Add("name", "Name must be between %d and %d characters", signupNameMinLen, signupNameMaxLen)
		}
	}
	if in.Phone != nil {
		phone = strings.TrimSpace(*in.Phone)
	}
	if in.Company != nil {
		company = strings.TrimSpace(*in.Company)
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	return s.users.UpdateProfile(ctx, id, name, phone, company)
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	var verrs validation.Errors
	if current == "" {
		verrs.Add("currentPassword", "Current password is required")
	}
	if next == "" {
		verrs.Add("newPassword", "New password is required")
	} else if !passwordOK(next) {
		verrs.Add("newPassword", "Password must be at least %d characters and contain an uppercase letter, a lowercase letter, and a number", passwordMinLen)
	}
	if err := verrs.Err(); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, string(hash))
}

// passwordOK enforces the signup password policy: minimum length plus at
// least one lowercase letter, one uppercase letter and one digit.
func passwordOK(p string) bool {
	if len(p) < passwordMinLen {
		return false
	}
	var lower, upper, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
