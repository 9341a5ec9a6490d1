package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wapio/backend/internal/model"
	"github.com/wapio/backend/internal/repository"
	"github.com/wapio/backend/internal/validation"
)

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user *model.User) error
	getByEmailFunc     func(ctx context.Context, email string) (*model.User, error)
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*model.User, error)
	updateProfileFunc  func(ctx context.Context, id uuid.UUID, name, phone, company string) (*model.User, error)
	updatePasswordFunc func(ctx context.Context, id uuid.UUID, hash string) error
	touchedLastLogin   bool
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = uuid.New()
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone, company string) (*model.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, name, phone, company)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, hash)
	}
	return nil
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	m.touchedLastLogin = true
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Signup_Success(t *testing.T) {
	var captured *model.User
	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			captured = user
			user.ID = uuid.New()
			user.IsActive = true
			return nil
		},
	}
	svc := NewAuthService(repo)

	user, err := svc.Signup(context.Background(), SignupInput{
		Name:     " Bob ",
		Email:    "Bob@Example.com",
		Password: "Secret1",
		Company:  "Acme",
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "Secret1", user.PasswordHash, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Secret1")))
}

func TestAuthService_Signup_PasswordPolicy(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{})

	for _, password := range []string{"short", "alllowercase1", "ALLUPPERCASE1", "NoDigits"} {
		_, err := svc.Signup(context.Background(), SignupInput{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: password,
		})
		var verrs validation.Errors
		assert.ErrorAs(t, err, &verrs, "password %q should be rejected", password)
	}
}

func TestAuthService_Signup_EmailTaken(t *testing.T) {
	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "Secret1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	id := uuid.New()
	stored := &model.User{
		ID:           id,
		Email:        "bob@example.com",
		PasswordHash: hashOf(t, "Secret1"),
		IsActive:     true,
	}

	t.Run("success", func(t *testing.T) {
		repo := &mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				assert.Equal(t, "bob@example.com", email, "lookup must use the normalized email")
				return stored, nil
			},
		}
		svc := NewAuthService(repo)

		user, err := svc.Login(context.Background(), " Bob@Example.com ", "Secret1")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.True(t, repo.touchedLastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return stored, nil
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "bob@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks identical to wrong password", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{})
		_, err := svc.Login(context.Background(), "nobody@example.com", "Secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		disabled := *stored
		disabled.IsActive = false
		repo := &mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return &disabled, nil
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "bob@example.com", "Secret1")
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	id := uuid.New()
	stored := &model.User{ID: id, PasswordHash: hashOf(t, "Secret1"), IsActive: true}

	t.Run("success", func(t *testing.T) {
		var newHash string
		repo := &mockUserRepo{
			getByIDFunc: func(ctx context.Context, got uuid.UUID) (*model.User, error) {
				return stored, nil
			},
			updatePasswordFunc: func(ctx context.Context, got uuid.UUID, hash string) error {
				newHash = hash
				return nil
			},
		}
		svc := NewAuthService(repo)

		require.NoError(t, svc.ChangePassword(context.Background(), id, "Secret1", "Newpass2"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("Newpass2")))
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo := &mockUserRepo{
			getByIDFunc: func(ctx context.Context, got uuid.UUID) (*model.User, error) {
				return stored, nil
			},
		}
		svc := NewAuthService(repo)

		err := svc.ChangePassword(context.Background(), id, "wrong", "Newpass2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_UpdateProfile_PartialFields(t *testing.T) {
	id := uuid.New()
	stored := &model.User{ID: id, Name: "Bob", Phone: "123", Company: "Acme"}
	repo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, got uuid.UUID) (*model.User, error) {
			return stored, nil
		},
		updateProfileFunc: func(ctx context.Context, got uuid.UUID, name, phone, company string) (*model.User, error) {
			return &model.User{ID: got, Name: name, Phone: phone, Company: company}, nil
		},
	}
	svc := NewAuthService(repo)

	newName := "Robert"
	user, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Robert", user.Name)
	assert.Equal(t, "123", user.Phone, "omitted fields keep their value")
	assert.Equal(t, "Acme", user.Company)
}
