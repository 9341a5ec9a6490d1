package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
	"github.com/wapio/backend/internal/service"
	"github.com/wapio/backend/pkg/auth"
)

// mockAuthService implements service.AuthService with overridable funcs.
type mockAuthService struct {
	signupFunc         func(ctx context.Context, in service.SignupInput) (*model.User, error)
	loginFunc          func(ctx context.Context, email, password string) (*model.User, error)
	getUserFunc        func(ctx context.Context, id uuid.UUID) (*model.User, error)
	updateProfileFunc  func(ctx context.Context, id uuid.UUID, in service.UpdateProfileInput) (*model.User, error)
	changePasswordFunc func(ctx context.Context, id uuid.UUID, current, next string) error
}

func (m *mockAuthService) Signup(ctx context.Context, in service.SignupInput) (*model.User, error) {
	if m.signupFunc != nil {
		return m.signupFunc(ctx, in)
	}
	return &model.User{ID: uuid.New(), Name: in.Name, Email: in.Email, Role: model.RoleUser, IsActive: true}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *mockAuthService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return &model.User{ID: id, Role: model.RoleUser, IsActive: true}, nil
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, id uuid.UUID, in service.UpdateProfileInput) (*model.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, in)
	}
	return &model.User{ID: id}, nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, id, current, next)
	}
	return nil
}

func newAuthHandler(svc service.AuthService) *AuthHandler {
	return NewAuthHandler(svc, []byte("test-secret-0123456789abcdef0123"), time.Hour)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName() {
			return c
		}
	}
	return nil
}

func TestSignup_Success(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	payload := `{"name":"Bob","email":"bob@example.com","password":"Secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["token"] == "" || data["token"] == nil {
		t.Error("expected a session token in the response")
	}
	user, _ := data["user"].(map[string]any)
	if _, leaked := user["passwordHash"]; leaked {
		t.Error("password hash must never be serialized")
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestSignup_EmailTaken(t *testing.T) {
	h := newAuthHandler(&mockAuthService{
		signupFunc: func(ctx context.Context, in service.SignupInput) (*model.User, error) {
			return nil, service.ErrEmailTaken
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{"email":"bob@example.com"}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	stored := &model.User{ID: uuid.New(), Email: "bob@example.com", Role: model.RoleAdmin, IsActive: true}

	t.Run("success sets cookie and returns token", func(t *testing.T) {
		h := newAuthHandler(&mockAuthService{
			loginFunc: func(ctx context.Context, email, password string) (*model.User, error) {
				return stored, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"bob@example.com","password":"Secret1"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		cookie := sessionCookie(rec)
		if cookie == nil {
			t.Fatal("expected a session cookie")
		}
		claims, err := auth.VerifyToken(cookie.Value, []byte("test-secret-0123456789abcdef0123"))
		if err != nil {
			t.Fatalf("cookie does not hold a valid token: %v", err)
		}
		if claims.Subject != stored.ID.String() || claims.Role != "admin" {
			t.Errorf("unexpected claims: subject=%s role=%s", claims.Subject, claims.Role)
		}
	})

	t.Run("wrong credentials", func(t *testing.T) {
		h := newAuthHandler(&mockAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"bob@example.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		h := newAuthHandler(&mockAuthService{
			loginFunc: func(ctx context.Context, email, password string) (*model.User, error) {
				return nil, service.ErrAccountDisabled
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"bob@example.com","password":"Secret1"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}

func TestMe(t *testing.T) {
	id := uuid.New()
	h := newAuthHandler(&mockAuthService{
		getUserFunc: func(ctx context.Context, got uuid.UUID) (*model.User, error) {
			if got != id {
				t.Errorf("looked up %s, want %s", got, id)
			}
			return &model.User{ID: got, Name: "Bob", Role: model.RoleUser, IsActive: true}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), id.String()))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMe_NoIdentity(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	id := uuid.New()
	h := newAuthHandler(&mockAuthService{
		changePasswordFunc: func(ctx context.Context, got uuid.UUID, current, next string) error {
			return service.ErrInvalidCredentials
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/auth/change-password", strings.NewReader(`{"currentPassword":"wrong","newPassword":"Newpass2"}`))
	req = req.WithContext(auth.WithUserID(req.Context(), id.String()))
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Current password is incorrect" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestUpdateProfile_PartialBody(t *testing.T) {
	id := uuid.New()
	var captured service.UpdateProfileInput
	h := newAuthHandler(&mockAuthService{
		updateProfileFunc: func(ctx context.Context, got uuid.UUID, in service.UpdateProfileInput) (*model.User, error) {
			captured = in
			return &model.User{ID: got}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", strings.NewReader(`{"phone":"555-0100"}`))
	req = req.WithContext(auth.WithUserID(req.Context(), id.String()))
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Name != nil || captured.Company != nil {
		t.Error("omitted fields must stay nil")
	}
	if captured.Phone == nil || *captured.Phone != "555-0100" {
		t.Errorf("phone = %v", captured.Phone)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected the session cookie to be rewritten")
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("cookie must be expired, got MaxAge=%d", cookie.MaxAge)
	}
}
