package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
	"github.com/wapio/backend/internal/repository"
	"github.com/wapio/backend/internal/service"
	"github.com/wapio/backend/internal/validation"
	"github.com/wapio/backend/pkg/auth"
)

// AuthHandler handles signup, login and account management for the
// dashboard.
type AuthHandler struct {
	authService service.AuthService
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewAuthHandler(authService service.AuthService, jwtSecret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
}

type sessionResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Company:  req.Company,
	})
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			respondValidationErrors(w, verrs)
		case errors.Is(err, service.ErrEmailTaken):
			respondError(w, http.StatusConflict, "An account with this email already exists")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	token, err := h.issueSession(w, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondData(w, http.StatusCreated, "Account created successfully", sessionResponse{User: user, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrAccountDisabled):
			respondError(w, http.StatusForbidden, "Account is deactivated")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	token, err := h.issueSession(w, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondData(w, http.StatusOK, "Logged in successfully", sessionResponse{User: user, Token: token})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch account")
		return
	}

	respondData(w, http.StatusOK, "", user)
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

// UpdateProfile handles PUT /api/auth/profile. Omitted fields keep their
// current value.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Company: req.Company,
	})
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			respondValidationErrors(w, verrs)
		case errors.Is(err, repository.ErrNotFound):
			respondError(w, http.StatusUnauthorized, "Not authorized")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	respondData(w, http.StatusOK, "Profile updated successfully", user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			respondValidationErrors(w, verrs)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}

	respondData(w, http.StatusOK, "Password changed successfully", nil)
}

// Logout handles POST /api/auth/logout by expiring the session cookie. The
// bearer token itself stays valid until its TTL runs out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondData(w, http.StatusOK, "Logged out successfully", nil)
}

// issueSession signs a token for the user and sets it as the session cookie.
func (h *AuthHandler) issueSession(w http.ResponseWriter, user *model.User) (string, error) {
	token, err := auth.CreateToken(user.ID.String(), string(user.Role), h.jwtSecret, h.tokenTTL)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

func currentUserID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
