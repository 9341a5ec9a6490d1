package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wapio/backend/internal/model"
	"github.com/wapio/backend/internal/repository"
	"github.com/wapio/backend/internal/service"
	"github.com/wapio/backend/internal/validation"
	"github.com/wapio/backend/pkg/auth"
)

// ContactHandler handles the public contact form and the admin moderation
// endpoints.
type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type createContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// createContactResponse echoes only safe fields back to the visitor. The
// message body, IP and user agent stay server-side.
type createContactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create handles POST /api/contact.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.contactService.Submit(r.Context(), service.SubmitContactInput{
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Message:   req.Message,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			respondValidationErrors(w, verrs)
			return
		}
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	respondData(w, http.StatusCreated,
		"Message sent successfully! We will get back to you soon.",
		createContactResponse{
			ID:        sub.ID,
			Name:      sub.Name,
			Email:     sub.Email,
			CreatedAt: sub.CreatedAt,
		})
}

// List handles GET /api/contact (admin).
// Supports query params: status, search, page, limit.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	opts := model.ContactListOptions{
		Status: model.ContactStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			opts.Page = n
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			opts.Limit = n
		}
	}

	page, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch contacts")
		return
	}

	respondData(w, http.StatusOK, "", page)
}

// Get handles GET /api/contact/{id} (admin).
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Contact not found")
		return
	}

	sub, err := h.contactService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch contact")
		return
	}

	respondData(w, http.StatusOK, "", sub)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/contact/{id}/status (admin).
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Contact not found")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.contactService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "Invalid status. Must be: new, read, replied, or archived")
		case errors.Is(err, repository.ErrNotFound):
			respondError(w, http.StatusNotFound, "Contact not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update contact")
		}
		return
	}

	respondData(w, http.StatusOK, "Contact status updated successfully", sub)
}

// Delete handles DELETE /api/contact/{id} (admin).
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Contact not found")
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	respondData(w, http.StatusOK, "Contact deleted successfully", nil)
}

// Stats handles GET /api/contact/stats (admin).
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	respondData(w, http.StatusOK, "", stats)
}

// requireAdmin writes the error response and returns false unless the request
// carries an authenticated admin identity.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return false
	}
	if !auth.IsAdminFromContext(r.Context()) {
		respondError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}
