// Package profile serves the caller's own user profile, which bookings
// require, and the staff user directory.
package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"roombooking/internal/api"
	"roombooking/internal/apperr"
	"roombooking/internal/user"
)

type Store interface {
	GetByID(ctx context.Context, id string) (*user.Profile, error)
	Create(ctx context.Context, p user.CreateParams) (*user.Profile, error)
}

// Directory lists every profile for staff.
type Directory interface {
	List(ctx context.Context) ([]user.Profile, error)
}

type Handlers struct {
	Store     Store
	Directory Directory
}

type CreateRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}
	p, err := h.Store.GetByID(r.Context(), a.UserID)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

// Create registers or updates the caller's profile. The token's email wins
// over the body so users cannot claim another address.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	email := strings.TrimSpace(a.Email)
	if email == "" {
		email = strings.TrimSpace(req.Email)
	}
	params := user.CreateParams{
		ID:          a.UserID,
		Email:       email,
		FullName:    strings.TrimSpace(req.FullName),
		Phone:       strings.TrimSpace(req.Phone),
		Institution: strings.TrimSpace(req.Institution),
	}
	if err := validate(params); err != nil {
		api.WriteAppError(w, r, err)
		return
	}

	p, err := h.Store.Create(r.Context(), params)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, p)
}

func (h Handlers) AdminList(w http.ResponseWriter, r *http.Request) {
	if a := api.ActorFromContext(r.Context()); a == nil || !a.IsStaff() {
		api.WriteAppError(w, r, apperr.ErrForbidden)
		return
	}
	users, err := h.Directory.List(r.Context())
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": users})
}

func validate(p user.CreateParams) error {
	if p.FullName == "" {
		return &apperr.ValidationError{Code: apperr.CodeMissingField, Field: "fullName", Message: "full name is required"}
	}
	if p.Email == "" {
		return &apperr.ValidationError{Code: apperr.CodeMissingField, Field: "email", Message: "email is required"}
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return &apperr.ValidationError{Code: apperr.CodeInvalidFormat, Field: "email", Message: "invalid email address"}
	}
	return nil
}
