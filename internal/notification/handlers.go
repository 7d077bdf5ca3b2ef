package notification

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"roombooking/internal/api"
)

type Inbox interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type Handlers struct {
	Inbox Inbox
}

// List returns the caller's latest notifications; ?unread=true filters.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}
	items, err := h.Inbox.ListByUser(r.Context(), a.UserID, r.URL.Query().Get("unread") == "true")
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}
	if err := h.Inbox.MarkRead(r.Context(), a.UserID, chi.URLParam(r, "id")); err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
