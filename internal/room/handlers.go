package room

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"roombooking/internal/api"
	"roombooking/internal/apperr"
)

type Handlers struct {
	Catalog Catalog
	// Inventory backs the staff listing; it bypasses the cache.
	Inventory Inventory
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Catalog.ListActive(r.Context())
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": rooms})
}

// Get hides inactive rooms from the public surface.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	rm, err := h.Catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			err = apperr.ErrRoomNotFound
		}
		api.WriteAppError(w, r, err)
		return
	}
	if !rm.IsActive {
		api.WriteAppError(w, r, apperr.ErrRoomNotFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, rm)
}

func (h Handlers) ListTypes(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": Types()})
}

func (h Handlers) AdminList(w http.ResponseWriter, r *http.Request) {
	if a := api.ActorFromContext(r.Context()); a == nil || !a.IsStaff() {
		api.WriteAppError(w, r, apperr.ErrForbidden)
		return
	}
	rooms, err := h.Inventory.ListAll(r.Context())
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": rooms})
}
