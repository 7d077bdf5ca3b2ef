package stats

import (
	"context"
	"net/http"

	"roombooking/internal/api"
)

type Source interface {
	Load(ctx context.Context) (Raw, error)
}

type Handlers struct {
	Source Source
}

func (h Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Source.Load(r.Context())
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, Summarize(raw))
}
