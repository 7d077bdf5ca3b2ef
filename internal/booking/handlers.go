package booking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"roombooking/internal/api"
	"roombooking/internal/apperr"
	"roombooking/internal/document"
	"roombooking/internal/user"
)

type Handlers struct {
	Service *Service
	// MaxUploadBytes bounds multipart request bodies; 0 means 10 MiB.
	MaxUploadBytes int64
}

type SubmitRequest struct {
	RoomID string `json:"roomId"`
	Input
}

type warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Submit accepts either a JSON body or a multipart form whose optional
// "proposal" part is the proposal document.
func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var (
		req SubmitRequest
		doc *document.File
	)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		limit := h.MaxUploadBytes
		if limit <= 0 {
			limit = 10 << 20
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
		if err := r.ParseMultipartForm(limit); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid multipart form")
			return
		}
		var err error
		req, err = formRequest(r)
		if err != nil {
			api.WriteAppError(w, r, err)
			return
		}
		if f, hdr, err := r.FormFile("proposal"); err == nil {
			defer f.Close()
			doc = &document.File{
				Name:        hdr.Filename,
				ContentType: hdr.Header.Get("Content-Type"),
				Size:        hdr.Size,
				Body:        f,
			}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	if strings.TrimSpace(req.RoomID) == "" {
		api.WriteAppError(w, r, &apperr.ValidationError{Code: apperr.CodeMissingField, Field: "roomId", Message: "all fields are required"})
		return
	}

	res, err := h.Service.Submit(r.Context(), a.UserID, strings.TrimSpace(req.RoomID), req.Input, doc)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}

	warnings := []warning{}
	if res.DocumentErr != nil {
		warnings = append(warnings, warning{Code: "DOCUMENT_UPLOAD_FAILED", Message: "the booking was created without the proposal document"})
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"booking": res.Booking, "warnings": warnings})
}

func formRequest(r *http.Request) (SubmitRequest, error) {
	req := SubmitRequest{
		RoomID: r.FormValue("roomId"),
		Input: Input{
			StartDate:        r.FormValue("startDate"),
			EndDate:          r.FormValue("endDate"),
			StartTime:        r.FormValue("startTime"),
			EndTime:          r.FormValue("endTime"),
			EventName:        r.FormValue("eventName"),
			EventDescription: r.FormValue("eventDescription"),
		},
	}
	if v := strings.TrimSpace(r.FormValue("attendeesCount")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, &apperr.ValidationError{Code: apperr.CodeInvalidFormat, Field: "attendeesCount", Message: "expected a whole number"}
		}
		req.AttendeesCount = &n
	}
	return req, nil
}

func (h Handlers) ListMine(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}
	items, err := h.Service.ListMine(r.Context(), *a)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}
	b, err := h.Service.Get(r.Context(), *a, chi.URLParam(r, "id"))
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}
	items, err := h.Service.Events(r.Context(), *a, chi.URLParam(r, "id"))
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}
	b, err := h.Service.Cancel(r.Context(), *a, chi.URLParam(r, "id"))
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

// AdminList serves the staff review queue. ?status= and ?roomId= filter it.
func (h Handlers) AdminList(w http.ResponseWriter, r *http.Request) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var f ListFilter
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		st, err := ParseStatus(s)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
			return
		}
		f.Status = st
	}
	f.RoomID = strings.TrimSpace(r.URL.Query().Get("roomId"))

	items, err := h.Service.ListAll(r.Context(), *a, f)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type DecisionRequest struct {
	Note string `json:"note"`
}

func (h Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

func (h Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

type decision func(ctx context.Context, actor user.Actor, id, note string) (*Booking, error)

func (h Handlers) decide(w http.ResponseWriter, r *http.Request, op decision) {
	a := api.ActorFromContext(r.Context())
	if a == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	// The note is optional, so an empty body is fine.
	var req DecisionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
			return
		}
	}

	b, err := op(r.Context(), *a, chi.URLParam(r, "id"), req.Note)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

// Availability answers GET /v1/rooms/{id}/availability?date=YYYY-MM-DD.
func (h Handlers) Availability(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		api.WriteAppError(w, r, &apperr.ValidationError{Code: apperr.CodeMissingField, Field: "date", Message: "date is required"})
		return
	}

	slots, err := h.Service.Availability(r.Context(), roomID, date)
	if err != nil {
		api.WriteAppError(w, r, err)
		return
	}

	type busy struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}
	out := make([]busy, 0, len(slots))
	for _, s := range slots {
		out = append(out, busy{s.StartDate, s.EndDate, s.StartTime, s.EndTime})
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"roomId": roomID, "date": date, "busy": out})
}
