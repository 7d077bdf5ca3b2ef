package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"roombooking/internal/apperr"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, APIError{Code: code, Message: message})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteAppError maps the apperr taxonomy onto HTTP responses. Unknown errors
// are logged and reported as INTERNAL without leaking their text.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		writeEnvelope(w, http.StatusBadRequest, APIError{Code: ve.Code, Message: ve.Message, Field: ve.Field})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrRoomNotFound):
		WriteError(w, http.StatusNotFound, "ROOM_NOT_FOUND", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, apperr.ErrIncompleteProfile):
		WriteError(w, http.StatusUnprocessableEntity, "PROFILE_INCOMPLETE", "complete your profile before booking")
	case errors.Is(err, apperr.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", "invalid state transition")
	case errors.Is(err, apperr.ErrSlotConflict):
		WriteError(w, http.StatusConflict, "SLOT_CONFLICT", err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "forbidden")
	case errors.Is(err, apperr.ErrUnavailable):
		logrus.WithError(err).WithField("path", r.URL.Path).Warn("collaborator unavailable")
		writeEnvelope(w, http.StatusServiceUnavailable, APIError{
			Code: "UNAVAILABLE", Message: "service temporarily unavailable, please retry", Retryable: true,
		})
	default:
		logrus.WithError(err).WithField("path", r.URL.Path).Error("unhandled error")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeEnvelope(w http.ResponseWriter, status int, e APIError) {
	WriteJSON(w, status, ErrorEnvelope{Error: e})
}
