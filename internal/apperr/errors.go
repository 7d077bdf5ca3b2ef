// Package apperr holds the error taxonomy shared by the catalog, submission
// and workflow code. HTTP handlers map these onto response codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrRoomNotFound      = errors.New("room not found or inactive")
	ErrIncompleteProfile = errors.New("user profile is incomplete")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrSlotConflict      = errors.New("room is already requested for an overlapping time range")

	// ErrUnavailable marks a collaborator (database, object storage) that
	// could not be reached. Callers may retry.
	ErrUnavailable = errors.New("service temporarily unavailable")

	// ErrDocumentUploadFailed is non-fatal: the booking exists without its document.
	ErrDocumentUploadFailed = errors.New("proposal document could not be attached")
)

// Validation codes, in the order the validator checks them.
const (
	CodeMissingField     = "MISSING_FIELD"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeDateOrder        = "DATE_ORDER"
	CodeTimeOrder        = "TIME_ORDER"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
)

type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// Unavailable wraps a collaborator failure so that errors.Is(err, ErrUnavailable)
// holds while the cause stays inspectable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// AsValidation returns the validation error in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
