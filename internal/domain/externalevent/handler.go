package externalevent

import (
	"errors"
	"net/http"

	"github.com/eventport/organizer-console/internal/upstream"
)

// ErrorHandler routes classified upstream failures to their per-screen
// outcomes. One value is constructed per screen instance and shared by
// every collaborator call the screen makes, submit and read-side alike.
//
// Auth failures tear the session down and never produce a dialog.
// Validation failures become dialog content. Not-found is swallowed:
// on the read side absence is an expected, already-handled state.
// Everything else routes to the dedicated error surface with the
// failure's HTTP status; dialog and error surface are never both
// triggered by the same failure.
type ErrorHandler struct {
	OnAuthError       func()
	OnValidationError func(e *upstream.ValidationError)
	OnOtherError      func(status int)
	OnNotFoundError   func()
}

// Handle dispatches err to the matching slot. Errors outside the
// taxonomy count as "other" with status 500.
func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var authErr *upstream.AuthError
	if errors.As(err, &authErr) {
		if h.OnAuthError != nil {
			h.OnAuthError()
		}
		return
	}

	var validationErr *upstream.ValidationError
	if errors.As(err, &validationErr) {
		if h.OnValidationError != nil {
			h.OnValidationError(validationErr)
		}
		return
	}

	var notFoundErr *upstream.NotFoundError
	if errors.As(err, &notFoundErr) {
		if h.OnNotFoundError != nil {
			h.OnNotFoundError()
		}
		return
	}

	status := http.StatusInternalServerError
	var otherErr *upstream.OtherError
	if errors.As(err, &otherErr) && otherErr.Status != 0 {
		status = otherErr.Status
	}
	if h.OnOtherError != nil {
		h.OnOtherError(status)
	}
}
