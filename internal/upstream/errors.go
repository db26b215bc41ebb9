package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Violation is a single field-level validation failure reported by the
// organizer API. Param carries the field name, Msg the API's message or
// violation code for that field.
type Violation struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// AuthError reports a rejected or missing credential. The session is no
// longer usable; callers tear it down rather than surface a dialog.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("upstream auth error (%d)", e.Status)
}

// NotFoundError reports a missing resource. Read-side lookups treat
// absence as an expected state, so shared handlers swallow this.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "upstream resource not found"
	}
	return fmt.Sprintf("upstream %s not found", e.Resource)
}

// ValidationError carries the organizer API's validation payload: a
// top-level message plus zero or more field violations.
type ValidationError struct {
	Message    string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream validation error: %s", e.Message)
	}
	return fmt.Sprintf("upstream validation error (%d violations)", len(e.Violations))
}

// OtherError covers every remaining failure kind: network faults,
// server errors, unexpected response shapes. Status is 500 when no
// response was received.
type OtherError struct {
	Status int
	Err    error
}

func (e *OtherError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream error (%d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("upstream error (%d)", e.Status)
}

func (e *OtherError) Unwrap() error {
	return e.Err
}

// errorBody is the organizer API's error response shape.
type errorBody struct {
	Message string      `json:"message"`
	Errors  []Violation `json:"errors"`
}

// decodeError maps a non-2xx response to the error taxonomy. The body
// is consumed but never trusted: an undecodable validation body still
// classifies by status code.
func decodeError(resource string, status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Status: status}
	case status == http.StatusNotFound:
		return &NotFoundError{Resource: resource}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		var parsed errorBody
		if err := json.Unmarshal(body, &parsed); err != nil {
			return &ValidationError{Message: string(body)}
		}
		return &ValidationError{Message: parsed.Message, Violations: parsed.Errors}
	default:
		return &OtherError{Status: status}
	}
}
