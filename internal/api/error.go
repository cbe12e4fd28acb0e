package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single failure type surfaced by the client. Transport-level
// failures (request never completed) and application-level failures (a
// response carrying success:false or a non-2xx status) both normalize into
// it, so UI-facing code never has to distinguish the two shapes.
type Error struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Message is a human-readable cause, taken from the server's error
	// payload when available.
	Message string
	// Err is the underlying transport error, when any.
	Err error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 rejection.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 permission failure. The session
// survives these; only the action is denied.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}

// Message returns the human-readable cause of err, or fallback when err is
// not an API error.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
