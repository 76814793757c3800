package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrValidation flags caller-side input problems caught before any
// upstream call is made.
var ErrValidation = errors.New("missing required fields")

// TransportError is an upstream failure carrying the normalized,
// human-readable message extracted from the response payload.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Message)
}

// NewTransportError normalizes an upstream error response: the payload's
// "message" field when present, else the status text, else a generic
// fallback.
func NewTransportError(status int, message string) *TransportError {
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "Request error"
	}
	return &TransportError{StatusCode: status, Message: message}
}
