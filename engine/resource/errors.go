package resource

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultFallbackMessage is shown when nothing more specific is known.
const DefaultFallbackMessage = "failed to load"

var (
	// ErrCanceled is returned when the user declines a confirmation.
	ErrCanceled = errors.New("operation canceled")
	// ErrConfirmationRequired is returned when a destructive operation has no confirmer.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrMutationInProgress is returned when a mutation is issued while another runs.
	ErrMutationInProgress = errors.New("another operation is in progress")
)

// StatusError is implemented by errors that carry an HTTP response.
type StatusError interface {
	error
	StatusCode() int
	BackendMessage() string
}

// Message extracts the user-facing text for err. The backend message wins,
// then a generic status text, then fallback. Failures without a response and
// authorization failures always yield fallback.
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultFallbackMessage
	}
	if err == nil {
		return fallback
	}
	var se StatusError
	if !errors.As(err, &se) {
		return fallback
	}
	code := se.StatusCode()
	if IsAuthorizationStatus(code) {
		return fallback
	}
	if msg := strings.TrimSpace(se.BackendMessage()); msg != "" {
		return msg
	}
	if code > 0 {
		return fmt.Sprintf("request failed with status code %d", code)
	}
	return fallback
}

// IsAuthorizationStatus reports 401 and 403.
func IsAuthorizationStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
