package helpers

import (
	"errors"
	"fmt"
	"strings"
)

// Define sentinel errors for common error types
var (
	// ErrTimeout represents a timeout error
	ErrTimeout = errors.New("operation timed out")

	// ErrNetwork represents a network error
	ErrNetwork = errors.New("network error")

	// ErrAuth represents an authentication error
	ErrAuth = errors.New("authentication error")

	// ErrForbidden is returned when the signed-in roles may not run a command
	ErrForbidden = errors.New("forbidden")
)

// AuthError represents an authentication error
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// NewAuthError creates a new authentication error
func NewAuthError(reason string) error {
	return &AuthError{
		Reason: reason,
	}
}

// ForbiddenError names the action that was refused and the roles that would allow it.
type ForbiddenError struct {
	Action  string
	Allowed []string
}

func (e *ForbiddenError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s is not available", e.Action)
	}
	return fmt.Sprintf("%s requires one of: %s", e.Action, strings.Join(e.Allowed, ", "))
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// NewForbiddenError creates a new permission error
func NewForbiddenError(action string, allowed ...string) error {
	return &ForbiddenError{Action: action, Allowed: allowed}
}
