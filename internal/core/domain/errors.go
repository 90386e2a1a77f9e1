package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired signals that the upstream session cookie is absent or
	// no longer accepted by the backend. Benign: handled by clearing local
	// state, never shown as an error.
	ErrSessionExpired = errors.New("auth: session expired")

	// ErrNoActiveSession is a programmer error: an operation that requires an
	// authenticated identity was called without one.
	ErrNoActiveSession = errors.New("session: no active identity")

	// ErrBackendUnavailable wraps transport failures reaching the clinic
	// backend; retryable from the user's point of view.
	ErrBackendUnavailable = errors.New("backend: unreachable")

	// ErrUnknownRole signals a role string outside the closed set.
	ErrUnknownRole = errors.New("auth: unknown role")

	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access forbidden")
)

// AuthError is a credential rejection from the backend, carrying the server's
// human-readable reason for inline display on the login form.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth: rejected with status %d", e.Status)
	}
	return "auth: " + e.Message
}
