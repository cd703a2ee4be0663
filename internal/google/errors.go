package google

import (
	"errors"
	"fmt"
)

var (
	// ErrClientIDMissing is returned when no OAuth client ID is configured.
	ErrClientIDMissing = errors.New("OAuth client ID is required")

	// ErrAuthorizationCancelled means the user declined consent or the wait
	// was abandoned before a redirect arrived.
	ErrAuthorizationCancelled = errors.New("authorization cancelled")

	// ErrAuthorizationTimeout means no redirect arrived within the timeout.
	ErrAuthorizationTimeout = errors.New("authorization timed out")

	// ErrStateMismatch means the redirect carried a state that was not issued
	// by this flow.
	ErrStateMismatch = errors.New("authorization state mismatch")

	// ErrNoToken is returned by a TokenProvider without a stored token.
	ErrNoToken = errors.New("no access token stored")
)

// AuthError is an OAuth 2.0 error reported on the redirect
// (RFC 6749 section 4.1.2.1).
type AuthError struct {
	Code        string // e.g. "access_denied", "invalid_scope"
	Description string // Optional human-readable text
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authorization failed: %s", e.Code)
	}
	return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
}

// Is reports an access_denied error as ErrAuthorizationCancelled.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthorizationCancelled && e.Code == "access_denied"
}
