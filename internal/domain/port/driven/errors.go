package driven

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the API error taxonomy. The Bitbucket adapter maps
// HTTP statuses onto these at the transport boundary; the CLI layer is the
// only place they are translated to exit codes.
var (
	// ErrAuth covers missing credentials and credentials rejected with 401.
	ErrAuth = errors.New("authentication required or rejected (run 'bbpr auth login')")

	// ErrForbidden covers valid credentials with insufficient scope (403).
	ErrForbidden = errors.New("permission denied: the credentials lack access to this resource")

	// ErrNotFound covers 404 responses. Callers wrap it with the identity of
	// the entity that was being addressed.
	ErrNotFound = errors.New("not found")
)

// APIError is returned for any other non-2xx response. Message carries the
// server's error envelope message when present, otherwise the HTTP status text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}
