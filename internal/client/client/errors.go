package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable: the server could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")

	// ErrSessionExpired: the server answered 401 or 403. The persisted
	// session must be cleared; this is how the client learns a token has
	// expired, since it never decodes the token itself.
	ErrSessionExpired = errors.New("session expired")
)

// ServerError carries a non-auth error response (4xx/5xx) with the server's
// own message when one was present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}
