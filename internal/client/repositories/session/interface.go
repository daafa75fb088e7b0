// Package session persists the client's session state as key/value pairs in
// the local database. The two keys in use are "token" and "user"; absence of
// either means the client is unauthenticated.
package session

import "context"

type Repository interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// Clear removes all session state.
	Clear(ctx context.Context) error
}
