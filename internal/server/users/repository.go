package users

import (
	"context"
)

// Repository persists identity records. Username uniqueness is enforced by
// the store itself (atomic check-and-insert), not by callers.
type Repository interface {
	// Create inserts a new user and returns it with the server-assigned
	// creation timestamp. Returns common.ErrAlreadyExists when the username
	// is taken.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByUsername returns the full record including the password hash.
	// For the login verification path only.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID returns the record without the password hash.
	GetByID(ctx context.Context, id string) (*User, error)

	// List returns users ordered by creation time (newest first), without
	// password hashes.
	List(ctx context.Context, offset, limit int) ([]*User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
}
