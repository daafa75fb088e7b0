// Package client implements the API client for the AuthKeeper server and
// the local sqlite database holding the persisted session.
package client

import (
	"context"
	"time"
)

// User is the client-side view of an identity. It never contains the
// password hash; the server does not serialize it.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// AuthResult is the server's response to register/login.
type AuthResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// RootResult is the server's response to GET /.
type RootResult struct {
	Message       string `json:"message"`
	Authenticated bool   `json:"authenticated"`
	Redirect      string `json:"redirect"`
	User          *User  `json:"user,omitempty"`
}

// HomeResult is the server's response to GET /home.
type HomeResult struct {
	Message   string `json:"message"`
	User      *User  `json:"user"`
	Timestamp string `json:"timestamp"`
}

// Client is the wire-level API surface. Calls taking a token attach it as a
// bearer credential; passing "" sends the request anonymously.
type Client interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Me(ctx context.Context, token string) (*User, error)
	Root(ctx context.Context, token string) (*RootResult, error)
	Home(ctx context.Context, token string) (*HomeResult, error)
	Health(ctx context.Context) error
	Close() error
}
