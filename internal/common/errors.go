// Package common defines shared constants and sentinel errors used across
// client and server layers of AuthKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors surfaced by the auth orchestrator.
	ErrCredentialsMissing = errors.New("username and password are required")
	ErrPasswordTooShort   = errors.New("password too short")

	// Login failures: unknown username and wrong password are deliberately
	// collapsed into this single value so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
