package users

import "time"

// User is the server-side identity record.
//
// PasswordHash is only populated on the credential-verification path
// (GetByUsername); every other read leaves it empty so the hash cannot leak
// into responses or logs by accident.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
