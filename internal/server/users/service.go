// Package users contains the credential store and the auth orchestrator:
// registration, login, and identity resolution for gate-verified claims.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mlipchinski/authkeeper/internal/common"
	"github.com/mlipchinski/authkeeper/internal/server/auth"
	"github.com/mlipchinski/authkeeper/internal/server/config"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// AuthResult bundles a freshly issued token with the identity it names.
type AuthResult struct {
	Token string
	User  *User
}

// Service composes the credential store, password hasher, and token issuer
// into the register/login/identify operations.
type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		bcryptCost:    cfg.BcryptCost,
	}
}

// Register validates the credentials, persists a new identity with a salted
// password hash, and issues a token for it. Returns
// common.ErrCredentialsMissing / common.ErrPasswordTooShort on validation
// failures and common.ErrAlreadyExists when the username is taken.
func (s *Service) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, common.ErrCredentialsMissing
	}
	if len(password) < MinPasswordLength {
		return nil, common.ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	// the hash has served its purpose; do not let it travel further up
	user.PasswordHash = ""

	return s.issue(user)
}

// Login verifies the credentials and issues a fresh token. An unknown
// username and a wrong password both return common.ErrInvalidCredentials so
// the caller cannot enumerate usernames.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, common.ErrCredentialsMissing
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	user.PasswordHash = ""

	return s.issue(user)
}

// Identify resolves the full current identity for an already-verified claim.
// Returns common.ErrNotFound when the subject no longer exists (the token
// stays structurally valid after a deletion).
func (s *Service) Identify(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// List returns one page of users (newest first) plus the total count.
// page is 1-based; limit is clamped to [1, maxPageSize].
func (s *Service) List(ctx context.Context, page, limit int) ([]*User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	list, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, common.ErrInternal
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, common.ErrInternal
	}

	return list, total, nil
}

func (s *Service) issue(user *User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}
	return &AuthResult{Token: token, User: user}, nil
}
