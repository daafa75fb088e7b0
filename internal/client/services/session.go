// Package services contains application services for the AuthKeeper CLI:
// session bootstrap/persistence and the authentication flows built on it.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mlipchinski/authkeeper/internal/client/client"
	"github.com/mlipchinski/authkeeper/internal/client/repositories/session"
	"github.com/mlipchinski/authkeeper/internal/dbx"
)

// Storage keys for the persisted session. Absence of either key means the
// client is unauthenticated.
const (
	keyToken = "token"
	keyUser  = "user"
)

// Session is the client-side session state: the bearer token plus a
// denormalized copy of the identity it belongs to.
type Session struct {
	Token string
	User  *client.User
}

// IsAuthenticated is derived: true iff both token and user are present.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// SessionService owns the persisted session.
//
// Contract:
//   - Restore: rehydrate the session from local storage without any network
//     round-trip; returns nil when no complete session is stored. The
//     restored session is trusted optimistically — validity is only proven
//     or disproven by the next server call.
//   - Save: persist token+user atomically.
//   - Clear: wipe the persisted state (logout, or a 401/403 signal).
type SessionService interface {
	Restore(ctx context.Context) (*Session, error)
	Save(ctx context.Context, token string, user *client.User) error
	Clear(ctx context.Context) error
}

type sessionService struct {
	db *sql.DB
}

func NewSessionService(db *sql.DB) SessionService {
	return &sessionService{db: db}
}

func (s *sessionService) getRepo() session.Repository {
	return session.NewSQLiteRepository(s.db)
}

func (s *sessionService) Restore(ctx context.Context) (*Session, error) {
	repo := s.getRepo()

	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return nil, fmt.Errorf("error reading token: %w", err)
	}
	rawUser, err := repo.Get(ctx, keyUser)
	if err != nil {
		return nil, fmt.Errorf("error reading user: %w", err)
	}

	// both keys must be present; a partial session counts as none
	if len(token) == 0 || len(rawUser) == 0 {
		return nil, nil
	}

	user := &client.User{}
	if err := json.Unmarshal(rawUser, user); err != nil {
		// corrupt local state: treat as unauthenticated rather than failing
		return nil, nil
	}

	return &Session{Token: string(token), User: user}, nil
}

func (s *sessionService) Save(ctx context.Context, token string, user *client.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, rawUser)
	})
}

func (s *sessionService) Clear(ctx context.Context) error {
	return s.getRepo().Clear(ctx)
}
