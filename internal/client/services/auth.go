package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlipchinski/authkeeper/internal/client/client"
)

// AuthService defines the authentication operations for the CLI.
//
// Contract:
//   - Register/Login: authenticate against the server and persist the
//     returned token+user pair.
//   - Restore: optimistic session bootstrap from local storage.
//   - CurrentUser/Home: authenticated calls; on a 401/403 answer the
//     persisted session is cleared before the error is returned (global
//     policy, not per-call).
//   - Logout: client-local only — the server keeps no session state, and an
//     issued token stays valid until it expires naturally.
//
// All methods honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*Session, error)
	CurrentUser(ctx context.Context, sess *Session) (*client.User, error)
	Home(ctx context.Context, sess *Session) (*client.HomeResult, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions SessionService
}

func NewAuthService(apiClient client.Client, sessions SessionService) AuthService {
	return &authService{client: apiClient, sessions: sessions}
}

func (a *authService) Register(ctx context.Context, username, password string) (*Session, error) {
	result, err := a.client.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return a.persist(ctx, result)
}

func (a *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	result, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return a.persist(ctx, result)
}

func (a *authService) persist(ctx context.Context, result *client.AuthResult) (*Session, error) {
	if err := a.sessions.Save(ctx, result.Token, result.User); err != nil {
		return nil, fmt.Errorf("error persisting session: %w", err)
	}
	return &Session{Token: result.Token, User: result.User}, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

func (a *authService) Restore(ctx context.Context) (*Session, error) {
	return a.sessions.Restore(ctx)
}

func (a *authService) CurrentUser(ctx context.Context, sess *Session) (*client.User, error) {
	user, err := a.client.Me(ctx, sess.Token)
	if err != nil {
		return nil, a.invalidateIfExpired(ctx, err)
	}
	return user, nil
}

func (a *authService) Home(ctx context.Context, sess *Session) (*client.HomeResult, error) {
	home, err := a.client.Home(ctx, sess.Token)
	if err != nil {
		return nil, a.invalidateIfExpired(ctx, err)
	}
	return home, nil
}

// invalidateIfExpired implements the client's lazy session invalidation:
// any 401/403 from the server wipes the persisted session.
func (a *authService) invalidateIfExpired(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		if clearErr := a.sessions.Clear(ctx); clearErr != nil {
			return fmt.Errorf("%w (and clearing local session failed: %w)", err, clearErr)
		}
	}
	return err
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Health(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
