package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mlipchinski/authkeeper/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates a new account.
// On success the returned session is persisted and becomes the active one.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer WipeByteArray(password)

	sess, err := a.authService.Register(ctx, username, string(password))
	if err != nil {
		a.printAuthError(err)
		return err
	}

	a.session = sess
	fmt.Printf("User created. Logged in as %s.\n", sess.User.Username)
	return nil
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer WipeByteArray(password)

	sess, err := a.authService.Login(ctx, username, string(password))
	if err != nil {
		a.printAuthError(err)
		return err
	}

	a.session = sess
	fmt.Printf("Logged in as %s.\n", sess.User.Username)
	return nil
}

// Logout clears the persisted session. Purely client-local: the token
// itself stays valid server-side until it expires.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.session = nil
	fmt.Println("Logged out.")
	return nil
}

// WhoAmI asks the server for the identity behind the current token.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.authService.CurrentUser(ctx, a.session)
	if err != nil {
		a.handleSessionError(err)
		return err
	}

	fmt.Printf("You are %s (id %s), registered %s.\n",
		user.Username, user.ID, user.CreatedAt.Format("2006-01-02"))
	return nil
}

// Home fetches the protected home page.
func (a *App) Home(ctx context.Context) error {
	home, err := a.authService.Home(ctx, a.session)
	if err != nil {
		a.handleSessionError(err)
		return err
	}

	fmt.Printf("%s (server time %s)\n", home.Message, home.Timestamp)
	return nil
}

// handleSessionError reacts to failures of authenticated calls. On a
// 401/403 the service has already wiped local storage; drop the in-memory
// session and send the user back to the login prompt.
func (a *App) handleSessionError(err error) {
	if errors.Is(err, client.ErrSessionExpired) {
		a.session = nil
		fmt.Println("Session expired, please log in again.")
		return
	}
	a.printAuthError(err)
}

// printAuthError surfaces the server's error message verbatim when present,
// else a generic fallback.
func (a *App) printAuthError(err error) {
	var serverErr *client.ServerError
	switch {
	case errors.As(err, &serverErr):
		fmt.Println(serverErr.Error())
	case errors.Is(err, client.ErrUnavailable):
		fmt.Println("Server unavailable, try again later.")
	default:
		fmt.Println("Something went wrong, try again later.")
	}
}
