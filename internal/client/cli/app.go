// Package cli implements the interactive AuthKeeper client: a REPL over the
// auth API with a locally persisted session.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/mlipchinski/authkeeper/internal/client/client"
	"github.com/mlipchinski/authkeeper/internal/client/config"
	"github.com/mlipchinski/authkeeper/internal/client/services"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	session     *services.Session
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DatabaseFile)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)

	sessions := services.NewSessionService(db)
	as := services.NewAuthService(apiClient, sessions)

	return &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	a.bootstrap(ctx)
	a.Root(ctx)
}

// bootstrap restores a previously persisted session and trusts it without a
// network round-trip. A stale token surfaces on the first authenticated call.
func (a *App) bootstrap(ctx context.Context) {
	sess, err := a.authService.Restore(ctx)
	if err != nil {
		log.Printf("session restore failed: %s", err.Error())
		return
	}
	if sess.IsAuthenticated() {
		a.session = sess
		log.Printf("Welcome back, %s!", sess.User.Username)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
