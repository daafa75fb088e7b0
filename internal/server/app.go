// Package server initializes and runs the AuthKeeper server: it opens the
// database, applies migrations, wires the auth services into the HTTP API,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlipchinski/authkeeper/internal/logging"
	"github.com/mlipchinski/authkeeper/internal/server/config"
	"github.com/mlipchinski/authkeeper/internal/server/httpapi"
	"github.com/mlipchinski/authkeeper/internal/server/metrics"
	"github.com/mlipchinski/authkeeper/internal/server/migrations"
	"github.com/mlipchinski/authkeeper/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := initDatabase(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := users.NewService(users.NewPostgresRepository(db), cfg)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	srv := httpapi.NewServer(cfg, logger, userService, collector, metricsHandler)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func initDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose dialect error: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
