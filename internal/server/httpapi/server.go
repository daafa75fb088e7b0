// Package httpapi exposes the auth core over the JSON-over-HTTP wire
// contract: registration, login, identity lookup, and the token-gated pages.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mlipchinski/authkeeper/internal/logging"
	"github.com/mlipchinski/authkeeper/internal/server/config"
	"github.com/mlipchinski/authkeeper/internal/server/metrics"
	"github.com/mlipchinski/authkeeper/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

// Server owns the router, the access-gate middleware, and the HTTP
// lifecycle. Each request runs on its own goroutine; the only shared state
// handlers touch is the store behind the users service.
type Server struct {
	addr           string
	jwtSecret      []byte
	logger         logging.Logger
	users          *users.Service
	collector      *metrics.Collector
	metricsHandler http.Handler
	startedAt      time.Time
}

func NewServer(cfg *config.Config, logger logging.Logger, userService *users.Service, collector *metrics.Collector, metricsHandler http.Handler) *Server {
	return &Server{
		addr:           cfg.EndpointAddr,
		jwtSecret:      []byte(cfg.SecretKey),
		logger:         logger,
		users:          userService,
		collector:      collector,
		metricsHandler: metricsHandler,
		startedAt:      time.Now(),
	}
}

// Handler builds the full route table with its middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.recoverer)
	r.Use(s.requestLogger)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})

	r.With(s.requireAuth).Get("/api/users", s.handleListUsers)

	r.With(s.optionalAuth).Get("/", s.handleRoot)
	r.Get("/login", s.handleLoginPage)
	r.With(s.requireAuth).Get("/home", s.handleHome)

	r.Get("/health", s.handleHealth)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.NotFound(s.handleNotFound)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(shutdownCtx, "shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
