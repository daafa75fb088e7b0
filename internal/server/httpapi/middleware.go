package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mlipchinski/authkeeper/internal/common"
	"github.com/mlipchinski/authkeeper/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ContextWithClaims attaches verified token claims to ctx. Exposed for tests
// that exercise protected handlers directly.
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims attached by the access gate, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// extractBearer pulls the token out of "Authorization: Bearer <token>".
// Returns "" when the header is absent or uses a different scheme.
func extractBearer(r *http.Request) string {
	header := r.Header.Get(common.AuthorizationHeader)
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok {
		return ""
	}
	return token
}

// requireAuth is the strict access gate: requests without a bearer token are
// rejected with 401, requests with an invalid or expired one with 403.
// Verification is purely cryptographic; no store access happens here.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// optionalAuth is the permissive access gate: a missing or invalid token
// downgrades the request to anonymous instead of terminating it.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.status = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.status = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// requestLogger emits one structured log line per request and feeds the
// metrics collector. The route label uses the chi route pattern so that
// parameterized paths do not explode metric cardinality.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if s.collector != nil {
			s.collector.RecordRequest(r.Method, route, rec.status, duration)
		}

		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", float64(duration.Nanoseconds())/float64(time.Millisecond),
		)
	})
}

// recoverer converts panics into a generic 500 response so that a single
// misbehaving handler cannot crash the process or leak internals.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error(r.Context(), "panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
