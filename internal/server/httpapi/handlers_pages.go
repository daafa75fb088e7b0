package httpapi

import (
	"net/http"
	"time"
)

type rootResponse struct {
	Message       string       `json:"message"`
	Authenticated bool         `json:"authenticated"`
	Redirect      string       `json:"redirect"`
	User          *userPayload `json:"user,omitempty"`
}

// handleRoot steers the client to /home or /login depending on whether a
// valid token was presented. Sits behind the permissive gate, so anonymous
// requests still get a 200.
// GET / (optional gate)
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		writeJSON(w, http.StatusOK, rootResponse{
			Message:       "Redirecting to home",
			Authenticated: true,
			Redirect:      "/home",
			User:          &userPayload{ID: claims.UserID, Username: claims.Username},
		})
		return
	}

	writeJSON(w, http.StatusOK, rootResponse{
		Message:       "Redirecting to login",
		Authenticated: false,
		Redirect:      "/login",
	})
}

// handleLoginPage describes the unauthenticated entry point.
// GET /login
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login page",
		"page":    "login",
		"instructions": map[string]string{
			"register": "POST /api/auth/register with {username, password}",
			"login":    "POST /api/auth/login with {username, password}",
		},
	})
}

// handleHome is a protected page; identity comes straight from the verified
// claims, no store lookup needed.
// GET /home (strict gate)
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to the home page!",
		"page":      "home",
		"user":      userPayload{ID: claims.UserID, Username: claims.Username},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleHealth reports liveness.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Seconds(),
	})
}

// handleNotFound returns a JSON 404 listing the available routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": "Route not found",
		"availableRoutes": map[string][]string{
			"main":   {"GET /", "GET /login", "GET /home"},
			"auth":   {"POST /api/auth/register", "POST /api/auth/login", "GET /api/auth/me"},
			"users":  {"GET /api/users"},
			"health": {"GET /health"},
		},
	})
}
