package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlipchinski/authkeeper/internal/common"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

// handleRegister creates a new identity and issues its first token.
// POST /api/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   result.Token,
		User:    toUserPayload(result.User),
	})
}

// handleLogin verifies credentials and issues a fresh token.
// POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    toUserPayload(result.User),
	})
}

// handleMe resolves the gate-verified claim to the current identity record.
// GET /api/auth/me (strict gate)
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	user, err := s.users.Identify(r.Context(), claims.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]userPayload{"user": toUserPayload(user)})
}

// writeServiceError translates the orchestrator's error taxonomy into the
// wire contract. Anything unrecognized is logged and reported as a generic
// 500 so internal details never leak.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrCredentialsMissing):
		writeError(w, http.StatusBadRequest, "Username and password are required")
	case errors.Is(err, common.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		s.logger.Error(r.Context(), "request failed", "error", err.Error(), "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
