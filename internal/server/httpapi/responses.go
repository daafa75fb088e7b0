package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mlipchinski/authkeeper/internal/server/users"
)

// userPayload is the public projection of an identity. The password hash
// never appears here. CreatedAt is omitted when the payload is built from
// token claims only (the token does not carry it).
type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func toUserPayload(u *users.User) userPayload {
	return userPayload{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
