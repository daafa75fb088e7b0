package httpapi

import (
	"net/http"
	"strconv"
)

type userListResponse struct {
	Users []userPayload `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// handleListUsers returns one page of registered users, newest first.
// GET /api/users?page=&limit= (strict gate)
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	list, total, err := s.users.List(r.Context(), page, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	payload := make([]userPayload, 0, len(list))
	for _, u := range list {
		payload = append(payload, toUserPayload(u))
	}

	writeJSON(w, http.StatusOK, userListResponse{
		Users: payload,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
