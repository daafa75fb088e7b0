package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlipchinski/authkeeper/internal/common"
	"github.com/mlipchinski/authkeeper/internal/logging"
	"github.com/mlipchinski/authkeeper/internal/server/auth"
	"github.com/mlipchinski/authkeeper/internal/server/config"
	"github.com/mlipchinski/authkeeper/internal/server/users"
)

const testSecret = "test-secret"

// --- test doubles ---

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (noopLogger) With(args ...any) logging.Logger                    { return noopLogger{} }

// memoryRepo is an in-memory credential store with the same uniqueness
// semantics as the postgres one.
type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*users.User // keyed by username
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*users.User)}
}

func (m *memoryRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Username]; exists {
		return nil, common.ErrAlreadyExists
	}
	stored := *u
	stored.CreatedAt = time.Now()
	m.users[u.Username] = &stored
	out := stored
	return &out, nil
}

func (m *memoryRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			out := *u
			out.PasswordHash = ""
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memoryRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*users.User, 0, len(m.users))
	for _, u := range m.users {
		out := *u
		out.PasswordHash = ""
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

// --- helpers ---

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: 24 * time.Hour,
		BcryptCost:            bcrypt.MinCost,
	}
	svc := users.NewService(newMemoryRepo(), cfg)
	srv := NewServer(cfg, noopLogger{}, svc, nil, nil)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return out
}

func register(t *testing.T, h http.Handler, username, password string) (token string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", credentialsRequest{Username: username, Password: password})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	token, _ = body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response", username)
	}
	return token
}

// --- auth flow ---

func TestRegisterThenMe(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", credentialsRequest{Username: "alice", Password: "secret1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "User created successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	token, _ := body["token"].(string)
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash in response payload")
	}

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	me := decodeBody(t, rec)
	meUser, _ := me["user"].(map[string]any)
	if meUser["username"] != "alice" {
		t.Fatalf("me endpoint returned wrong identity: %v", meUser)
	}
	if meUser["id"] != user["id"] {
		t.Fatalf("me endpoint id mismatch: %v vs %v", meUser["id"], user["id"])
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	register(t, h, "alice", "secret1")

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", credentialsRequest{Username: "alice", Password: "other-pw"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "User already exists" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	tests := []struct {
		name    string
		req     credentialsRequest
		wantMsg string
	}{
		{"missing username", credentialsRequest{Password: "secret1"}, "Username and password are required"},
		{"missing password", credentialsRequest{Username: "alice"}, "Username and password are required"},
		{"short password", credentialsRequest{Username: "alice", Password: "pw123"}, "Password must be at least 6 characters long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != tc.wantMsg {
				t.Fatalf("unexpected error message: %v", body["error"])
			}
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Invalid request body" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	register(t, h, "alice", "secret1")

	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "alice", Password: "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Login successful" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	token, _ := body["token"].(string)
	if rec := doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("login token rejected by /me: %d", rec.Code)
	}
}

func TestLogin_FailureModesIndistinguishable(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	register(t, h, "alice", "secret1")

	wrongPw := doJSON(t, h, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "alice", Password: "wrongpw"})
	unknown := doJSON(t, h, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "bob", Password: "secret1"})

	if wrongPw.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("expected 400/400, got %d/%d", wrongPw.Code, unknown.Code)
	}
	if wrongPw.Body.String() != unknown.Body.String() {
		t.Fatalf("failure responses differ:\n%s\n%s", wrongPw.Body.String(), unknown.Body.String())
	}
	if body := decodeBody(t, wrongPw); body["error"] != "Invalid credentials" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

// --- access gate over the wire ---

func TestProtectedRoutes_NoToken(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	for _, path := range []string{"/api/auth/me", "/api/users", "/home"} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "Access token required" {
			t.Fatalf("%s: unexpected error message: %v", path, body["error"])
		}
	}
}

func TestProtectedRoutes_BadToken(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	expired, err := auth.GenerateToken("u1", "alice", []byte(testSecret), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	foreign, err := auth.GenerateToken("u1", "alice", []byte("another-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	for _, tc := range []struct {
		name  string
		token string
	}{
		{"garbage", "garbage"},
		{"expired", expired},
		{"wrong secret", foreign},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodGet, "/api/auth/me", tc.token, nil)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != "Invalid or expired token" {
				t.Fatalf("unexpected error message: %v", body["error"])
			}
		})
	}
}

func TestMe_IdentityGone(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	// structurally valid token whose subject never existed in the store
	orphan, err := auth.GenerateToken("ghost-id", "ghost", []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/auth/me", orphan, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "User not found" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

// --- pages ---

func TestRoot_OptionalGate(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	token := register(t, h, "alice", "secret1")

	anon := doJSON(t, h, http.MethodGet, "/", "", nil)
	if anon.Code != http.StatusOK {
		t.Fatalf("anonymous root: expected 200, got %d", anon.Code)
	}
	body := decodeBody(t, anon)
	if body["authenticated"] != false || body["redirect"] != "/login" {
		t.Fatalf("anonymous root payload: %v", body)
	}

	// invalid token downgrades to anonymous instead of failing
	invalid := doJSON(t, h, http.MethodGet, "/", "garbage", nil)
	if invalid.Code != http.StatusOK {
		t.Fatalf("invalid-token root: expected 200, got %d", invalid.Code)
	}
	if body := decodeBody(t, invalid); body["authenticated"] != false {
		t.Fatalf("invalid token treated as authenticated: %v", body)
	}

	authed := doJSON(t, h, http.MethodGet, "/", token, nil)
	if authed.Code != http.StatusOK {
		t.Fatalf("authenticated root: expected 200, got %d", authed.Code)
	}
	body = decodeBody(t, authed)
	if body["authenticated"] != true || body["redirect"] != "/home" {
		t.Fatalf("authenticated root payload: %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("authenticated root user payload: %v", user)
	}
}

func TestHome_WithToken(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	token := register(t, h, "alice", "secret1")

	rec := doJSON(t, h, http.MethodGet, "/home", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Welcome to the home page!" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"].(string)); err != nil {
		t.Fatalf("timestamp is not RFC3339: %v", body["timestamp"])
	}
}

func TestLoginPageAndHealth(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	login := doJSON(t, h, http.MethodGet, "/login", "", nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login page: expected 200, got %d", login.Code)
	}
	if body := decodeBody(t, login); body["page"] != "login" {
		t.Fatalf("unexpected login page payload: %v", body)
	}

	health := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if health.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", health.Code)
	}
	if body := decodeBody(t, health); body["status"] != "OK" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestUnknownRoute_JSON404(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/no/such/route", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("404 is not JSON: %q", ct)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Route not found" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
	if _, ok := body["availableRoutes"]; !ok {
		t.Fatalf("404 body does not list available routes")
	}
}

// --- user listing ---

func TestListUsers(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	var token string
	for i := 0; i < 3; i++ {
		token = register(t, h, fmt.Sprintf("user%d", i), "secret1")
	}

	rec := doJSON(t, h, http.MethodGet, "/api/users?page=1&limit=2", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp userListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("expected total 3, got %d", resp.Total)
	}
	if len(resp.Users) != 2 {
		t.Fatalf("expected 2 users on the page, got %d", len(resp.Users))
	}
	if resp.Page != 1 || resp.Limit != 2 {
		t.Fatalf("paging echo mismatch: page=%d limit=%d", resp.Page, resp.Limit)
	}
}

func TestListUsers_PagingDefaults(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	token := register(t, h, "alice", "secret1")

	rec := doJSON(t, h, http.MethodGet, "/api/users?page=-1&limit=0", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp userListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Page != 1 || resp.Limit != 10 {
		t.Fatalf("defaults not applied: page=%d limit=%d", resp.Page, resp.Limit)
	}
}
