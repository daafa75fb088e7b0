package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mlipchinski/authkeeper/internal/common"
)

// HTTPClient is the concrete Client speaking the JSON-over-HTTP contract.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	result := &AuthResult{}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", "", credentialsRequest{username, password}, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	result := &AuthResult{}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentialsRequest{username, password}, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*User, error) {
	result := &struct {
		User *User `json:"user"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, result); err != nil {
		return nil, err
	}
	return result.User, nil
}

func (c *HTTPClient) Root(ctx context.Context, token string) (*RootResult, error) {
	result := &RootResult{}
	if err := c.do(ctx, http.MethodGet, "/", token, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) Home(ctx context.Context, token string) (*HomeResult, error) {
	result := &HomeResult{}
	if err := c.do(ctx, http.MethodGet, "/home", token, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// do performs one JSON round-trip. A transport-level failure maps to
// ErrUnavailable, 401/403 to ErrSessionExpired, and any other non-2xx status
// to a ServerError carrying the server's error message when present.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body *bytes.Buffer
	if in != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
	}

	var reqBody = bytes.NewReader(nil)
	if body != nil {
		reqBody = bytes.NewReader(body.Bytes())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrSessionExpired
	}

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &ServerError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
