// Package client implements the Go API client and the session state the
// CLI commands operate on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chesshub/apiserver/types"
)

// APIError is a non-2xx reply from the server, carrying the server's
// message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a thin HTTP client for the auth API. It is not safe for
// concurrent use; callers are expected to drive it from a single goroutine.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
// An empty string clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

// AuthResult is the parsed register/login reply.
type AuthResult struct {
	Token string
	User  types.User
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var reply authReply
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &reply); err != nil {
		return nil, err
	}
	return &AuthResult{Token: reply.Token, User: reply.Data.User}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var reply authReply
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &reply); err != nil {
		return nil, err
	}
	return &AuthResult{Token: reply.Token, User: reply.Data.User}, nil
}

func (c *Client) Me(ctx context.Context) (types.User, error) {
	var reply userReply
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &reply); err != nil {
		return types.User{}, err
	}
	return reply.Data.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name string) (types.User, error) {
	body := map[string]string{"name": name}
	var reply userReply
	if err := c.do(ctx, http.MethodPatch, "/api/auth/profile", body, &reply); err != nil {
		return types.User{}, err
	}
	return reply.Data.User, nil
}

type userData struct {
	User types.User `json:"user"`
}

type authReply struct {
	Status string   `json:"status"`
	Token  string   `json:"token"`
	Data   userData `json:"data"`
}

type userReply struct {
	Status string   `json:"status"`
	Data   userData `json:"data"`
}

type errorReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var reply errorReply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil || reply.Message == "" {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: reply.Message}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
