package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/chesshub/apiserver/types"
)

const genericErrorMessage = "Unable to reach server"

// TokenStore persists the session token between runs. A store holds at
// most one token.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore stores the token at path. DefaultTokenPath gives the
// conventional location.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath is the token file under the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chesshub", "token"), nil
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Session is the client-side auth state: the current user, the last error
// message, and the persisted token. It is built for a single cooperative
// caller and is not goroutine-safe.
type Session struct {
	api     *Client
	store   TokenStore
	user    *types.User
	lastErr string
}

func NewSession(api *Client, store TokenStore) *Session {
	return &Session{api: api, store: store}
}

// Init restores a previous session. If a persisted token exists it is
// validated against the server; a token the server rejects is discarded and
// the session starts logged out. Init itself only fails on storage errors.
func (s *Session) Init(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.api.SetToken(token)
	user, err := s.api.Me(ctx)
	if err != nil {
		s.api.SetToken("")
		_ = s.store.Clear()
		return nil
	}

	s.user = &user
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	s.lastErr = ""
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.record(err)
		return err
	}
	return s.establish(result)
}

func (s *Session) Register(ctx context.Context, email, password, name string) error {
	s.lastErr = ""
	result, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		s.record(err)
		return err
	}
	return s.establish(result)
}

// Logout discards the persisted token and clears the user. Purely local;
// the token stays valid server-side until it expires.
func (s *Session) Logout() error {
	s.api.SetToken("")
	s.user = nil
	return s.store.Clear()
}

func (s *Session) UpdateProfile(ctx context.Context, name string) error {
	s.lastErr = ""
	user, err := s.api.UpdateProfile(ctx, name)
	if err != nil {
		s.record(err)
		return err
	}
	s.user = &user
	return nil
}

// User returns the current user, or nil when logged out.
func (s *Session) User() *types.User {
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.user != nil
}

// LastError is the message to surface in UI: the server's message verbatim
// for API failures, a generic one for transport failures.
func (s *Session) LastError() string {
	return s.lastErr
}

func (s *Session) establish(result *AuthResult) error {
	s.api.SetToken(result.Token)
	user := result.User
	s.user = &user
	return s.store.Save(result.Token)
}

func (s *Session) record(err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		s.lastErr = apiErr.Message
		return
	}
	s.lastErr = genericErrorMessage
}
