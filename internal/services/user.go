package services

import (
	"context"
	"errors"
	"strings"

	"github.com/chesshub/apiserver/internal/auth"
	"github.com/chesshub/apiserver/internal/store"
	"github.com/chesshub/apiserver/types"
)

// ErrInvalidCredentials is returned by Authenticate for both unknown emails
// and wrong passwords. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string, includeHash bool) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateName(ctx context.Context, id string, name string) (types.User, error)
}

// UserService encapsulates account use-cases: registration, credential
// verification, lookup, and profile updates.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register hashes the password and persists a new user. A concurrent
// registration of the same email loses at the store's unique index and
// surfaces store.ErrDuplicateEmail just like the pre-check does.
func (s *UserService) Register(ctx context.Context, email, password, name string) (types.User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if _, err := s.repo.GetByEmail(ctx, email, false); err == nil {
		return types.User{}, store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
	})
	if err != nil {
		return types.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies an email/password pair and returns the user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email), true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateName(ctx context.Context, id string, name string) (types.User, error) {
	return s.repo.UpdateName(ctx, id, strings.TrimSpace(name))
}

// NormalizeEmail lowercases and trims an email the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
