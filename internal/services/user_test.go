package services

import (
	"context"
	"strings"
	"testing"

	"github.com/chesshub/apiserver/internal/auth"
	"github.com/chesshub/apiserver/internal/store"
	"github.com/chesshub/apiserver/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUserRepo is an in-memory UserRepository for service tests.
type memoryUserRepo struct {
	byID map[string]types.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byID: make(map[string]types.User)}
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (types.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string, includeHash bool) (types.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			if !includeHash {
				user.PasswordHash = ""
			}
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memoryUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	r.byID[user.ID] = user
	return user, nil
}

func (r *memoryUserRepo) UpdateName(_ context.Context, id string, name string) (types.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	user.Name = name
	r.byID[id] = user
	user.PasswordHash = ""
	return user, nil
}

func TestUserService_Register(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), "  Ann@Example.COM ", "password123", " Ann ")
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "Ann", user.Name)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")

	stored := repo.byID[user.ID]
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, auth.CheckPassword("password123", stored.PasswordHash))
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "ann@example.com", "password123", "Ann")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ANN@example.com", "different-pass", "Other Ann")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
	require.Len(t, repo.byID, 1)
}

func TestUserService_Authenticate(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "ann@example.com", "password123", "Ann")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "ann@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestUserService_Authenticate_FailuresIndistinguishable(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "ann@example.com", "password123", "Ann")
	require.NoError(t, err)

	_, wrongPass := svc.Authenticate(context.Background(), "ann@example.com", "wrong-password")
	_, unknownUser := svc.Authenticate(context.Background(), "ghost@example.com", "password123")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknownUser.Error())
}

func TestUserService_UpdateName(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), "ann@example.com", "password123", "Ann")
	require.NoError(t, err)

	updated, err := svc.UpdateName(context.Background(), user.ID, "  Annabel  ")
	require.NoError(t, err)
	assert.Equal(t, "Annabel", updated.Name)

	_, err = svc.UpdateName(context.Background(), "missing-id", "Nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.COM "))
	assert.Equal(t, "a@b.com", NormalizeEmail(strings.ToUpper("a@b.com")))
}
