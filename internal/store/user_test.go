package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chesshub/apiserver/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewUserRepository(db), mock
}

func userColumns() []string {
	return []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at, updated_at").
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("u-1", "ann@example.com", "Ann", "$2a$12$hash", now, now))

	user, err := repo.GetByEmail(context.Background(), "ann@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "$2a$12$hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_HashExcludedByDefault(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at, updated_at").
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("u-1", "ann@example.com", "Ann", "$2a$12$hash", now, now))

	user, err := repo.GetByEmail(context.Background(), "ann@example.com", false)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at, updated_at").
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), types.User{
		Email:        "ann@example.com",
		Name:         "Ann",
		PasswordHash: "$2a$12$hash",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_Create_AssignsID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := repo.Create(context.Background(), types.User{
		Email:        "ann@example.com",
		Name:         "Ann",
		PasswordHash: "$2a$12$hash",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserRepository_UpdateName_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE users").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateName(context.Background(), "missing-id", "New Name")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_UpdateName(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("UPDATE users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at", "updated_at"}).
			AddRow("u-1", "ann@example.com", "Annabel", now.Add(-time.Hour), now))

	user, err := repo.UpdateName(context.Background(), "u-1", "Annabel")
	require.NoError(t, err)
	assert.Equal(t, "Annabel", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
