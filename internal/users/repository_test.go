package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepo(db), mock, db
}

var userRowColumns = []string{"id", "first_name", "last_name", "full_name", "email", "password_hash", "role", "email_verified", "avatar", "created_at", "updated_at"}

func TestPostgresRepo_CreateSuccess(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	u := User{ID: "u-1", FirstName: "Ada", LastName: "Lovelace", FullName: "Ada Lovelace", Email: "ada@x.io", PasswordHash: "h", Role: RoleUser, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users\s*\(`).
		WithArgs("u-1", "Ada", "Lovelace", "Ada Lovelace", "ada@x.io", "h", "user", false, "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_CreateDuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), User{ID: "u-1", Email: "ada@x.io"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestPostgresRepo_CreateDBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), User{ID: "u-1"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestPostgresRepo_FindByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u-1", "Ada", "Lovelace", "Ada Lovelace", "ada@x.io", "h", "admin", true, nil, now, now)
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("ada@x.io").
		WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "ada@x.io")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, RoleAdmin, got.Role)
	assert.True(t, got.EmailVerified)
	assert.Empty(t, got.Avatar)
}

func TestPostgresRepo_FindByIDNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepo_ListExcludesCaller(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u-2", "Bob", "B", "Bob B", "bob@x.io", "h", "user", false, "a.png", now, now)
	mock.ExpectQuery(`(?s)FROM\s+users\s+WHERE\s+id\s*<>\s*\$1\s+ORDER\s+BY\s+created_at`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob@x.io", got[0].Email)
	assert.Equal(t, "a.png", got[0].Avatar)
}

func TestPostgresRepo_ListAllEmpty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+users\s+ORDER\s+BY`).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	got, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
