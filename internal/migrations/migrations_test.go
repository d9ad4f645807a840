package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	raw, err := fs.ReadFile(Migrations, "00001_init.sql")
	require.NoError(t, err)
	body := string(raw)
	for _, want := range []string{"-- +goose Up", "-- +goose Down", "users_email_key", "task_slug_seq", "auth_events"} {
		assert.True(t, strings.Contains(body, want), "missing %q", want)
	}
}

func TestUpUsesEmbeddedDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, d *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return errors.New("boom")
	}

	err = Up(context.Background(), db)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, ".", gotDir)
}

func TestRunUnknownCommand(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, Run(context.Background(), db, "sideways"))
}
