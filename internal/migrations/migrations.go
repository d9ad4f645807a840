// Package migrations embeds the Postgres schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func setup() error {
	goose.SetBaseFS(Migrations)
	return goose.SetDialect("pgx")
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	return Run(ctx, db, CommandUp)
}

// Run executes a goose command against the embedded migrations.
func Run(ctx context.Context, db *sql.DB, command string) error {
	if err := setup(); err != nil {
		return err
	}
	switch command {
	case CommandUp:
		return gooseUpContext(ctx, db, ".")
	case CommandDown:
		return goose.DownContext(ctx, db, ".")
	case CommandStatus:
		return goose.StatusContext(ctx, db, ".")
	case CommandVersion:
		return goose.VersionContext(ctx, db, ".")
	default:
		return fmt.Errorf("migrations: unknown command %q", command)
	}
}
