package audit

import (
	"context"
	"database/sql"
	"fmt"

	"taskboard/pkg/utils"
)

// PostgresRepo appends events to the auth_events table.
type PostgresRepo struct {
	db utils.DBTX
}

func NewPostgresRepo(db utils.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO auth_events (
  id, type, user_id, email, ip_address, user_agent, message, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Type,
		sql.NullString{String: e.UserID, Valid: e.UserID != ""},
		e.Email,
		e.IPAddress,
		e.UserAgent,
		e.Message,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
