package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/pkg/utils"
)

const emailConstraint = "users_email_key"

// PostgresRepo persists users in the users table.
// Email uniqueness is enforced by the users_email_key constraint.
type PostgresRepo struct {
	db utils.DBTX
}

func NewPostgresRepo(db utils.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const userColumns = `id, first_name, last_name, full_name, email, password_hash, role, email_verified, avatar, created_at, updated_at`

func (r *PostgresRepo) Create(ctx context.Context, u User) (User, error) {
	const q = `
INSERT INTO users (
  id, first_name, last_name, full_name, email, password_hash, role, email_verified, avatar, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
)
`
	_, err := r.db.ExecContext(ctx, q,
		u.ID,
		u.FirstName,
		u.LastName,
		u.FullName,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.EmailVerified,
		u.Avatar,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if utils.IsUniqueViolation(err, emailConstraint) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *PostgresRepo) List(ctx context.Context, excludeID string) ([]User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if excludeID == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY created_at, id`, excludeID)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) scanOne(row *sql.Row) (User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (User, error) {
	var (
		u      User
		avatar sql.NullString
	)
	err := s.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.EmailVerified,
		&avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	u.Avatar = avatar.String
	return u, nil
}
