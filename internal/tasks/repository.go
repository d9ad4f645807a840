package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskboard/pkg/utils"
)

// PostgresRepo stores tasks in the tasks table. Slugs take their numeric
// suffix from task_slug_seq.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const selectTask = `
SELECT t.id, t.slug, t.title, t.description, t.priority, t.status, t.due_date, t.created_at, t.updated_at,
  c.id, c.full_name, c.email, c.avatar,
  a.id, a.full_name, a.email, a.avatar
FROM tasks t
JOIN users c ON c.id = t.created_by
LEFT JOIN users a ON a.id = t.assigned_to
`

func (r *PostgresRepo) Create(ctx context.Context, t NewTask) (Task, error) {
	const q = `
INSERT INTO tasks (
  id, slug, title, description, created_by, assigned_to, priority, status, due_date, created_at, updated_at
) VALUES (
  $1, $2 || '-' || nextval('task_slug_seq'), $3, $4, $5, $6, $7, $8, $9, $10, $10
)
`
	_, err := r.db.ExecContext(ctx, q,
		t.ID,
		t.SlugBase,
		t.Title,
		t.Description,
		t.CreatorID,
		nullString(t.AssigneeID),
		t.Priority,
		t.Status,
		t.DueDate,
		t.CreatedAt,
	)
	if err != nil {
		return Task{}, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, t.ID)
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Task, error) {
	return getTask(ctx, r.db, id)
}

func getTask(ctx context.Context, db utils.DBTX, id string) (Task, error) {
	t, err := scanTask(db.QueryRowContext(ctx, selectTask+`WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepo) List(ctx context.Context, q ListQuery) ([]Task, int, error) {
	where, args := listFilter(q)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM tasks t WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := selectTask + `WHERE ` + where + ` ORDER BY t.created_at DESC, t.id DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit, q.Offset())
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return out, total, nil
}

// listFilter builds the WHERE clause. The search term narrows the ownership
// scope and never replaces it.
func listFilter(q ListQuery) (string, []any) {
	args := []any{q.OwnerID}
	var where string
	switch q.Scope {
	case ScopeCreated:
		where = `t.created_by = $1`
	case ScopeAssigned:
		where = `t.assigned_to = $1`
	default:
		where = `(t.created_by = $1 OR t.assigned_to = $1)`
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		where += ` AND (t.title ILIKE $2 ESCAPE '\' OR t.description ILIKE $2 ESCAPE '\')`
	}
	return where, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *PostgresRepo) UpdateOwned(ctx context.Context, taskSlug, ownerID string, now time.Time, mutate func(*Fields) error) (Task, error) {
	var out Task
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const lockQ = `
SELECT id, title, description, assigned_to, priority, status, due_date
FROM tasks
WHERE slug = $1 AND created_by = $2
FOR UPDATE
`
		var (
			id       string
			f        Fields
			assignee sql.NullString
			due      sql.NullTime
		)
		if err := tx.QueryRowContext(ctx, lockQ, taskSlug, ownerID).Scan(
			&id,
			&f.Title,
			&f.Description,
			&assignee,
			&f.Priority,
			&f.Status,
			&due,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		f.AssigneeID = assignee.String
		if due.Valid {
			f.DueDate = &due.Time
		}

		if err := mutate(&f); err != nil {
			return err
		}

		const updQ = `
UPDATE tasks
SET title = $2, description = $3, assigned_to = $4, priority = $5, status = $6, due_date = $7, updated_at = $8
WHERE id = $1
`
		if _, err := tx.ExecContext(ctx, updQ,
			id,
			f.Title,
			f.Description,
			nullString(f.AssigneeID),
			f.Priority,
			f.Status,
			f.DueDate,
			now,
		); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return out, nil
}

func (r *PostgresRepo) DeleteOwned(ctx context.Context, taskSlug, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE slug = $1 AND created_by = $2`, taskSlug, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepo) Complete(ctx context.Context, id, callerID string, now time.Time) (Task, error) {
	const q = `
UPDATE tasks
SET status = $3, updated_at = $4
WHERE id = $1 AND (created_by = $2 OR assigned_to = $2)
`
	res, err := r.db.ExecContext(ctx, q, id, callerID, StatusCompleted, now)
	if err != nil {
		return Task{}, fmt.Errorf("db error: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return Task{}, err
	}
	return r.Get(ctx, id)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (Task, error) {
	var (
		t             Task
		due           sql.NullTime
		creatorAvatar sql.NullString
		aID, aName    sql.NullString
		aEmail, aAvtr sql.NullString
	)
	err := s.Scan(
		&t.ID,
		&t.Slug,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Status,
		&due,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CreatedBy.ID,
		&t.CreatedBy.FullName,
		&t.CreatedBy.Email,
		&creatorAvatar,
		&aID,
		&aName,
		&aEmail,
		&aAvtr,
	)
	if err != nil {
		return Task{}, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	t.CreatedBy.Avatar = creatorAvatar.String
	if aID.Valid {
		t.AssignedTo = &UserRef{ID: aID.String, FullName: aName.String, Email: aEmail.String, Avatar: aAvtr.String}
	}
	return t, nil
}
