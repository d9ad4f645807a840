package tasks

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskboard/internal/users"
)

// UserSource hydrates user refs for the in-memory repository.
type UserSource interface {
	FindByID(ctx context.Context, id string) (users.User, error)
}

type memRow struct {
	id        string
	slug      string
	creatorID string
	fields    Fields
	createdAt time.Time
	updatedAt time.Time
}

// MemoryRepo is an in-memory repository useful for tests.
type MemoryRepo struct {
	mu    sync.Mutex
	users UserSource
	seq   int64
	rows  []*memRow
}

func NewMemoryRepo(users UserSource) *MemoryRepo {
	return &MemoryRepo{users: users}
}

func (r *MemoryRepo) Create(ctx context.Context, t NewTask) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	row := &memRow{
		id:        t.ID,
		slug:      t.SlugBase + "-" + strconv.FormatInt(r.seq, 10),
		creatorID: t.CreatorID,
		fields:    t.Fields,
		createdAt: t.CreatedAt,
		updatedAt: t.CreatedAt,
	}
	r.rows = append(r.rows, row)
	return r.hydrate(ctx, row), nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.id == id {
			return r.hydrate(ctx, row), nil
		}
	}
	return Task{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, q ListQuery) ([]Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(q.Search)
	var matched []*memRow
	for _, row := range r.rows {
		if !inScope(row, q) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.fields.Title), search) &&
			!strings.Contains(strings.ToLower(row.fields.Description), search) {
			continue
		}
		matched = append(matched, row)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].createdAt.After(matched[j].createdAt) })

	total := len(matched)
	if q.Limit > 0 {
		off := q.Offset()
		if off > len(matched) {
			off = len(matched)
		}
		end := len(matched)
		if q.Limit < end-off {
			end = off + q.Limit
		}
		matched = matched[off:end]
	}

	out := make([]Task, 0, len(matched))
	for _, row := range matched {
		out = append(out, r.hydrate(ctx, row))
	}
	return out, total, nil
}

func inScope(row *memRow, q ListQuery) bool {
	created := row.creatorID == q.OwnerID
	assigned := row.fields.AssigneeID != "" && row.fields.AssigneeID == q.OwnerID
	switch q.Scope {
	case ScopeCreated:
		return created
	case ScopeAssigned:
		return assigned
	default:
		return created || assigned
	}
}

func (r *MemoryRepo) UpdateOwned(ctx context.Context, taskSlug, ownerID string, now time.Time, mutate func(*Fields) error) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.slug != taskSlug || row.creatorID != ownerID {
			continue
		}
		f := row.fields
		if err := mutate(&f); err != nil {
			return Task{}, err
		}
		row.fields = f
		row.updatedAt = now
		return r.hydrate(ctx, row), nil
	}
	return Task{}, ErrNotFound
}

func (r *MemoryRepo) DeleteOwned(ctx context.Context, taskSlug, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.slug == taskSlug && row.creatorID == ownerID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) Complete(ctx context.Context, id, callerID string, now time.Time) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.id != id {
			continue
		}
		if row.creatorID != callerID && row.fields.AssigneeID != callerID {
			return Task{}, ErrNotFound
		}
		row.fields.Status = StatusCompleted
		row.updatedAt = now
		return r.hydrate(ctx, row), nil
	}
	return Task{}, ErrNotFound
}

func (r *MemoryRepo) hydrate(ctx context.Context, row *memRow) Task {
	t := Task{
		ID:          row.id,
		Slug:        row.slug,
		Title:       row.fields.Title,
		Description: row.fields.Description,
		CreatedBy:   r.ref(ctx, row.creatorID),
		Priority:    row.fields.Priority,
		Status:      row.fields.Status,
		DueDate:     row.fields.DueDate,
		CreatedAt:   row.createdAt,
		UpdatedAt:   row.updatedAt,
	}
	if row.fields.AssigneeID != "" {
		ref := r.ref(ctx, row.fields.AssigneeID)
		t.AssignedTo = &ref
	}
	return t
}

func (r *MemoryRepo) ref(ctx context.Context, id string) UserRef {
	ref := UserRef{ID: id}
	if r.users == nil {
		return ref
	}
	if u, err := r.users.FindByID(ctx, id); err == nil {
		ref.FullName = u.FullName
		ref.Email = u.Email
		ref.Avatar = u.Avatar
	}
	return ref
}
