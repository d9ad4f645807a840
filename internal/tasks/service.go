package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard/internal/users"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Repository is the persistence contract for tasks.
// Owned operations return ErrNotFound when the row is missing or the caller
// lacks the right to change it.
type Repository interface {
	Create(ctx context.Context, t NewTask) (Task, error)
	Get(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, q ListQuery) ([]Task, int, error)
	// UpdateOwned locks the creator's task by slug and applies mutate before saving.
	UpdateOwned(ctx context.Context, taskSlug, ownerID string, now time.Time, mutate func(*Fields) error) (Task, error)
	DeleteOwned(ctx context.Context, taskSlug, ownerID string) error
	// Complete marks the task completed when callerID created it or is assigned to it.
	Complete(ctx context.Context, id, callerID string, now time.Time) (Task, error)
}

// Directory resolves assignee emails.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
}

type Service struct {
	repo  Repository
	dir   Directory
	clock func() time.Time
}

func NewService(repo Repository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir, clock: time.Now}
}

const fallbackSlug = "task"

// ParseScope maps the list "type" parameter. Empty means all.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.TrimSpace(s)) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeCreated:
		return ScopeCreated, nil
	case ScopeAssigned:
		return ScopeAssigned, nil
	}
	return "", &ValidationError{Field: "type", Message: "Invalid type parameter. Allowed values are all, created, assigned."}
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, &ValidationError{Field: "title", Message: "Title is required"}
	}

	priority := PriorityMedium
	if p := strings.TrimSpace(in.Priority); p != "" {
		priority = Priority(strings.ToLower(p))
		if !priority.Valid() {
			return Task{}, &ValidationError{Field: "priority", Message: "Invalid priority"}
		}
	}

	assigneeID, err := s.resolveAssignee(ctx, in.AssignedTo)
	if err != nil {
		return Task{}, err
	}

	base := slug.Make(title)
	if base == "" {
		base = fallbackSlug
	}

	return s.repo.Create(ctx, NewTask{
		ID:        uuid.NewString(),
		SlugBase:  base,
		CreatorID: callerID,
		Fields: Fields{
			Title:       title,
			Description: strings.TrimSpace(in.Description),
			AssigneeID:  assigneeID,
			Priority:    priority,
			Status:      StatusPending,
			DueDate:     in.DueDate,
		},
		CreatedAt: s.clock().UTC(),
	})
}

func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	if q.OwnerID == "" {
		return ListResult{}, errors.New("tasks: owner id required")
	}
	if q.Scope == "" {
		q.Scope = ScopeAll
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)

	list, total, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Tasks: list, TotalCount: total}, nil
}

func (s *Service) Update(ctx context.Context, callerID, taskSlug string, p Patch) (Task, error) {
	if strings.TrimSpace(taskSlug) == "" {
		return Task{}, &ValidationError{Field: "slug", Message: "Slug is required"}
	}

	var set Fields
	if p.Title != nil {
		set.Title = strings.TrimSpace(*p.Title)
		if set.Title == "" {
			return Task{}, &ValidationError{Field: "title", Message: "Title is required"}
		}
	}
	if p.Priority != nil {
		set.Priority = Priority(strings.ToLower(strings.TrimSpace(*p.Priority)))
		if !set.Priority.Valid() {
			return Task{}, &ValidationError{Field: "priority", Message: "Invalid priority"}
		}
	}
	if p.Status != nil {
		set.Status = Status(strings.ToLower(strings.TrimSpace(*p.Status)))
		if !set.Status.Valid() {
			return Task{}, &ValidationError{Field: "status", Message: "Invalid status"}
		}
	}
	if p.AssignedTo != nil {
		id, err := s.resolveAssignee(ctx, *p.AssignedTo)
		if err != nil {
			return Task{}, err
		}
		set.AssigneeID = id
	}

	return s.repo.UpdateOwned(ctx, taskSlug, callerID, s.clock().UTC(), func(f *Fields) error {
		if p.Title != nil {
			f.Title = set.Title
		}
		if p.Description != nil {
			f.Description = strings.TrimSpace(*p.Description)
		}
		if p.AssignedTo != nil {
			f.AssigneeID = set.AssigneeID
		}
		if p.Priority != nil {
			f.Priority = set.Priority
		}
		if p.Status != nil {
			f.Status = set.Status
		}
		if p.DueDate != nil {
			f.DueDate = p.DueDate
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, callerID, taskSlug string) error {
	if strings.TrimSpace(taskSlug) == "" {
		return &ValidationError{Field: "slug", Message: "Slug is required"}
	}
	return s.repo.DeleteOwned(ctx, taskSlug, callerID)
}

func (s *Service) Complete(ctx context.Context, callerID, taskID string) (Task, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return Task{}, &ValidationError{Field: "taskId", Message: "Task ID is required"}
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return Task{}, ErrNotFound
	}
	return s.repo.Complete(ctx, taskID, callerID, s.clock().UTC())
}

// resolveAssignee turns an email into a user id. Blank means unassigned.
func (s *Service) resolveAssignee(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", nil
	}
	u, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", &ValidationError{Field: "assignedTo", Message: "Assigned User not found"}
		}
		return "", err
	}
	return u.ID, nil
}
