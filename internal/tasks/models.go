package tasks

import (
	"math"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// UserRef is the public projection of a user embedded in a task.
type UserRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

type Task struct {
	ID          string     `json:"id" db:"id"`
	Slug        string     `json:"slug" db:"slug"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	CreatedBy   UserRef    `json:"createdBy"`
	AssignedTo  *UserRef   `json:"assignedTo"`
	Priority    Priority   `json:"priority" db:"priority"`
	Status      Status     `json:"status" db:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Fields is the mutable part of a task row. AssigneeID is empty when unassigned.
type Fields struct {
	Title       string
	Description string
	AssigneeID  string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
}

// NewTask is what the service hands to a repository on create.
// The repository appends a sequence number to SlugBase.
type NewTask struct {
	ID        string
	SlugBase  string
	CreatorID string
	Fields
	CreatedAt time.Time
}

// Scope selects which of the caller's tasks a listing covers.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeCreated  Scope = "created"
	ScopeAssigned Scope = "assigned"
)

const (
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
	// MaxOffset bounds how far pagination may skip.
	MaxOffset = math.MaxInt32
)

type ListQuery struct {
	OwnerID string
	Scope   Scope
	Search  string
	Page    int
	// Limit 0 returns every match.
	Limit int
}

func (q ListQuery) Offset() int {
	if q.Limit <= 0 || q.Page <= 1 {
		return 0
	}
	if q.Page-1 > MaxOffset/q.Limit {
		return MaxOffset
	}
	return (q.Page - 1) * q.Limit
}

type ListResult struct {
	Tasks      []Task
	TotalCount int
}

type CreateInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assignedTo"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// Patch carries optional updates; nil leaves a field unchanged.
// AssignedTo is an email; an empty string unassigns.
type Patch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assignedTo"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}
