package audit

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records authentication events.
//
// Callers should treat audit logging as best-effort and never fail a
// request because Append failed.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

const maxUserAgent = 512

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	e.UserAgent = truncate(e.UserAgent, maxUserAgent)
	return s.repo.Append(ctx, e)
}

// Record appends an event of type t for the given user and client.
func (s *Service) Record(ctx context.Context, t EventType, userID, email string, c Client, message string) error {
	return s.Append(ctx, Event{
		Type:      t,
		UserID:    userID,
		Email:     email,
		IPAddress: c.IP,
		UserAgent: c.UserAgent,
		Message:   message,
	})
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
