package audit

import "time"

// Event is an immutable, append-only record of an authentication event.
//
// Invariants:
// - Events are never updated or deleted.
// - UserID and Email are set when known; IP and user agent are best-effort.
// - Tokens and passwords are never recorded.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	UserID string `json:"user_id,omitempty" db:"user_id"`
	Email  string `json:"email,omitempty" db:"email"`

	// IPAddress is the client IP as resolved by the router.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string `json:"user_agent,omitempty" db:"user_agent"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventSignup          EventType = "signup"
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
	EventLogout          EventType = "logout"
	EventTokenRefreshed  EventType = "token_refreshed"
	EventRefreshRejected EventType = "refresh_rejected"
)

// Client identifies where a request came from.
type Client struct {
	IP        string
	UserAgent string
}
