package users

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a persisted account. Email is stored lower-cased and is unique.
// PasswordHash never leaves the process.
type User struct {
	ID            string    `json:"id" db:"id"`
	FirstName     string    `json:"firstName" db:"first_name"`
	LastName      string    `json:"lastName" db:"last_name"`
	FullName      string    `json:"fullName" db:"full_name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Role          Role      `json:"role" db:"role"`
	EmailVerified bool      `json:"emailVerified" db:"email_verified"`
	Avatar        string    `json:"avatar,omitempty" db:"avatar"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Summary is the minimal projection returned by the refresh flow.
type Summary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Email: u.Email, Role: u.Role}
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}
