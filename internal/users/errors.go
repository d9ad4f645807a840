package users

import "errors"

var (
	ErrNotFound           = errors.New("users: not found")
	ErrEmailTaken         = errors.New("users: email already exists")
	ErrInvalidCredentials = errors.New("users: invalid email or password")
)

// ValidationError is a client input problem. Field is empty when it spans fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "users: " + e.Message
	}
	return "users: " + e.Field + ": " + e.Message
}
