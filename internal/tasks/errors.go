package tasks

import "errors"

// ErrNotFound covers both a missing task and one the caller may not touch.
var ErrNotFound = errors.New("tasks: not found")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "tasks: " + e.Message
	}
	return "tasks: " + e.Field + ": " + e.Message
}
