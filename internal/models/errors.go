package models

import "errors"

// Validation errors for user-supplied task fields. These are always
// recoverable: the conversation layer re-prompts and the user retries
// the same step.
var (
	// ErrEmptyText is returned when a task is created or edited with empty text
	ErrEmptyText = errors.New("task text must not be empty")

	// ErrBadDeadline is returned when a deadline does not match DD.MM.YYYY HH:MM
	ErrBadDeadline = errors.New("deadline must match DD.MM.YYYY HH:MM")

	// ErrBadPriority is returned when a priority is outside the presented ranks
	ErrBadPriority = errors.New("priority must be 1, 2 or 3")
)

// IsValidation reports whether err is one of the recoverable input errors
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrBadDeadline) ||
		errors.Is(err, ErrBadPriority)
}
