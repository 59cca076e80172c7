package models

import (
	"time"
)

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority ranks a task; smaller value means more urgent
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// Valid reports whether p is one of the presented priority ranks
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// Default category labels offered in the category keyboard. The store
// treats the category opaquely, so free-text categories are fine too.
const (
	CategoryWork     = "Work"
	CategoryPersonal = "Personal"
	CategoryShopping = "Shopping"
	CategoryStudy    = "Study"
	CategoryOther    = "Other"
)

// DefaultCategories lists the labels offered when creating a task
var DefaultCategories = []string{
	CategoryWork,
	CategoryPersonal,
	CategoryShopping,
	CategoryStudy,
	CategoryOther,
}

// Task represents a user-owned unit of work with a deadline
type Task struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Text         string     `json:"text"`
	Category     string     `json:"category"`
	Deadline     time.Time  `json:"deadline"`
	Priority     Priority   `json:"priority"`
	Status       TaskStatus `json:"status"`
	ReminderSent bool       `json:"reminder_sent"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TaskUpdate is a partial patch applied to an existing task. Only
// non-nil fields are written.
type TaskUpdate struct {
	Text         *string
	Category     *string
	Deadline     *time.Time
	Priority     *Priority
	Status       *TaskStatus
	ReminderSent *bool
}

// IsEmpty reports whether the patch carries no fields at all
func (u TaskUpdate) IsEmpty() bool {
	return u.Text == nil && u.Category == nil && u.Deadline == nil &&
		u.Priority == nil && u.Status == nil && u.ReminderSent == nil
}

// NormalizeDeadline truncates a deadline to minute granularity so that
// equality and range comparisons against stored values are deterministic.
func NormalizeDeadline(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// DueWithin reports whether deadline falls inside the half-open reminder
// window (now, now+window]. A deadline exactly at now is excluded so a
// boundary tick cannot fire twice; a deadline exactly at now+window is
// included.
func DueWithin(deadline, now time.Time, window time.Duration) bool {
	return deadline.After(now) && !deadline.After(now.Add(window))
}

// Remaining returns the time left until the task deadline, floored at zero
func (t *Task) Remaining(now time.Time) time.Duration {
	d := t.Deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
