package conversation

import (
	"sync"
	"time"

	"task-reminder-bot/internal/models"
)

// Phase identifies which reply a dialog is waiting for. The creation flow
// walks the awaiting_* phases in order; each edit phase is a two-step flow
// scoped to a pre-selected task.
type Phase string

const (
	PhaseAwaitingText     Phase = "awaiting_text"
	PhaseAwaitingCategory Phase = "awaiting_category"
	PhaseAwaitingPriority Phase = "awaiting_priority"
	PhaseAwaitingDeadline Phase = "awaiting_deadline"

	PhaseAwaitingEditText     Phase = "awaiting_edit_text"
	PhaseAwaitingEditDeadline Phase = "awaiting_edit_deadline"
	PhaseAwaitingEditPriority Phase = "awaiting_edit_priority"
)

// Draft holds the task fields collected so far
type Draft struct {
	Text     string
	Category string
	Priority models.Priority
	Deadline time.Time
}

// Session is one user's in-flight dialog. Sessions live only in memory and
// are dropped on commit, cancel, idle timeout, or process restart.
type Session struct {
	UserID    int64
	Phase     Phase
	Draft     Draft
	TaskID    int64 // set for edit phases only
	UpdatedAt time.Time

	// serializes near-simultaneous replies from the same user
	mu sync.Mutex
}

// Reply is what the transport should send back to the user. Choices, when
// present, are rendered as a one-tap keyboard.
type Reply struct {
	Text    string
	Choices []string
}
