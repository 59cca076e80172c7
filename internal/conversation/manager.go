package conversation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-reminder-bot/internal/database"
	"task-reminder-bot/internal/logger"
	"task-reminder-bot/internal/models"
	"task-reminder-bot/internal/validation"
)

// Manager owns every in-flight dialog, keyed by user id. Different users
// touch disjoint sessions; a single user's replies are serialized on the
// session mutex so the second of two near-simultaneous messages is
// interpreted against the state the first one produced.
type Manager struct {
	store  database.TaskRepositoryInterface
	logger *zap.Logger

	ttl           time.Duration
	sweepInterval time.Duration
	loc           *time.Location
	now           func() time.Time

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager creates a conversation manager. Sessions idle for longer than
// ttl are dropped by the sweep loop (see Run).
func NewManager(store database.TaskRepositoryInterface, log *zap.Logger, ttl, sweepInterval time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}

	return &Manager{
		store:         store,
		logger:        log,
		ttl:           ttl,
		sweepInterval: sweepInterval,
		loc:           time.Local,
		now:           time.Now,
		sessions:      make(map[int64]*Session),
	}
}

// StartAdd begins the task-creation flow, replacing any dialog the user
// already had open.
func (m *Manager) StartAdd(userID int64) Reply {
	m.putSession(&Session{
		UserID:    userID,
		Phase:     PhaseAwaitingText,
		UpdatedAt: m.now(),
	})
	return Reply{Text: promptText}
}

// StartEdit begins a single-field edit flow for a task the user already
// selected. phase must be one of the awaiting_edit_* phases.
func (m *Manager) StartEdit(userID, taskID int64, phase Phase) Reply {
	m.putSession(&Session{
		UserID:    userID,
		Phase:     phase,
		TaskID:    taskID,
		UpdatedAt: m.now(),
	})

	switch phase {
	case PhaseAwaitingEditDeadline:
		return Reply{Text: promptEditDeadline}
	case PhaseAwaitingEditPriority:
		return Reply{Text: promptEditPriority, Choices: PriorityLabels}
	default:
		return Reply{Text: promptEditText}
	}
}

// Cancel drops the user's dialog, if any, and reports whether one existed
func (m *Manager) Cancel(userID int64) (Reply, bool) {
	m.mu.Lock()
	_, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	return Reply{Text: replyCancelled}, ok
}

// Active reports whether the user has a dialog in flight
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	return ok
}

// HandleMessage feeds one user reply into the dialog. handled is false when
// the user has no dialog open, so the caller can route the message
// elsewhere. Malformed input never advances the phase and never discards
// draft fields already collected; the reply restates the expected format.
func (m *Manager) HandleMessage(ctx context.Context, userID int64, input string) (Reply, bool, error) {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return Reply{}, false, nil
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	// The session may have been cancelled or swept while we waited
	if !m.owns(userID, session) {
		return Reply{}, false, nil
	}

	session.UpdatedAt = m.now()
	input = validation.SanitizeText(input)

	reply, err := m.advance(ctx, session, input)
	return reply, true, err
}

// advance applies one transition of the state machine
func (m *Manager) advance(ctx context.Context, session *Session, input string) (Reply, error) {
	switch session.Phase {
	case PhaseAwaitingText:
		if input == "" {
			return Reply{Text: repromptText}, nil
		}
		session.Draft.Text = input
		session.Phase = PhaseAwaitingCategory
		return Reply{Text: promptCategory, Choices: models.DefaultCategories}, nil

	case PhaseAwaitingCategory:
		// Keyboard labels and free text are both fine; the store treats
		// the category opaquely.
		if input == "" {
			return Reply{Text: repromptCategory, Choices: models.DefaultCategories}, nil
		}
		session.Draft.Category = input
		session.Phase = PhaseAwaitingPriority
		return Reply{Text: promptPriority, Choices: PriorityLabels}, nil

	case PhaseAwaitingPriority:
		priority, err := ParsePriority(input)
		if err != nil {
			return Reply{Text: repromptPriority, Choices: PriorityLabels}, nil
		}
		session.Draft.Priority = priority
		session.Phase = PhaseAwaitingDeadline
		return Reply{Text: promptDeadline}, nil

	case PhaseAwaitingDeadline:
		deadline, err := ParseDeadline(input, m.loc)
		if err != nil {
			return Reply{Text: repromptDeadline}, nil
		}
		session.Draft.Deadline = deadline
		return m.commitCreate(ctx, session)

	case PhaseAwaitingEditText:
		if input == "" {
			return Reply{Text: repromptText}, nil
		}
		return m.commitUpdate(ctx, session, models.TaskUpdate{Text: &input})

	case PhaseAwaitingEditDeadline:
		deadline, err := ParseDeadline(input, m.loc)
		if err != nil {
			return Reply{Text: repromptDeadline}, nil
		}
		return m.commitUpdate(ctx, session, models.TaskUpdate{Deadline: &deadline})

	case PhaseAwaitingEditPriority:
		priority, err := ParsePriority(input)
		if err != nil {
			return Reply{Text: repromptPriority, Choices: PriorityLabels}, nil
		}
		return m.commitUpdate(ctx, session, models.TaskUpdate{Priority: &priority})

	default:
		// Unknown phase means the session is corrupt; drop it
		m.drop(session.UserID, session)
		return Reply{Text: replyStorageFault}, nil
	}
}

// commitCreate writes the completed draft to the store and ends the dialog.
// On a storage fault the session stays in awaiting_deadline so the user can
// simply resend the date.
func (m *Manager) commitCreate(ctx context.Context, session *Session) (Reply, error) {
	_, err := m.store.Create(ctx, session.UserID, session.Draft.Text, session.Draft.Category,
		session.Draft.Deadline, session.Draft.Priority)
	if err != nil {
		if models.IsValidation(err) {
			return Reply{Text: repromptDeadline}, nil
		}
		m.logger.Error("task create failed",
			zap.Int64("user_id", session.UserID),
			zap.String("text", logger.SanitizeTaskText(session.Draft.Text)),
			zap.Error(err),
		)
		return Reply{Text: replyStorageFault}, err
	}

	m.drop(session.UserID, session)
	return Reply{Text: replyCreated}, nil
}

// commitUpdate applies a single-field edit and ends the dialog. A vanished
// task is a benign race: the dialog still ends, with a neutral reply.
func (m *Manager) commitUpdate(ctx context.Context, session *Session, patch models.TaskUpdate) (Reply, error) {
	ok, err := m.store.Update(ctx, session.UserID, session.TaskID, patch)
	if err != nil {
		if models.IsValidation(err) {
			return Reply{Text: repromptText}, nil
		}
		m.logger.Error("task update failed",
			zap.Int64("user_id", session.UserID),
			zap.Int64("task_id", session.TaskID),
			zap.Error(err),
		)
		return Reply{Text: replyStorageFault}, err
	}

	m.drop(session.UserID, session)
	if !ok {
		return Reply{Text: replyTaskGone}, nil
	}
	return Reply{Text: replyUpdated}, nil
}

// Run sweeps idle sessions until ctx is cancelled
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				m.logger.Info("swept idle conversations", zap.Int("count", n))
			}
		}
	}
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. Abandoned dialogs would otherwise pin memory forever.
// UpdatedAt is guarded by the session mutex; a session whose mutex is held
// is handling a reply right now, so it is not idle and is skipped rather
// than blocked on.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int
	for userID, session := range m.sessions {
		if !session.mu.TryLock() {
			continue
		}
		idle := now.Sub(session.UpdatedAt) > m.ttl
		session.mu.Unlock()

		if idle {
			delete(m.sessions, userID)
			removed++
		}
	}
	return removed
}

func (m *Manager) putSession(session *Session) {
	m.mu.Lock()
	m.sessions[session.UserID] = session
	m.mu.Unlock()
}

// owns reports whether session is still the registered dialog for userID
func (m *Manager) owns(userID int64, session *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID] == session
}

// drop removes the session only if it is still the registered one
func (m *Manager) drop(userID int64, session *Session) {
	m.mu.Lock()
	if m.sessions[userID] == session {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
}
