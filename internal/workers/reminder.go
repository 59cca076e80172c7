package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"task-reminder-bot/internal/database"
	"task-reminder-bot/internal/models"
	"task-reminder-bot/internal/notify"
)

const (
	defaultInterval        = 5 * time.Minute
	defaultWindow          = time.Hour
	defaultBackoff         = time.Minute
	defaultDispatchTimeout = 10 * time.Second
)

// ReminderScheduler is the background loop that turns "task about to
// expire" into "user notified". Each task is reminded at most once under
// normal operation: the sent flag is stamped immediately after that task's
// own dispatch succeeds, so a crash mid-scan can duplicate at most the one
// task in flight.
type ReminderScheduler struct {
	store      database.ReminderStore
	dispatcher notify.Dispatcher
	logger     *zap.Logger

	interval        time.Duration
	window          time.Duration
	backoff         time.Duration
	dispatchTimeout time.Duration

	now    func() time.Time
	tracer trace.Tracer
}

// NewReminderScheduler creates a scheduler scanning every interval for
// tasks due within window
func NewReminderScheduler(store database.ReminderStore, dispatcher notify.Dispatcher, log *zap.Logger, interval, window time.Duration) *ReminderScheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if window <= 0 {
		window = defaultWindow
	}

	return &ReminderScheduler{
		store:           store,
		dispatcher:      dispatcher,
		logger:          log,
		interval:        interval,
		window:          window,
		backoff:         defaultBackoff,
		dispatchTimeout: defaultDispatchTimeout,
		now:             time.Now,
		tracer:          otel.Tracer("task-reminder-bot/workers"),
	}
}

// Start runs the scan loop until ctx is cancelled. A failed scan (store
// unreachable) shortens the sleep to the backoff interval instead of
// busy-looping; per-task dispatch failures never fail the scan.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.logger.Info("reminder scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("window", s.window),
	)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			delay := s.interval
			if err := s.Scan(ctx); err != nil {
				if ctx.Err() != nil {
					s.logger.Info("reminder scheduler stopped")
					return ctx.Err()
				}
				s.logger.Error("reminder scan failed", zap.Error(err))
				delay = s.backoff
			}
			timer.Reset(delay)
		}
	}
}

// Scan performs one tick: query the due window, then send and mark each
// task in turn. One recipient's failure is logged and skipped so it never
// blocks reminders for other users.
func (s *ReminderScheduler) Scan(ctx context.Context) error {
	scanID := uuid.New().String()
	now := s.now()

	ctx, span := s.tracer.Start(ctx, "reminder.scan",
		trace.WithAttributes(attribute.String("scan.id", scanID)),
	)
	defer span.End()

	due, err := s.store.DueForReminder(ctx, now, s.window)
	if err != nil {
		return fmt.Errorf("failed to query due tasks: %w", err)
	}

	span.SetAttributes(attribute.Int("scan.due_count", len(due)))

	var sent, failed int
	for _, task := range due {
		// The store already filters on the window; re-check here so a
		// task whose deadline moved between query and send is skipped.
		if task.ReminderSent || !models.DueWithin(task.Deadline, now, s.window) {
			continue
		}

		if err := s.remind(ctx, task, now); err != nil {
			failed++
			s.logger.Warn("reminder dispatch failed",
				zap.String("scan_id", scanID),
				zap.Int64("task_id", task.ID),
				zap.Int64("user_id", task.UserID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	if sent > 0 || failed > 0 {
		s.logger.Info("reminder scan finished",
			zap.String("scan_id", scanID),
			zap.Int("due", len(due)),
			zap.Int("sent", sent),
			zap.Int("failed", failed),
		)
	}

	return nil
}

// remind sends one reminder and, only after the send succeeded, stamps the
// task as reminded. Failing to stamp is reported: the next tick would
// otherwise resend.
func (s *ReminderScheduler) remind(ctx context.Context, task *models.Task, now time.Time) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Send(sendCtx, task.UserID, FormatReminder(task, now)); err != nil {
		return err
	}

	if err := s.store.MarkReminderSent(ctx, task.ID); err != nil {
		return fmt.Errorf("sent but failed to mark reminder: %w", err)
	}

	return nil
}

// FormatReminder renders the reminder message: task text, deadline and
// remaining time
func FormatReminder(task *models.Task, now time.Time) string {
	remaining := task.Remaining(now).Round(time.Minute)
	return fmt.Sprintf("⏰ Reminder: %s\nDue %s (in %s)",
		task.Text,
		task.Deadline.Format("02.01.2006 15:04"),
		remaining,
	)
}
