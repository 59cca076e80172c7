package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"task-reminder-bot/internal/models"
)

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, user_id, task_text, category, deadline, priority, status, reminder_sent, created_at, completed_at`

// Create inserts a new active task and returns it with its assigned id.
// The deadline is normalized to minute granularity before it is stored.
func (r *TaskRepository) Create(ctx context.Context, userID int64, text, category string, deadline time.Time, priority models.Priority) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrEmptyText
	}
	if !priority.Valid() {
		return nil, models.ErrBadPriority
	}

	task := &models.Task{
		UserID:       userID,
		Text:         text,
		Category:     category,
		Deadline:     models.NormalizeDeadline(deadline),
		Priority:     priority,
		Status:       models.TaskStatusActive,
		ReminderSent: false,
	}

	query := `
		INSERT INTO tasks (user_id, task_text, category, deadline, priority, status, reminder_sent)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		task.UserID,
		task.Text,
		task.Category,
		task.Deadline,
		task.Priority,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetByID retrieves a task scoped to its owner. Returns (nil, nil) when the
// task does not exist or belongs to someone else; the two cases are
// deliberately indistinguishable.
func (r *TaskRepository) GetByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// List retrieves a user's tasks with the given status, most urgent first:
// priority ascending, then deadline ascending, insertion order breaking ties.
func (r *TaskRepository) List(ctx context.Context, userID int64, status models.TaskStatus) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status = $2
		ORDER BY priority ASC, deadline ASC, id ASC
	`

	return r.queryTasks(ctx, query, userID, status)
}

// ListByCategory retrieves a user's tasks in one category
func (r *TaskRepository) ListByCategory(ctx context.Context, userID int64, category string, status models.TaskStatus) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND category = $2 AND status = $3
		ORDER BY priority ASC, deadline ASC, id ASC
	`

	return r.queryTasks(ctx, query, userID, category, status)
}

// ListByPriority retrieves a user's tasks with one priority rank
func (r *TaskRepository) ListByPriority(ctx context.Context, userID int64, priority models.Priority, status models.TaskStatus) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND priority = $2 AND status = $3
		ORDER BY deadline ASC, id ASC
	`

	return r.queryTasks(ctx, query, userID, priority, status)
}

// Overdue retrieves a user's active tasks whose deadline has already passed
func (r *TaskRepository) Overdue(ctx context.Context, userID int64, now time.Time) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status = $2 AND deadline < $3
		ORDER BY deadline ASC, id ASC
	`

	return r.queryTasks(ctx, query, userID, models.TaskStatusActive, now)
}

// Update applies the non-nil fields of patch to a task. Returns false, with
// no error, when the task does not exist or is not owned by userID: callers
// treat a vanished task as a benign race, not a failure.
func (r *TaskRepository) Update(ctx context.Context, userID, id int64, patch models.TaskUpdate) (bool, error) {
	if patch.IsEmpty() {
		return false, nil
	}
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return false, models.ErrEmptyText
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return false, models.ErrBadPriority
	}

	setClause, args := buildTaskUpdate(patch, 3)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $1 AND user_id = $2`, setClause)
	args = append([]any{id, userID}, args...)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Complete marks an active task completed and stamps the completion time.
// Only active tasks qualify, so a second call on the same task returns false.
func (r *TaskRepository) Complete(ctx context.Context, userID, id int64, now time.Time) (bool, error) {
	query := `
		UPDATE tasks
		SET status = $1, completed_at = $2
		WHERE id = $3 AND user_id = $4 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		models.TaskStatusCompleted,
		models.NormalizeDeadline(now),
		id,
		userID,
		models.TaskStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Delete removes a task unconditionally. Returns false when nothing matched.
func (r *TaskRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// DueForReminder returns active, not-yet-reminded tasks whose deadline lies
// in the half-open window (now, now+window], soonest deadline first. The
// lower bound is exclusive so a deadline exactly at the scan instant never
// fires, and already-passed deadlines are skipped entirely.
func (r *TaskRepository) DueForReminder(ctx context.Context, now time.Time, window time.Duration) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1 AND reminder_sent = FALSE AND deadline > $2 AND deadline <= $3
		ORDER BY deadline ASC, id ASC
	`

	return r.queryTasks(ctx, query, models.TaskStatusActive, now, now.Add(window))
}

// MarkReminderSent flips reminder_sent to true. Idempotent: repeating the
// call leaves the flag true and affects nothing else.
func (r *TaskRepository) MarkReminderSent(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE tasks SET reminder_sent = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

// Count returns how many tasks a user has with the given status
func (r *TaskRepository) Count(ctx context.Context, userID int64, status models.TaskStatus) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2`,
		userID, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Categories returns the distinct categories a user has ever used
func (r *TaskRepository) Categories(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM tasks WHERE user_id = $1 ORDER BY category ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// CountByStatus returns aggregate task counts across all users, keyed by status
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.TaskStatus]int64)
	for rows.Next() {
		var status models.TaskStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	return counts, nil
}

// PruneCompleted deletes completed tasks finished before the cutoff and
// returns how many rows were removed. Active tasks are never touched.
func (r *TaskRepository) PruneCompleted(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE status = $1 AND completed_at IS NOT NULL AND completed_at < $2`,
		models.TaskStatusCompleted, before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune completed tasks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// buildTaskUpdate renders the SET clause for a partial update. Placeholders
// start at $startIdx because the WHERE clause claims the first ones.
func buildTaskUpdate(patch models.TaskUpdate, startIdx int) (string, []any) {
	var clauses []string
	var args []any

	add := func(column string, value any) {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, startIdx+len(args)))
		args = append(args, value)
	}

	if patch.Text != nil {
		add("task_text", *patch.Text)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Deadline != nil {
		add("deadline", models.NormalizeDeadline(*patch.Deadline))
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.ReminderSent != nil {
		add("reminder_sent", *patch.ReminderSent)
	}

	return strings.Join(clauses, ", "), args
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Text,
		&task.Category,
		&task.Deadline,
		&task.Priority,
		&task.Status,
		&task.ReminderSent,
		&task.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return task, nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}
