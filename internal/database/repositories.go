package database

import (
	"context"
	"time"

	"task-reminder-bot/internal/models"
)

// TaskRepositoryInterface defines the interface for task repository operations
// This interface enables better testability by allowing mock implementations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, userID int64, text, category string, deadline time.Time, priority models.Priority) (*models.Task, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Task, error)
	List(ctx context.Context, userID int64, status models.TaskStatus) ([]*models.Task, error)
	ListByCategory(ctx context.Context, userID int64, category string, status models.TaskStatus) ([]*models.Task, error)
	ListByPriority(ctx context.Context, userID int64, priority models.Priority, status models.TaskStatus) ([]*models.Task, error)
	Categories(ctx context.Context, userID int64) ([]string, error)
	Update(ctx context.Context, userID, id int64, patch models.TaskUpdate) (bool, error)
	Complete(ctx context.Context, userID, id int64, now time.Time) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	Overdue(ctx context.Context, userID int64, now time.Time) ([]*models.Task, error)
	Count(ctx context.Context, userID int64, status models.TaskStatus) (int64, error)
}

// ReminderStore is the slice of the repository the reminder scheduler needs
type ReminderStore interface {
	DueForReminder(ctx context.Context, now time.Time, window time.Duration) ([]*models.Task, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// Ensure the concrete type implements the interfaces
var (
	_ TaskRepositoryInterface = (*TaskRepository)(nil)
	_ ReminderStore           = (*TaskRepository)(nil)
)
