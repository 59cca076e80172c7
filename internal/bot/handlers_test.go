package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"task-reminder-bot/internal/database"
	"task-reminder-bot/internal/models"
)

// mockStore is a mock implementation of TaskRepositoryInterface covering
// the listing surface; the remaining methods return benign defaults.
type mockStore struct {
	listFunc           func(ctx context.Context, userID int64, status models.TaskStatus) ([]*models.Task, error)
	listByCategoryFunc func(ctx context.Context, userID int64, category string, status models.TaskStatus) ([]*models.Task, error)
	listByPriorityFunc func(ctx context.Context, userID int64, priority models.Priority, status models.TaskStatus) ([]*models.Task, error)
	categoriesFunc     func(ctx context.Context, userID int64) ([]string, error)
}

func (m *mockStore) List(ctx context.Context, userID int64, status models.TaskStatus) ([]*models.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, status)
	}
	return nil, nil
}

func (m *mockStore) ListByCategory(ctx context.Context, userID int64, category string, status models.TaskStatus) ([]*models.Task, error) {
	if m.listByCategoryFunc != nil {
		return m.listByCategoryFunc(ctx, userID, category, status)
	}
	return nil, nil
}

func (m *mockStore) ListByPriority(ctx context.Context, userID int64, priority models.Priority, status models.TaskStatus) ([]*models.Task, error) {
	if m.listByPriorityFunc != nil {
		return m.listByPriorityFunc(ctx, userID, priority, status)
	}
	return nil, nil
}

func (m *mockStore) Categories(ctx context.Context, userID int64) ([]string, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) Create(ctx context.Context, userID int64, text, category string, deadline time.Time, priority models.Priority) (*models.Task, error) {
	return nil, nil
}

func (m *mockStore) GetByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	return nil, nil
}

func (m *mockStore) Update(ctx context.Context, userID, id int64, patch models.TaskUpdate) (bool, error) {
	return false, nil
}

func (m *mockStore) Complete(ctx context.Context, userID, id int64, now time.Time) (bool, error) {
	return false, nil
}

func (m *mockStore) Delete(ctx context.Context, userID, id int64) (bool, error) {
	return false, nil
}

func (m *mockStore) Overdue(ctx context.Context, userID int64, now time.Time) ([]*models.Task, error) {
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context, userID int64, status models.TaskStatus) (int64, error) {
	return 0, nil
}

var _ database.TaskRepositoryInterface = (*mockStore)(nil)

func TestParseTaskID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected int64
		ok       bool
	}{
		{"12", 12, true},
		{"  7 ", 7, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-3", 0, false},
		{"0", 0, false},
		{"12 extra", 0, false},
	}

	for _, tt := range tests {
		id, ok := parseTaskID(tt.input)
		if ok != tt.ok || id != tt.expected {
			t.Errorf("parseTaskID(%q) = (%d, %v), want (%d, %v)", tt.input, id, ok, tt.expected, tt.ok)
		}
	}
}

func TestFormatTaskList(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)
	tasks := []*models.Task{
		{
			ID:       1,
			Priority: models.PriorityHigh,
			Text:     "Ship release",
			Category: "Work",
			Status:   models.TaskStatusActive,
			Deadline: time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
		},
		{
			ID:       2,
			Priority: models.PriorityLow,
			Text:     "Buy milk",
			Category: "Shopping",
			Status:   models.TaskStatusActive,
			Deadline: time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC),
		},
	}

	got := formatTaskList("Your tasks:", tasks, now)

	for _, want := range []string{
		"Your tasks:",
		"#1 [P1] Ship release — Work, due 31.12.2024 15:00",
		"#2 [P3] Buy milk — Shopping, due 30.12.2024 09:00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatTaskList() missing %q in:\n%s", want, got)
		}
	}

	// Only the second task is past its deadline
	lines := strings.Split(got, "\n")
	if strings.Contains(lines[1], "overdue") {
		t.Error("future task flagged overdue")
	}
	if !strings.Contains(lines[2], "overdue") {
		t.Error("past-deadline task not flagged overdue")
	}
}

func TestParseListFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args     string
		expected listFilter
	}{
		{"", listFilter{}},
		{"   ", listFilter{}},
		{"1", listFilter{priority: models.PriorityHigh}},
		{"2", listFilter{priority: models.PriorityMedium}},
		{"3", listFilter{priority: models.PriorityLow}},
		{"Work", listFilter{category: "Work"}},
		{" Shopping ", listFilter{category: "Shopping"}},
		{"4", listFilter{category: "4"}},
	}

	for _, tt := range tests {
		if got := parseListFilter(tt.args); got != tt.expected {
			t.Errorf("parseListFilter(%q) = %+v, want %+v", tt.args, got, tt.expected)
		}
	}
}

func TestListTasksRoutesFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	const chatID = int64(100)
	sentinel := []*models.Task{{ID: 1, Text: "Ship release"}}

	t.Run("unfiltered", func(t *testing.T) {
		t.Parallel()

		b := &Bot{store: &mockStore{
			listFunc: func(ctx context.Context, userID int64, status models.TaskStatus) ([]*models.Task, error) {
				if userID != chatID || status != models.TaskStatusActive {
					t.Errorf("List(%d, %s)", userID, status)
				}
				return sentinel, nil
			},
		}}

		tasks, err := b.listTasks(ctx, chatID, listFilter{})
		if err != nil || len(tasks) != 1 {
			t.Fatalf("listTasks = %v, %v", tasks, err)
		}
	})

	t.Run("by priority", func(t *testing.T) {
		t.Parallel()

		b := &Bot{store: &mockStore{
			listByPriorityFunc: func(ctx context.Context, userID int64, priority models.Priority, status models.TaskStatus) ([]*models.Task, error) {
				if priority != models.PriorityHigh || status != models.TaskStatusActive {
					t.Errorf("ListByPriority(%d, %s)", priority, status)
				}
				return sentinel, nil
			},
		}}

		tasks, err := b.listTasks(ctx, chatID, listFilter{priority: models.PriorityHigh})
		if err != nil || len(tasks) != 1 {
			t.Fatalf("listTasks = %v, %v", tasks, err)
		}
	})

	t.Run("by category", func(t *testing.T) {
		t.Parallel()

		b := &Bot{store: &mockStore{
			listByCategoryFunc: func(ctx context.Context, userID int64, category string, status models.TaskStatus) ([]*models.Task, error) {
				if category != "Work" || status != models.TaskStatusActive {
					t.Errorf("ListByCategory(%q, %s)", category, status)
				}
				return sentinel, nil
			},
		}}

		tasks, err := b.listTasks(ctx, chatID, listFilter{category: "Work"})
		if err != nil || len(tasks) != 1 {
			t.Fatalf("listTasks = %v, %v", tasks, err)
		}
	})
}

func TestCategoryKeyboard(t *testing.T) {
	t.Parallel()

	kb := categoryKeyboard([]string{"Work", "Shopping"})
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("keyboard has %d rows, want 2", len(kb.InlineKeyboard))
	}

	btn := kb.InlineKeyboard[0][0]
	if btn.Text != "Work" {
		t.Errorf("button text = %q, want %q", btn.Text, "Work")
	}
	if btn.CallbackData == nil || *btn.CallbackData != cbListCategory+"Work" {
		t.Errorf("button data = %v, want %q", btn.CallbackData, cbListCategory+"Work")
	}
}

func TestSplitCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data            string
		expectedPrefix  string
		expectedPayload string
	}{
		{"choice:Shopping", cbChoice, "Shopping"},
		{"choice:2 - Medium", cbChoice, "2 - Medium"},
		{"edit_text:12", cbEditText, "12"},
		{"edit_deadline:12", cbEditDeadline, "12"},
		{"edit_priority:12", cbEditPriority, "12"},
		{"list_cat:Work", cbListCategory, "Work"},
		{"garbage", "", "garbage"},
	}

	for _, tt := range tests {
		prefix, payload := splitCallback(tt.data)
		if prefix != tt.expectedPrefix || payload != tt.expectedPayload {
			t.Errorf("splitCallback(%q) = (%q, %q), want (%q, %q)",
				tt.data, prefix, payload, tt.expectedPrefix, tt.expectedPayload)
		}
	}
}
