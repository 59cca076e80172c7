package models

import (
	"testing"
	"time"
)

func TestNormalizeDeadline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{
			name:     "seconds stripped",
			in:       time.Date(2024, 12, 31, 15, 0, 42, 0, time.UTC),
			expected: time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
		},
		{
			name:     "nanoseconds stripped",
			in:       time.Date(2024, 12, 31, 15, 0, 0, 999, time.UTC),
			expected: time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
		},
		{
			name:     "already minute-granular",
			in:       time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeDeadline(tt.in); !got.Equal(tt.expected) {
				t.Errorf("NormalizeDeadline(%v) = %v, want %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestDueWithin(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC)
	window := 5 * time.Minute

	tests := []struct {
		name     string
		deadline time.Time
		expected bool
	}{
		{
			name:     "deadline equals now is excluded",
			deadline: now,
			expected: false,
		},
		{
			name:     "deadline in the past is excluded",
			deadline: now.Add(-time.Minute),
			expected: false,
		},
		{
			name:     "deadline inside window is included",
			deadline: now.Add(4 * time.Minute),
			expected: true,
		},
		{
			name:     "deadline exactly at window edge is included",
			deadline: now.Add(window),
			expected: true,
		},
		{
			name:     "deadline one minute past window is excluded",
			deadline: now.Add(window + time.Minute),
			expected: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DueWithin(tt.deadline, now, window); got != tt.expected {
				t.Errorf("DueWithin(%v, %v, %v) = %v, want %v",
					tt.deadline, now, window, got, tt.expected)
			}
		})
	}
}

func TestPriorityValid(t *testing.T) {
	t.Parallel()

	valid := []Priority{PriorityHigh, PriorityMedium, PriorityLow}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("Priority(%d).Valid() = false, want true", p)
		}
	}

	invalid := []Priority{0, -1, 4, 99}
	for _, p := range invalid {
		if p.Valid() {
			t.Errorf("Priority(%d).Valid() = true, want false", p)
		}
	}
}

func TestTaskRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC)

	task := &Task{Deadline: now.Add(4 * time.Minute)}
	if got := task.Remaining(now); got != 4*time.Minute {
		t.Errorf("Remaining() = %v, want %v", got, 4*time.Minute)
	}

	overdue := &Task{Deadline: now.Add(-time.Hour)}
	if got := overdue.Remaining(now); got != 0 {
		t.Errorf("Remaining() for overdue task = %v, want 0", got)
	}
}
