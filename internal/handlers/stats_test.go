package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"task-reminder-bot/internal/models"
)

// mockStatsStore is a mock implementation of StatsStore
type mockStatsStore struct {
	countByStatusFunc func(ctx context.Context) (map[models.TaskStatus]int64, error)
}

func (m *mockStatsStore) CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx)
	}
	return map[models.TaskStatus]int64{}, nil
}

func TestStats(t *testing.T) {
	t.Parallel()

	store := &mockStatsStore{
		countByStatusFunc: func(ctx context.Context) (map[models.TaskStatus]int64, error) {
			return map[models.TaskStatus]int64{
				models.TaskStatusActive:    3,
				models.TaskStatusCompleted: 7,
			}, nil
		},
	}

	h := NewStatsHandler(store, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()

	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp StatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Active != 3 || resp.Completed != 7 {
		t.Errorf("response = %+v, want active=3 completed=7", resp)
	}
}

func TestStatsStoreFailure(t *testing.T) {
	t.Parallel()

	store := &mockStatsStore{
		countByStatusFunc: func(ctx context.Context) (map[models.TaskStatus]int64, error) {
			return nil, errors.New("connection refused")
		},
	}

	h := NewStatsHandler(store, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()

	h.Stats(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHealthCheckBasic(t *testing.T) {
	t.Parallel()

	// Basic mode never touches the database
	h := NewHealthChecker(nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Checks != nil {
		t.Errorf("basic mode should not run checks, got %v", resp.Checks)
	}
}
