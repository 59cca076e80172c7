package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"task-reminder-bot/internal/models"
)

// StatsStore is the aggregate-count slice of the task repository
type StatsStore interface {
	CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error)
}

// StatsHandler exposes aggregate task counts for operators
type StatsHandler struct {
	store  StatsStore
	logger *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(store StatsStore, log *zap.Logger) *StatsHandler {
	return &StatsHandler{store: store, logger: log}
}

// StatsResponse represents the /stats payload
type StatsResponse struct {
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
}

// Stats handles the /stats endpoint
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountByStatus(r.Context())
	if err != nil {
		h.logger.Error("stats query failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		Active:    counts[models.TaskStatusActive],
		Completed: counts[models.TaskStatusCompleted],
	})
}

// NewRouter builds the ops router with tracing middleware
func NewRouter(health *HealthChecker, stats *StatsHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("task-reminder-bot"))
	r.HandleFunc("/healthz", health.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/stats", stats.Stats).Methods(http.MethodGet)
	return r
}
