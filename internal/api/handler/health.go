package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/youchat/ytanalyzer/internal/repository"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	taskRepo repository.TaskRepository
	tempDir  string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(taskRepo repository.TaskRepository, tempDir string) *HealthHandler {
	return &HealthHandler{
		taskRepo: taskRepo,
		tempDir:  tempDir,
	}
}

// HealthResponse is the JSON response for the liveness check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the JSON response for the readiness check.
type ReadyResponse struct {
	Status        string     `json:"status"`
	Timestamp     string     `json:"timestamp"`
	Tasks         *TaskStats `json:"tasks,omitempty"`
	TempFreeBytes int64      `json:"temp_free_bytes"`
}

// TaskStats contains background cache task counts.
type TaskStats struct {
	Pending   int `json:"pending"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Live handles GET /health - liveness probe. It never depends on the
// provider being reachable.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// Ready handles GET /ready - readiness probe.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)

	stats, err := h.taskRepo.Stats(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status:    "error",
			Timestamp: now,
		})
		return
	}

	writeJSON(w, http.StatusOK, ReadyResponse{
		Status:    "ok",
		Timestamp: now,
		Tasks: &TaskStats{
			Pending:   stats.Pending,
			Running:   stats.Running,
			Completed: stats.Completed,
			Failed:    stats.Failed,
		},
		TempFreeBytes: freeDiskSpace(h.tempDir),
	})
}
