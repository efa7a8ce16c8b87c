package repository

import (
	"context"

	"github.com/youchat/ytanalyzer/internal/domain"
)

// TaskRepository tracks background cache tasks while they run.
type TaskRepository interface {
	// Register records a newly scheduled task.
	Register(ctx context.Context, task *domain.CacheTask) error

	// Update stores the task's current state. Terminal tasks are folded
	// into the completed/failed counters and released.
	Update(ctx context.Context, task *domain.CacheTask) error

	// Get retrieves an in-flight task by ID.
	Get(ctx context.Context, id domain.TaskID) (*domain.CacheTask, error)

	// Stats returns aggregate task counts.
	Stats(ctx context.Context) (*TaskStats, error)
}

// TaskStats contains aggregate task counts.
type TaskStats struct {
	Pending   int
	Running   int
	Completed int
	Failed    int
}
