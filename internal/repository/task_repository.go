package repository

import (
	"context"
	"sync"

	"github.com/youchat/ytanalyzer/internal/domain"
)

// InMemoryTaskRepository implements TaskRepository using in-memory storage.
type InMemoryTaskRepository struct {
	mu        sync.RWMutex
	tasks     map[domain.TaskID]domain.CacheTask
	completed int
	failed    int
}

// NewInMemoryTaskRepository creates a new in-memory task repository.
func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		tasks: make(map[domain.TaskID]domain.CacheTask),
	}
}

// Register records a newly scheduled task.
func (r *InMemoryTaskRepository) Register(ctx context.Context, task *domain.CacheTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = *task
	return nil
}

// Update stores the task's current state.
func (r *InMemoryTaskRepository) Update(ctx context.Context, task *domain.CacheTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}

	switch task.Status {
	case domain.TaskStatusDone:
		r.completed++
		delete(r.tasks, task.ID)
	case domain.TaskStatusFailed:
		r.failed++
		delete(r.tasks, task.ID)
	default:
		r.tasks[task.ID] = *task
	}

	return nil
}

// Get retrieves an in-flight task by ID. The returned value is a copy.
func (r *InMemoryTaskRepository) Get(ctx context.Context, id domain.TaskID) (*domain.CacheTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	return &task, nil
}

// Stats returns aggregate task counts.
func (r *InMemoryTaskRepository) Stats(ctx context.Context) (*TaskStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &TaskStats{
		Completed: r.completed,
		Failed:    r.failed,
	}
	for _, task := range r.tasks {
		if task.Status == domain.TaskStatusPending {
			stats.Pending++
		} else {
			stats.Running++
		}
	}

	return stats, nil
}
