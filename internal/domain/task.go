package domain

import (
	"time"
)

// TaskID is a unique identifier for a background cache task.
type TaskID string

// String returns the string representation of the TaskID.
func (id TaskID) String() string {
	return string(id)
}

// TaskStatus represents the current state of a cache task.
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "pending"
	TaskStatusDownloading TaskStatus = "downloading"
	TaskStatusUploading   TaskStatus = "uploading"
	TaskStatusCaching     TaskStatus = "caching"
	TaskStatusDone        TaskStatus = "done"
	TaskStatusFailed      TaskStatus = "failed_cleaned_up"
)

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusFailed
}

// CacheTask is one download -> upload -> provider cache run for a video URL.
// Each task owns its temporary file exclusively.
type CacheTask struct {
	ID        TaskID
	URL       string
	TempPath  string
	Status    TaskStatus
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCacheTask creates a pending task bound to an allocated temp file.
func NewCacheTask(id TaskID, url, tempPath string) *CacheTask {
	now := time.Now()
	return &CacheTask{
		ID:        id,
		URL:       url,
		TempPath:  tempPath,
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance moves the task to the next pipeline state.
// Terminal tasks are left unchanged.
func (t *CacheTask) Advance(status TaskStatus) {
	if t.Status.IsTerminal() {
		return
	}
	t.Status = status
	t.UpdatedAt = time.Now()
}

// MarkDone records successful completion.
func (t *CacheTask) MarkDone() {
	t.Advance(TaskStatusDone)
}

// MarkFailed records a failure. Any non-terminal state may fail.
func (t *CacheTask) MarkFailed(err string) {
	if t.Status.IsTerminal() {
		return
	}
	t.LastError = err
	t.Status = TaskStatusFailed
	t.UpdatedAt = time.Now()
}
