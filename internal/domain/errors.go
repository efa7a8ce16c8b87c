package domain

import "errors"

// Domain errors.
var (
	// ErrTempFileAllocation is returned when the temporary download file cannot be created.
	ErrTempFileAllocation = errors.New("temporary file allocation failed")

	// ErrTaskNotFound is returned when a task cannot be found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDownloadFailed is returned when the download utility fails.
	ErrDownloadFailed = errors.New("video download failed")

	// ErrFileNotActive is returned when an uploaded file never becomes usable.
	ErrFileNotActive = errors.New("uploaded file did not become active")
)

// TaskError wraps an error with cache task context.
type TaskError struct {
	TaskID TaskID
	Op     string
	Err    error
}

func (e *TaskError) Error() string {
	if e.TaskID != "" {
		return e.Op + " [" + e.TaskID.String() + "]: " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError creates a new TaskError.
func NewTaskError(taskID TaskID, op string, err error) *TaskError {
	return &TaskError{
		TaskID: taskID,
		Op:     op,
		Err:    err,
	}
}
