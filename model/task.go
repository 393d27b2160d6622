package model

// TaskState represents backend task state
type TaskState string

const (
	TaskStateWaiting   TaskState = "waiting"
	TaskStatePending   TaskState = "pending"
	TaskStateRunning   TaskState = "running"
	TaskStateCanceling TaskState = "canceling"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateSkipped   TaskState = "skipped"
	TaskStateCanceled  TaskState = "canceled"
)

// IsFailure returns true for terminal states that did not complete the work.
func (s TaskState) IsFailure() bool {
	switch s {
	case TaskStateFailed, TaskStateSkipped, TaskStateCanceled:
		return true
	}
	return false
}

// IsTerminal returns true when no further transition is possible. Any state
// the backend may add later is treated as non-terminal.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateCompleted || s.IsFailure()
}

// TaskError is the structured error reported by a failed task.
type TaskError struct {
	Description string `json:"description,omitempty"`
	Traceback   string `json:"traceback,omitempty"`
}

// Task represents an asynchronous backend task
type Task struct {
	Href  string     `json:"pulp_href,omitempty"`
	Name  string     `json:"name,omitempty"`
	State TaskState  `json:"state"`
	Error *TaskError `json:"error,omitempty"`
}
