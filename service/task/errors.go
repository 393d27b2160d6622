package task

import (
	"errors"

	"github.com/viant/certify/model"
)

// ErrGaveUp means the task did not reach a terminal state within the attempt
// budget. Its outcome is unknown; the backend may still complete it.
var ErrGaveUp = errors.New("gave up waiting for task")

// NoErrorMessage is reported for failed tasks that carry no error description.
const NoErrorMessage = "task failed without error message"

// FailedError is returned for tasks that ended failed, skipped or canceled.
type FailedError struct {
	ID          string
	State       model.TaskState
	Description string
	Traceback   string
}

func (e *FailedError) Error() string {
	if e.Description == "" {
		return NoErrorMessage
	}
	return e.Description
}

func newFailedError(id string, task *model.Task) *FailedError {
	ret := &FailedError{ID: id, State: task.State}
	if task.Error != nil {
		ret.Description = task.Error.Description
		ret.Traceback = task.Error.Traceback
	}
	return ret
}

// IsGaveUp returns true when err reports an exhausted attempt budget.
func IsGaveUp(err error) bool {
	return errors.Is(err, ErrGaveUp)
}

// AsFailed extracts *FailedError from err chain.
func AsFailed(err error) (*FailedError, bool) {
	var failed *FailedError
	if errors.As(err, &failed) {
		return failed, true
	}
	return nil, false
}
