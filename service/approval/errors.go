package approval

import (
	"errors"
	"fmt"

	"github.com/viant/certify/model"
	"github.com/viant/certify/service/alert"
)

// FailedTitle is the alert title of approvals failing before any transfer.
const FailedTitle = "Failed to approve collection."

var (
	// ErrUnknownSource means the version does not name its current repository.
	ErrUnknownSource = errors.New("collection version has no source repository")
	// ErrNoDestination means no destination repository was given.
	ErrNoDestination = errors.New("no destination repository")
	// ErrNoApprovedRepository means no repository carries the approved pipeline label.
	ErrNoApprovedRepository = errors.New("no approved repository")
	// ErrAmbiguousApproved means several repositories carry the approved label.
	ErrAmbiguousApproved = errors.New("more than one approved repository")
	// ErrNotPermitted means the destination policy rejected a transfer.
	ErrNotPermitted = errors.New("transfer not permitted")
	// ErrNoTask means a transfer response carried no task reference.
	ErrNoTask = errors.New("transfer returned no task")
)

// PreconditionError fails a whole approval before any transfer is issued.
type PreconditionError struct {
	Alert *alert.Alert
	Err   error
}

func (e *PreconditionError) Error() string {
	return e.Alert.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func newPreconditionError(err error) *PreconditionError {
	return &PreconditionError{Alert: alert.Danger(FailedTitle, err.Error()), Err: err}
}

// AsPrecondition extracts *PreconditionError from err chain.
func AsPrecondition(err error) (*PreconditionError, bool) {
	var ret *PreconditionError
	if errors.As(err, &ret) {
		return ret, true
	}
	return nil, false
}

// SuccessTitle is the alert title of a successful destination.
func SuccessTitle(version *model.CollectionVersion) string {
	return fmt.Sprintf("Certification status for collection %q has been successfully updated.", version.String())
}

// FailureTitle is the alert title of a failed destination.
func FailureTitle(version *model.CollectionVersion) string {
	return fmt.Sprintf("Changes to certification status for collection %q could not be saved.", version.String())
}
