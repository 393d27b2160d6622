package model

// TransferKind distinguishes move from copy
type TransferKind string

const (
	// TransferMove removes the version from the source repository.
	TransferMove TransferKind = "move"
	// TransferCopy leaves the source repository untouched.
	TransferCopy TransferKind = "copy"
)

// Addressing selects how transfer endpoints identify repositories.
type Addressing string

const (
	// AddressByDistribution uses distribution base paths (legacy endpoints).
	AddressByDistribution Addressing = "distribution"
	// AddressByRepository uses repository hrefs.
	AddressByRepository Addressing = "repository"
)

// TransferRequest addresses one transfer. Source and Destination hold either
// distribution base paths or repository hrefs depending on Addressing.
type TransferRequest struct {
	Kind           TransferKind
	Addressing     Addressing
	Version        *CollectionVersion
	Source         string
	Destination    string
	SigningService string
}

// TransferResult holds the task references returned by a transfer call. A move
// may report two tasks, the copy side and the removal from the source.
type TransferResult struct {
	Task         string `json:"task,omitempty"`
	TaskID       string `json:"task_id,omitempty"`
	CopyTaskID   string `json:"copy_task_id,omitempty"`
	RemoveTaskID string `json:"remove_task_id,omitempty"`
}

// Tasks returns every non-empty task reference, hrefs and bare ids alike.
func (r *TransferResult) Tasks() []string {
	if r == nil {
		return nil
	}
	var ret []string
	for _, candidate := range []string{r.Task, r.TaskID, r.CopyTaskID, r.RemoveTaskID} {
		if candidate != "" {
			ret = append(ret, candidate)
		}
	}
	return ret
}
