package model

import "time"

// Outcome is the result of transferring a version into one destination.
type Outcome struct {
	Destination string       `json:"destination" yaml:"destination"`
	Kind        TransferKind `json:"kind" yaml:"kind"`
	Success     bool         `json:"success" yaml:"success"`
	// Unknown is set when waiting gave up; the task may still complete.
	Unknown    bool     `json:"unknown,omitempty" yaml:"unknown,omitempty"`
	Skipped    bool     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Status     int      `json:"status,omitempty" yaml:"status,omitempty"`
	StatusText string   `json:"statusText,omitempty" yaml:"statusText,omitempty"`
	Title      string   `json:"title" yaml:"title"`
	Message    string   `json:"message,omitempty" yaml:"message,omitempty"`
	Tasks      []string `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// Approval aggregates the outcomes of a single approve call, in destination order.
type Approval struct {
	ID             string             `json:"id" yaml:"id"`
	Version        *CollectionVersion `json:"version" yaml:"version"`
	Source         string             `json:"source" yaml:"source"`
	SigningService string             `json:"signingService,omitempty" yaml:"signingService,omitempty"`
	Outcomes       []*Outcome         `json:"outcomes" yaml:"outcomes"`
	StartedAt      time.Time          `json:"startedAt" yaml:"startedAt"`
	FinishedAt     time.Time          `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// Collection returns the "namespace.name" key of the approved version.
func (a *Approval) Collection() string {
	if a == nil || a.Version == nil {
		return ""
	}
	return a.Version.Namespace + "." + a.Version.Name
}

// Succeeded reports whether every destination succeeded.
func (a *Approval) Succeeded() bool {
	if a == nil || len(a.Outcomes) == 0 {
		return false
	}
	for _, outcome := range a.Outcomes {
		if outcome == nil || !outcome.Success {
			return false
		}
	}
	return true
}

// Failed returns the unsuccessful outcomes
func (a *Approval) Failed() []*Outcome {
	var ret []*Outcome
	if a == nil {
		return ret
	}
	for _, outcome := range a.Outcomes {
		if outcome != nil && !outcome.Success {
			ret = append(ret, outcome)
		}
	}
	return ret
}

// Outcome returns the outcome of destination, nil when absent.
func (a *Approval) Outcome(destination string) *Outcome {
	if a == nil {
		return nil
	}
	for _, outcome := range a.Outcomes {
		if outcome != nil && outcome.Destination == destination {
			return outcome
		}
	}
	return nil
}
