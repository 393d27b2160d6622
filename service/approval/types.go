package approval

import (
	"time"

	"github.com/viant/certify/model"
	"github.com/viant/certify/service/alert"
)

// Event topics
const (
	TopicStarted  = "approval.started"
	TopicOutcome  = "approval.outcome"
	TopicFinished = "approval.finished"
)

// Event is published for approval lifecycle changes. Outcome is set for
// TopicOutcome, Approval for TopicFinished.
type Event struct {
	Topic      string                   `json:"topic"`
	ApprovalID string                   `json:"approvalId"`
	Version    *model.CollectionVersion `json:"version,omitempty"`
	Outcome    *model.Outcome           `json:"outcome,omitempty"`
	Approval   *model.Approval          `json:"approval,omitempty"`
	Time       time.Time                `json:"time"`
}

// Alert renders an outcome as a console alert
func Alert(outcome *model.Outcome) *alert.Alert {
	if outcome.Success {
		ret := alert.Success(outcome.Title)
		ret.Description = outcome.Message
		return ret
	}
	ret := alert.Danger(outcome.Title, outcome.Destination+": "+outcome.Message)
	if outcome.Unknown || outcome.Skipped {
		ret.Variant = alert.VariantWarning
	}
	return ret
}

// Alerts renders one alert per outcome, in destination order.
func Alerts(approval *model.Approval) []*alert.Alert {
	var ret []*alert.Alert
	for _, outcome := range approval.Outcomes {
		if outcome != nil {
			ret = append(ret, Alert(outcome))
		}
	}
	return ret
}
