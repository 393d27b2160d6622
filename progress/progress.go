// Package progress provides a lightweight tracker that keeps aggregated
// transfer counters for a single approval. The tracker lives in the context so
// every component receiving it can update counters without a global registry.

package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Running   int
}

// Progress keeps aggregated destination counters. It is safe for concurrent use.
type Progress struct {
	ApprovalID string
	Collection string
	StartedAt  time.Time

	TotalDestinations     int
	SucceededDestinations int
	FailedDestinations    int
	SkippedDestinations   int
	RunningDestinations   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the delta. The onChange callback, if any, receives a copy
// outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.TotalDestinations += d.Total
	p.SucceededDestinations += d.Succeeded
	p.FailedDestinations += d.Failed
	p.SkippedDestinations += d.Skipped
	p.RunningDestinations += d.Running
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

func (p *Progress) copy() Progress {
	return Progress{
		ApprovalID:            p.ApprovalID,
		Collection:            p.Collection,
		StartedAt:             p.StartedAt,
		TotalDestinations:     p.TotalDestinations,
		SucceededDestinations: p.SucceededDestinations,
		FailedDestinations:    p.FailedDestinations,
		SkippedDestinations:   p.SkippedDestinations,
		RunningDestinations:   p.RunningDestinations,
	}
}

// Snapshot returns a copy suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// Done reports whether every destination has finished.
func (p *Progress) Done() bool {
	return p.RunningDestinations == 0 &&
		p.SucceededDestinations+p.FailedDestinations+p.SkippedDestinations == p.TotalDestinations
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, approvalID, collection string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		ApprovalID: approvalID,
		Collection: collection,
		StartedAt:  time.Now(),
		onChange:   onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx applies the delta to the tracker in ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
