package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Update(t *testing.T) {
	var last Progress
	var mux sync.Mutex
	ctx, tracker := WithNewTracker(context.Background(), "id-1", "ns col v1.0.0", func(p Progress) {
		mux.Lock()
		last = p
		mux.Unlock()
	})
	UpdateCtx(ctx, Delta{Total: 3, Running: 3})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 1 {
				UpdateCtx(ctx, Delta{Running: -1, Failed: 1})
				return
			}
			UpdateCtx(ctx, Delta{Running: -1, Succeeded: 1})
		}(i)
	}
	wg.Wait()

	snapshot, ok := GetSnapshot(ctx)
	require.True(t, ok)
	assert.EqualValues(t, 3, snapshot.TotalDestinations)
	assert.EqualValues(t, 2, snapshot.SucceededDestinations)
	assert.EqualValues(t, 1, snapshot.FailedDestinations)
	assert.True(t, snapshot.Done())
	assert.Same(t, tracker, func() *Progress { p, _ := FromContext(ctx); return p }())

	mux.Lock()
	defer mux.Unlock()
	assert.EqualValues(t, "id-1", last.ApprovalID)
	assert.True(t, last.Done())
}

func TestProgress_NoTracker(t *testing.T) {
	UpdateCtx(context.Background(), Delta{Total: 1})
	_, ok := GetSnapshot(context.Background())
	assert.False(t, ok)
	var p *Progress
	p.Update(Delta{Total: 1})
	assert.EqualValues(t, Progress{}, p.Snapshot())
}
