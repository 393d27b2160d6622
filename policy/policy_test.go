package policy

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/certify/model"
)

func TestPolicy_Permit(t *testing.T) {
	version := &model.CollectionVersion{Namespace: "ns", Name: "col", Version: "1.0.0"}
	var testCases = []struct {
		description string
		policy      *Policy
		destination string
		expect      bool
	}{
		{description: "nil policy", policy: nil, destination: "published", expect: true},
		{description: "auto", policy: &Policy{Mode: ModeAuto}, destination: "published", expect: true},
		{description: "deny", policy: &Policy{Mode: ModeDeny}, destination: "published", expect: false},
		{description: "blocked", policy: &Policy{BlockList: []string{"Published"}}, destination: "published", expect: false},
		{description: "not in allow list", policy: &Policy{AllowList: []string{"community"}}, destination: "published", expect: false},
		{description: "in allow list", policy: &Policy{AllowList: []string{"community", "published"}}, destination: "published", expect: true},
		{description: "ask without callback", policy: &Policy{Mode: ModeAsk}, destination: "published", expect: false},
		{
			description: "ask approves",
			policy: &Policy{Mode: ModeAsk, Ask: func(ctx context.Context, destination string, v *model.CollectionVersion, p *Policy) bool {
				return destination == "published" && v.Name == "col"
			}},
			destination: "published",
			expect:      true,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.EqualValues(t, testCase.expect, testCase.policy.Permit(context.Background(), testCase.destination, version))
		})
	}
}

func TestPolicy_Context(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	p := &Policy{Mode: ModeDeny, BlockList: []string{"x"}}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))

	restored := FromConfig(ToConfig(p))
	assert.EqualValues(t, p.Mode, restored.Mode)
	assert.EqualValues(t, p.BlockList, restored.BlockList)
	assert.Nil(t, ToConfig(nil))
}

func TestPolicy_PermitConcurrentAsk(t *testing.T) {
	version := &model.CollectionVersion{Namespace: "ns", Name: "col", Version: "1.0.0"}
	var mux sync.Mutex
	asked := map[string]int{}
	p := &Policy{Mode: ModeAsk, Ask: func(_ context.Context, destination string, _ *model.CollectionVersion, _ *Policy) bool {
		mux.Lock()
		defer mux.Unlock()
		asked[destination]++
		return destination != "repo0"
	}}

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Permit(context.Background(), fmt.Sprintf("repo%d", i), version)
		}(i)
	}
	wg.Wait()

	assert.False(t, results[0])
	for i := 1; i < len(results); i++ {
		assert.True(t, results[i])
	}
	assert.Len(t, asked, 8)
	assert.Equal(t, ModeAsk, p.Mode)
}
