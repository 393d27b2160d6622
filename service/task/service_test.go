package task_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/certify/internal/clock"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/service/task"
)

// scriptedFetcher returns states in order, repeating the last one.
type scriptedFetcher struct {
	mu      sync.Mutex
	states  []model.TaskState
	taskErr *model.TaskError
	err     error
	ids     []string
}

func (f *scriptedFetcher) Task(_ context.Context, id string) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	if f.err != nil {
		return nil, f.err
	}
	index := len(f.ids) - 1
	if index >= len(f.states) {
		index = len(f.states) - 1
	}
	state := f.states[index]
	ret := &model.Task{State: state}
	if state.IsFailure() {
		ret.Error = f.taskErr
	}
	return ret, nil
}

func (f *scriptedFetcher) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}

func newFake() *clock.Fake {
	return clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestService_WaitForTask(t *testing.T) {
	var testCases = []struct {
		description   string
		states        []model.TaskState
		taskErr       *model.TaskError
		fetchErr      error
		expectFetches int
		expectSleeps  int
		expectErr     string
		expectGaveUp  bool
	}{
		{
			description:   "running twice then completed",
			states:        []model.TaskState{model.TaskStateRunning, model.TaskStateRunning, model.TaskStateCompleted},
			expectFetches: 3,
			expectSleeps:  2,
		},
		{
			description:   "already completed",
			states:        []model.TaskState{model.TaskStateCompleted},
			expectFetches: 1,
		},
		{
			description:   "failed with description",
			states:        []model.TaskState{model.TaskStateWaiting, model.TaskStateFailed},
			taskErr:       &model.TaskError{Description: "signature invalid", Traceback: "tb"},
			expectFetches: 2,
			expectSleeps:  1,
			expectErr:     "signature invalid",
		},
		{
			description:   "skipped without description",
			states:        []model.TaskState{model.TaskStateSkipped},
			expectFetches: 1,
			expectErr:     task.NoErrorMessage,
		},
		{
			description:   "canceled",
			states:        []model.TaskState{model.TaskStateCanceled},
			taskErr:       &model.TaskError{},
			expectFetches: 1,
			expectErr:     task.NoErrorMessage,
		},
		{
			description:   "unknown state keeps polling until budget",
			states:        []model.TaskState{model.TaskState("paused")},
			expectFetches: 11,
			expectSleeps:  10,
			expectGaveUp:  true,
		},
		{
			description:   "never terminal",
			states:        []model.TaskState{model.TaskStateRunning},
			expectFetches: 11,
			expectSleeps:  10,
			expectGaveUp:  true,
		},
		{
			description:   "fetch error is not retried",
			fetchErr:      hub.NewError("GET", "/tasks/t1/", 500, "500 Internal Server Error", nil),
			expectFetches: 1,
			expectErr:     "failed to fetch task t1",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			fetcher := &scriptedFetcher{states: testCase.states, taskErr: testCase.taskErr, err: testCase.fetchErr}
			fake := newFake()
			srv := task.New(fetcher, task.WithClock(fake))

			err := srv.WaitForTask(context.Background(), "t1")
			assert.Equal(t, testCase.expectFetches, fetcher.fetches())
			assert.Len(t, fake.Sleeps(), testCase.expectSleeps)
			switch {
			case testCase.expectGaveUp:
				require.Error(t, err)
				assert.True(t, task.IsGaveUp(err))
				assert.Equal(t, srv.Config().Window(), fake.Elapsed())
			case testCase.expectErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.expectErr)
				assert.False(t, task.IsGaveUp(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_WaitForTask_FailedError(t *testing.T) {
	fetcher := &scriptedFetcher{
		states:  []model.TaskState{model.TaskStateFailed},
		taskErr: &model.TaskError{Description: "boom", Traceback: "Traceback (most recent call last)"},
	}
	srv := task.New(fetcher, task.WithClock(newFake()))
	err := srv.WaitForTask(context.Background(), "t1")
	failed, ok := task.AsFailed(err)
	require.True(t, ok)
	assert.Equal(t, &task.FailedError{ID: "t1", State: model.TaskStateFailed, Description: "boom", Traceback: "Traceback (most recent call last)"}, failed)
}

func TestService_WaitForTask_HubError(t *testing.T) {
	fetcher := &scriptedFetcher{err: hub.NewError("GET", "/tasks/t1/", 404, "404 Not Found", nil)}
	srv := task.New(fetcher, task.WithClock(newFake()))
	err := srv.WaitForTask(context.Background(), "t1")
	hubErr, ok := hub.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 404, hubErr.Status)
}

func TestService_WaitOptions(t *testing.T) {
	fetcher := &scriptedFetcher{states: []model.TaskState{model.TaskStateRunning}}
	fake := newFake()
	srv := task.New(fetcher, task.WithClock(fake), task.WithConfig(task.Config{PollInterval: time.Second, MaxAttempts: 2}))

	err := srv.WaitForTask(context.Background(), "t1", task.WithPollInterval(500*time.Millisecond), task.WithMaxAttempts(3))
	assert.True(t, task.IsGaveUp(err))
	assert.Equal(t, 4, fetcher.fetches())
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond}, fake.Sleeps())
}

func TestService_WaitForTaskURL(t *testing.T) {
	fetcher := &scriptedFetcher{states: []model.TaskState{model.TaskStateCompleted}}
	srv := task.New(fetcher, task.WithClock(newFake()))
	assert.NoError(t, srv.WaitForTaskURL(context.Background(), "/api/galaxy/pulp/api/v3/tasks/0189-ab/"))
	assert.Equal(t, []string{"0189-ab"}, fetcher.ids)

	assert.Error(t, srv.WaitForTaskURL(context.Background(), ""))
}

func TestService_WaitForTasks(t *testing.T) {
	fetcher := &scriptedFetcher{states: []model.TaskState{model.TaskStateCompleted}}
	srv := task.New(fetcher, task.WithClock(newFake()))
	assert.NoError(t, srv.WaitForTasks(context.Background(), []string{"c1", "/tasks/r1/"}))
	assert.Equal(t, []string{"c1", "r1"}, fetcher.ids)
}

func TestService_WaitForTask_Cancelled(t *testing.T) {
	fetcher := &scriptedFetcher{states: []model.TaskState{model.TaskStateRunning}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv := task.New(fetcher, task.WithClock(newFake()))
	err := srv.WaitForTask(ctx, "t1")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, fetcher.fetches())
}

func TestConfig(t *testing.T) {
	config := task.DefaultConfig()
	assert.Equal(t, 50*time.Second, config.Window())
	assert.NoError(t, config.Validate())
	assert.Error(t, task.Config{MaxAttempts: -1}.Validate())
}
