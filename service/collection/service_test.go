package collection_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/certify/internal/clock"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/alert"
	"github.com/viant/certify/service/collection"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/service/hub/hubtest"
	"github.com/viant/certify/service/task"
)

func newService(backend *hubtest.Hub) *collection.Service {
	waiter := task.New(backend, task.WithClock(clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	return collection.New(backend, waiter)
}

func TestService_CountUsedBy(t *testing.T) {
	backend := hubtest.New()
	backend.SetUsedBy("ns", "col", 2)
	backend.Fail(hubtest.OpUsedBy, "ns.broken", hub.NewError("GET", "http://hub/search", 500, "", nil))
	srv := newService(backend)

	count, err := srv.CountUsedBy(context.Background(), "ns", "col")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	guard, err := srv.DeleteGuard(context.Background(), "ns", "col")
	require.NoError(t, err)
	assert.False(t, guard.Allowed)
	assert.Equal(t, collection.BlockedReason, guard.Reason)

	guard, err = srv.DeleteGuard(context.Background(), "ns", "free")
	require.NoError(t, err)
	assert.True(t, guard.Allowed)
	assert.Equal(t, 0, guard.Dependents)

	_, err = srv.CountUsedBy(context.Background(), "ns", "broken")
	require.Error(t, err)
	actual, ok := alert.From(err)
	require.True(t, ok)
	assert.Equal(t, `Dependencies for collection "broken" could not be displayed.`, actual.Title)
	assert.Equal(t, "Error 500 - Internal Server Error: The server encountered an error and was unable to complete your request.", actual.Description)
}

func TestService_RemoveFromRepository(t *testing.T) {
	backend := hubtest.New()
	repo := backend.AddRepository("staging", "staging", true)
	srv := newService(backend)

	require.NoError(t, srv.RemoveFromRepository(context.Background(), "staging", "/v/1"))
	assert.Equal(t, []string{repo.Href}, backend.Keys(hubtest.OpRemoveContent))
	assert.Equal(t, 1, backend.Fetches("remove-staging-id"))

	err := srv.RemoveFromRepository(context.Background(), "missing", "/v/1")
	require.Error(t, err)
	actual, ok := alert.From(err)
	require.True(t, ok)
	assert.Equal(t, "Repository missing not found.", actual.Title)
	assert.Len(t, backend.Calls(hubtest.OpRemoveContent), 1)
}

func TestService_DeleteCollection(t *testing.T) {
	version := &model.CollectionVersion{Namespace: "ns", Name: "col", Version: "1.0.0", Repository: "published"}
	var testCases = []struct {
		description string
		whole       bool
		setup       func(backend *hubtest.Hub)
		expectKey   string
		expectTitle string
		expectErr   string
	}{
		{
			description: "whole collection",
			whole:       true,
			setup: func(backend *hubtest.Hub) {
				backend.AddRepository("published", "approved", true)
			},
			expectKey:   "published/ns/col",
			expectTitle: `Collection "col" has been successfully deleted.`,
		},
		{
			description: "single version without distribution",
			setup: func(backend *hubtest.Hub) {
				backend.AddRepository("published", "approved", false)
			},
			expectKey:   "published/ns/col/1.0.0",
			expectTitle: `Collection "col v1.0.0" has been successfully deleted.`,
		},
		{
			description: "dependents",
			whole:       true,
			setup: func(backend *hubtest.Hub) {
				backend.AddRepository("published", "approved", true)
				backend.Fail(hubtest.OpDelete, "published/ns/col", hub.NewError("DELETE", "http://hub/x", 400, "", []byte(`{"detail":"Collection is in use","dependent_collection_versions":["other.app 1.0.0"]}`)))
			},
			expectKey:   "published/ns/col",
			expectTitle: "Collection is in use",
			expectErr:   "Collection is in use: other.app 1.0.0",
		},
		{
			description: "task failed",
			setup: func(backend *hubtest.Hub) {
				backend.AddRepository("published", "approved", true)
				backend.SetTask("delete-published", &model.TaskError{Description: "locked"}, model.TaskStateFailed)
			},
			expectKey:   "published/ns/col/1.0.0",
			expectTitle: `Collection "col v1.0.0" could not be deleted.`,
			expectErr:   "locked",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			backend := hubtest.New()
			testCase.setup(backend)
			srv := newService(backend)

			success, err := srv.DeleteCollection(context.Background(), version, testCase.whole)
			assert.Equal(t, []string{testCase.expectKey}, backend.Keys(hubtest.OpDelete))
			if testCase.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.expectErr)
				actual, ok := alert.From(err)
				require.True(t, ok)
				assert.Equal(t, testCase.expectTitle, actual.Title)
				var dependents *collection.DependentsError
				if errors.As(err, &dependents) {
					assert.Equal(t, []string{"other.app 1.0.0"}, dependents.Dependents)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectTitle, success.Title)
		})
	}
}
