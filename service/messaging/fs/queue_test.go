package fs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type testEvent struct {
	Destination string `json:"destination"`
	Success     bool   `json:"success"`
}

func newQueue(t *testing.T, maxRetries int) (*Queue[testEvent], afs.Service) {
	fs := afs.New()
	queue, err := NewQueue[testEvent](fs, Config{BaseURL: t.TempDir(), MaxRetries: maxRetries})
	require.NoError(t, err)
	return queue, fs
}

func TestQueue_Order(t *testing.T) {
	queue, fs := newQueue(t, 1)
	ctx := context.Background()
	for _, dir := range []string{queue.pendingDir, queue.processingDir, queue.doneDir, queue.dlqDir} {
		exists, err := fs.Exists(ctx, dir)
		require.NoError(t, err)
		assert.True(t, exists, dir)
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, queue.Publish(ctx, &testEvent{Destination: fmt.Sprintf("repo%d", i), Success: i != 1}))
	}
	pending, err := queue.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)

	for i := 0; i < 3; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, fmt.Sprintf("repo%d", i), message.T().Destination)
		require.NoError(t, message.Ack())
		assert.Error(t, message.Ack())
	}
	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Nil(t, message)

	done, err := fs.List(ctx, queue.doneDir)
	require.NoError(t, err)
	assert.Equal(t, 3, len(done)-1)
}

func TestQueue_Nack(t *testing.T) {
	queue, fs := newQueue(t, 1)
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testEvent{Destination: "published"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("consumer failed")))

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, "published", message.T().Destination)
	require.NoError(t, message.Nack(nil))

	pending, err := queue.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	dead, err := fs.List(ctx, queue.dlqDir)
	require.NoError(t, err)
	assert.Equal(t, 1, len(dead)-1)
}

func TestNewQueue_EmptyURL(t *testing.T) {
	_, err := NewQueue[testEvent](afs.New(), Config{})
	assert.Error(t, err)
}
