package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/certify/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue
type MessageState string

const (
	MessageStatePending    MessageState = "pending"
	MessageStateProcessing MessageState = "processing"
	MessageStateDone       MessageState = "done"
	MessageStateDead       MessageState = "dead"
)

// Message is a queue message persisted as JSON
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message to the done directory
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	m.State = MessageStateDone
	m.UpdatedAt = time.Now()
	return m.queue.settle(context.Background(), m, m.queue.doneDir)
}

// Nack returns the message to pending until MaxRetries is exceeded, then
// moves it to the dead letter directory.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.ID)
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	if m.Retries > m.queue.config.MaxRetries {
		m.State = MessageStateDead
		return m.queue.settle(context.Background(), m, m.queue.dlqDir)
	}
	m.State = MessageStatePending
	return m.queue.settle(context.Background(), m, m.queue.pendingDir)
}

// Config holds configuration for filesystem queue
type Config struct {
	BaseURL    string
	MaxRetries int
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:    "/tmp/certify/events",
		MaxRetries: 3,
	}
}

// Queue is an afs backed messaging.Queue. Messages are consumed in publish
// order; Consume returns nil when nothing is pending.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	doneDir       string
	dlqDir        string
	seq           atomic.Uint64
	mu            sync.Mutex
}

// NewQueue creates a filesystem queue, creating its directories
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("queue base URL was empty")
	}
	if fs == nil {
		fs = afs.New()
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    url.Join(config.BaseURL, "pending"),
		processingDir: url.Join(config.BaseURL, "processing"),
		doneDir:       url.Join(config.BaseURL, "done"),
		dlqDir:        url.Join(config.BaseURL, "dlq"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.doneDir, q.dlqDir} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create queue directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes a pending message
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	message.name = fmt.Sprintf("%020d-%08d-%s.json", now.UnixNano(), q.seq.Add(1), message.ID)
	return q.write(ctx, url.Join(q.pendingDir, message.name), message)
}

// Consume claims the oldest pending message
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	names, err := q.pendingNames(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	name := names[0]
	source := url.Join(q.pendingDir, name)
	data, err := q.fs.DownloadWithURL(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", name, err)
	}
	message := &Message[T]{}
	if err = json.Unmarshal(data, message); err != nil {
		_ = q.fs.Move(ctx, source, url.Join(q.dlqDir, name))
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", name, err)
	}
	message.name = name
	message.queue = q
	message.State = MessageStateProcessing
	message.UpdatedAt = time.Now()
	if err = q.write(ctx, url.Join(q.processingDir, name), message); err != nil {
		return nil, err
	}
	if err = q.fs.Delete(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to delete pending message %s: %w", name, err)
	}
	return message, nil
}

// Pending returns the number of pending messages
func (q *Queue[T]) Pending(ctx context.Context) (int, error) {
	names, err := q.pendingNames(ctx)
	return len(names), err
}

func (q *Queue[T]) pendingNames(ctx context.Context) ([]string, error) {
	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var names []string
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			names = append(names, object.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (q *Queue[T]) settle(ctx context.Context, m *Message[T], dir string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.write(ctx, url.Join(dir, m.name), m); err != nil {
		return err
	}
	processing := url.Join(q.processingDir, m.name)
	if exists, _ := q.fs.Exists(ctx, processing); exists {
		if err := q.fs.Delete(ctx, processing); err != nil {
			return fmt.Errorf("failed to delete processing message %s: %w", m.name, err)
		}
	}
	return nil
}

func (q *Queue[T]) write(ctx context.Context, URL string, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", m.ID, err)
	}
	if err = q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write message %s: %w", URL, err)
	}
	return nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
