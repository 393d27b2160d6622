// Package event dispatches queued messages to a handler in the background.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/certify/service/messaging"
)

// Handler processes a single payload. A returned error nacks the message.
type Handler[T any] func(ctx context.Context, payload *T) error

// Listener consumes a queue until stopped. Queues that report an empty
// queue with a nil message are polled every IdleInterval.
type Listener[T any] struct {
	queue        messaging.Queue[T]
	handler      Handler[T]
	logger       zerolog.Logger
	idleInterval time.Duration
	cancel       context.CancelFunc
	done         chan struct{}
	mux          sync.Mutex
}

// Option configures Listener
type Option func(l *listenerOptions)

type listenerOptions struct {
	logger       zerolog.Logger
	idleInterval time.Duration
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *listenerOptions) { o.logger = logger }
}

// WithIdleInterval sets the poll interval used when the queue is empty.
func WithIdleInterval(interval time.Duration) Option {
	return func(o *listenerOptions) { o.idleInterval = interval }
}

// NewListener creates a listener; call Start to begin consuming.
func NewListener[T any](queue messaging.Queue[T], handler Handler[T], options ...Option) *Listener[T] {
	opts := &listenerOptions{logger: log.Logger, idleInterval: 100 * time.Millisecond}
	for _, option := range options {
		option(opts)
	}
	return &Listener[T]{
		queue:        queue,
		handler:      handler,
		logger:       opts.logger,
		idleInterval: opts.idleInterval,
	}
}

// Start consumes in a goroutine until ctx is done or Stop is called.
func (l *Listener[T]) Start(ctx context.Context) {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.done != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
}

// Stop cancels consumption and waits for the in-flight handler to return.
func (l *Listener[T]) Stop() {
	l.mux.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mux.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Listener[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		if ctx.Err() != nil {
			return
		}
		msg, err := l.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn().Err(err).Msg("failed to consume message")
			l.idle(ctx)
			continue
		}
		if msg == nil {
			l.idle(ctx)
			continue
		}
		l.dispatch(ctx, msg)
	}
}

func (l *Listener[T]) dispatch(ctx context.Context, msg messaging.Message[T]) {
	if err := l.handler(ctx, msg.T()); err != nil {
		l.logger.Debug().Err(err).Msg("handler failed, message nacked")
		if nackErr := msg.Nack(err); nackErr != nil {
			l.logger.Warn().Err(nackErr).Msg("failed to nack message")
		}
		return
	}
	if err := msg.Ack(); err != nil {
		l.logger.Warn().Err(err).Msg("failed to ack message")
	}
}

func (l *Listener[T]) idle(ctx context.Context) {
	timer := time.NewTimer(l.idleInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
