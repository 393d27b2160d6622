package task

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/certify/internal/clock"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/tracing"
)

// Fetcher returns the current task status
type Fetcher interface {
	Task(ctx context.Context, id string) (*model.Task, error)
}

// Service waits for tasks
type Service struct {
	fetcher Fetcher
	config  Config
	clock   clock.Clock
	logger  zerolog.Logger
}

// Option configures Service
type Option func(s *Service)

// WithConfig sets default polling config
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithClock sets the clock used for sleeping between polls
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clock = clk }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a task waiter
func New(fetcher Fetcher, options ...Option) *Service {
	ret := &Service{
		fetcher: fetcher,
		config:  DefaultConfig(),
		clock:   clock.Real(),
		logger:  log.Logger,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Config returns the default polling config
func (s *Service) Config() Config {
	return s.config
}

// WaitForTask blocks until the task identified by ref completes. ref may be a
// bare id or a task href. The status is fetched at most MaxAttempts+1 times.
func (s *Service) WaitForTask(ctx context.Context, ref string, options ...WaitOption) (err error) {
	config := s.config
	for _, option := range options {
		option(&config)
	}
	id := hub.IDFromURL(ref)
	if id == "" {
		return fmt.Errorf("task: id was empty")
	}
	ctx, span := tracing.StartSpan(ctx, "task.wait", tracing.KindInternal)
	span.WithAttributes(map[string]string{"task.id": id})
	defer func() { tracing.EndSpan(span, err) }()

	logger := s.logger.With().Str("task", id).Logger()
	remaining := config.MaxAttempts
	for fetches := 1; ; fetches++ {
		task, err := s.fetcher.Task(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch task %s: %w", id, err)
		}
		switch {
		case task.State == model.TaskStateCompleted:
			span.WithInt("task.fetches", fetches)
			logger.Debug().Int("fetches", fetches).Msg("task completed")
			return nil
		case task.State.IsFailure():
			span.WithInt("task.fetches", fetches)
			failed := newFailedError(id, task)
			logger.Debug().Str("state", string(task.State)).Str("error", failed.Error()).Msg("task failed")
			return failed
		}
		if remaining <= 0 {
			logger.Warn().Int("fetches", fetches).Str("state", string(task.State)).Msg("giving up waiting for task")
			return fmt.Errorf("%w %s after %d checks (last state: %s)", ErrGaveUp, id, fetches, task.State)
		}
		remaining--
		logger.Debug().Str("state", string(task.State)).Int("remaining", remaining).Msg("task not finished")
		if err := s.clock.Sleep(ctx, config.PollInterval); err != nil {
			return err
		}
	}
}

// WaitForTaskURL extracts the task id from URL and waits for it.
func (s *Service) WaitForTaskURL(ctx context.Context, URL string, options ...WaitOption) error {
	return s.WaitForTask(ctx, hub.IDFromURL(URL), options...)
}

// WaitForTasks waits for every task in order, stopping at the first error.
func (s *Service) WaitForTasks(ctx context.Context, refs []string, options ...WaitOption) error {
	for _, ref := range refs {
		if err := s.WaitForTask(ctx, ref, options...); err != nil {
			return err
		}
	}
	return nil
}
