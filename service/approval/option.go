package approval

import (
	"github.com/rs/zerolog"
	"github.com/viant/certify/internal/clock"
	"github.com/viant/certify/service/dao/history"
	"github.com/viant/certify/service/messaging"
)

// Option configures Service
type Option func(s *Service)

// WithConfig sets the default approval config
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithHistory sets the approval history store
func WithHistory(store history.Service) Option {
	return func(s *Service) { s.history = store }
}

// WithEvents sets the queue receiving approval events
func WithEvents(queue messaging.Queue[Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithClock sets the clock used for timestamps
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clock = clk }
}

// WithIDGenerator sets the approval id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}
