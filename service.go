package certify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/certify/internal/clock"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/alert"
	"github.com/viant/certify/service/approval"
	"github.com/viant/certify/service/collection"
	"github.com/viant/certify/service/dao"
	"github.com/viant/certify/service/dao/history"
	hfs "github.com/viant/certify/service/dao/history/fs"
	hmemory "github.com/viant/certify/service/dao/history/memory"
	"github.com/viant/certify/service/event"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/service/hub/rest"
	"github.com/viant/certify/service/messaging"
	qfs "github.com/viant/certify/service/messaging/fs"
	qmemory "github.com/viant/certify/service/messaging/memory"
	"github.com/viant/certify/service/repository"
	"github.com/viant/certify/service/task"
	"github.com/viant/certify/tracing"
	"github.com/viant/scy"
)

// Version is reported to tracing
const Version = "0.1.0"

// Service is the certify façade
type Service struct {
	config       *Config
	hub          hub.Service
	httpClient   *http.Client
	fs           afs.Service
	clock        clock.Clock
	logger       zerolog.Logger
	history      history.Service
	events       messaging.Queue[approval.Event]
	waiter       *task.Service
	repositories *repository.Service
	approvals    *approval.Service
	collections  *collection.Service
}

// New creates the façade. Without WithHub a REST client is built from
// Config.Hub; basic credentials are resolved from scy when configured.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{logger: log.Logger, clock: clock.Real()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.hub == nil {
		if err := s.config.Validate(); err != nil {
			return err
		}
		client, err := s.newClient(ctx)
		if err != nil {
			return err
		}
		s.hub = client
	} else if err := s.config.validateServices(); err != nil {
		return err
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.ServiceName, Version, s.config.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if err := s.ensureStores(); err != nil {
		return err
	}
	s.waiter = task.New(s.hub, task.WithConfig(s.config.Task), task.WithClock(s.clock), task.WithLogger(s.logger))
	s.repositories = repository.New(s.hub, repository.WithLogger(s.logger))
	s.approvals = approval.New(s.hub, s.waiter,
		approval.WithConfig(s.config.Approval),
		approval.WithHistory(s.history),
		approval.WithEvents(s.events),
		approval.WithClock(s.clock),
		approval.WithLogger(s.logger))
	s.collections = collection.New(s.hub, s.waiter, collection.WithLogger(s.logger))
	return nil
}

func (s *Service) newClient(ctx context.Context) (*rest.Client, error) {
	hubConfig := s.config.Hub
	if err := resolveCredentials(ctx, scy.New(), &hubConfig); err != nil {
		return nil, err
	}
	httpClient := s.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: hubConfig.Timeout}
	}
	logger := s.logger
	return rest.New(rest.Config{
		BaseURL:    hubConfig.BaseURL,
		PulpPrefix: hubConfig.PulpPrefix,
		Token:      hubConfig.Token,
		Username:   hubConfig.Username,
		Password:   hubConfig.Password,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
}

func (s *Service) ensureStores() error {
	if s.history == nil {
		if s.config.HistoryURL != "" {
			s.history = hfs.New(s.config.HistoryURL, s.fs)
		} else {
			s.history = hmemory.New()
		}
	}
	if s.events != nil {
		return nil
	}
	events := s.config.Events
	switch events.Vendor {
	case messaging.VendorFS:
		queue, err := qfs.NewQueue[approval.Event](s.fs, qfs.Config{BaseURL: events.URL, MaxRetries: events.MaxRetries})
		if err != nil {
			return fmt.Errorf("failed to create event queue: %w", err)
		}
		s.events = queue
	default:
		config := qmemory.DefaultConfig()
		config.DropWhenFull = true
		if events.Buffer > 0 {
			config.QueueBuffer = events.Buffer
		}
		config.MaxRetries = events.MaxRetries
		s.events = qmemory.NewQueue[approval.Event](config)
	}
	return nil
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Hub returns the hub client
func (s *Service) Hub() hub.Service {
	return s.hub
}

// Repositories returns the repository resolver
func (s *Service) Repositories() *repository.Service {
	return s.repositories
}

// Events returns the approval event queue
func (s *Service) Events() messaging.Queue[approval.Event] {
	return s.events
}

// Listen dispatches approval events to handler until ctx is done or the
// returned listener is stopped.
func (s *Service) Listen(ctx context.Context, handler event.Handler[approval.Event]) *event.Listener[approval.Event] {
	listener := event.NewListener[approval.Event](s.events, handler, event.WithLogger(s.logger))
	listener.Start(ctx)
	return listener
}

// WaitForTask waits until the task identified by id or href completes.
func (s *Service) WaitForTask(ctx context.Context, ref string, options ...task.WaitOption) error {
	return s.waiter.WaitForTask(ctx, ref, options...)
}

// WaitForTaskURL extracts the task id from URL and waits for it.
func (s *Service) WaitForTaskURL(ctx context.Context, URL string, options ...task.WaitOption) error {
	return s.waiter.WaitForTaskURL(ctx, URL, options...)
}

// Approve transfers version into destinations and reports one outcome each.
func (s *Service) Approve(ctx context.Context, version *model.CollectionVersion, destinations []string, options ...approval.ApproveOption) (*model.Approval, error) {
	return s.approvals.Approve(ctx, version, destinations, options...)
}

// ApproveToApproved approves version into the single approved repository.
func (s *Service) ApproveToApproved(ctx context.Context, version *model.CollectionVersion, options ...approval.ApproveOption) (*model.Approval, error) {
	return s.approvals.ApproveToApproved(ctx, version, options...)
}

// Result loads a past approval
func (s *Service) Result(ctx context.Context, id string) (*model.Approval, error) {
	return s.approvals.Result(ctx, id)
}

// History lists past approvals
func (s *Service) History(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Approval, error) {
	return s.approvals.History(ctx, parameters...)
}

// CountUsedBy returns the number of collection versions depending on namespace.name.
func (s *Service) CountUsedBy(ctx context.Context, namespace, name string) (int, error) {
	return s.collections.CountUsedBy(ctx, namespace, name)
}

// DeleteGuard reports whether namespace.name may be deleted
func (s *Service) DeleteGuard(ctx context.Context, namespace, name string) (*collection.Guard, error) {
	return s.collections.DeleteGuard(ctx, namespace, name)
}

// RemoveFromRepository removes a collection version from a repository
func (s *Service) RemoveFromRepository(ctx context.Context, repositoryName, versionHref string) error {
	return s.collections.RemoveFromRepository(ctx, repositoryName, versionHref)
}

// DeleteCollection deletes a collection or one of its versions
func (s *Service) DeleteCollection(ctx context.Context, version *model.CollectionVersion, wholeCollection bool) (*alert.Alert, error) {
	return s.collections.DeleteCollection(ctx, version, wholeCollection)
}
