package approval

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/certify/internal/clock"
	"github.com/viant/certify/internal/idgen"
	"github.com/viant/certify/model"
	"github.com/viant/certify/policy"
	"github.com/viant/certify/progress"
	"github.com/viant/certify/service/alert"
	"github.com/viant/certify/service/dao"
	"github.com/viant/certify/service/dao/history"
	hmemory "github.com/viant/certify/service/dao/history/memory"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/service/messaging"
	qmemory "github.com/viant/certify/service/messaging/memory"
	"github.com/viant/certify/service/repository"
	"github.com/viant/certify/service/task"
	"github.com/viant/certify/tracing"
)

// Waiter waits for hub tasks
type Waiter interface {
	WaitForTask(ctx context.Context, ref string, options ...task.WaitOption) error
}

// Service orchestrates approvals
type Service struct {
	hub          hub.Service
	waiter       Waiter
	repositories *repository.Service
	config       Config
	history      history.Service
	events       messaging.Queue[Event]
	clock        clock.Clock
	newID        func() string
	logger       zerolog.Logger
}

// New creates an orchestrator. Approvals are kept in memory and events go to a
// non-blocking memory queue unless replaced with options.
func New(hubService hub.Service, waiter Waiter, options ...Option) *Service {
	queueConfig := qmemory.DefaultConfig()
	queueConfig.DropWhenFull = true
	ret := &Service{
		hub:     hubService,
		waiter:  waiter,
		config:  DefaultConfig(),
		history: hmemory.New(),
		events:  qmemory.NewQueue[Event](queueConfig),
		clock:   clock.Real(),
		newID:   func() string { return idgen.WithPrefix("approval") },
		logger:  log.Logger,
	}
	for _, option := range options {
		option(ret)
	}
	ret.repositories = repository.New(hubService, repository.WithLogger(ret.logger))
	return ret
}

// Config returns the default approval config
func (s *Service) Config() Config {
	return s.config
}

// Events returns the approval event queue
func (s *Service) Events() messaging.Queue[Event] {
	return s.events
}

// plan holds what every destination of one approval shares.
type plan struct {
	version    *model.CollectionVersion
	addressing model.Addressing
	source     string
	sourceErr  error
	signing    string
	// copiesIssued is released once every copy request has returned, so the
	// move, whose remove task empties the source, is queued after them.
	copiesIssued sync.WaitGroup
}

// Approve transfers version into destinations: a move into the first, a copy
// into each other one. Destinations run concurrently and never affect each
// other, except that the move is requested only after every copy request
// returned; already completed transfers are not rolled back. The returned
// approval holds one outcome per destination in the given order. An error is
// returned only for a *PreconditionError, before any transfer is issued.
func (s *Service) Approve(ctx context.Context, version *model.CollectionVersion, destinations []string, options ...ApproveOption) (ret *model.Approval, err error) {
	config := s.config
	for _, option := range options {
		option(&config)
	}
	if err = config.Validate(); err != nil {
		return nil, newPreconditionError(err)
	}
	if version == nil || version.Repository == "" {
		return nil, newPreconditionError(ErrUnknownSource)
	}
	if len(destinations) == 0 {
		return nil, newPreconditionError(ErrNoDestination)
	}

	ctx, span := tracing.StartSpan(ctx, "approval.approve", tracing.KindInternal)
	span.WithAttributes(map[string]string{"collection": version.String(), "source": version.Repository}).WithInt("destinations", len(destinations))
	defer func() { tracing.EndSpan(span, err) }()

	if config.Policy != nil && policy.FromContext(ctx) == nil {
		ctx = policy.WithPolicy(ctx, policy.FromConfig(config.Policy))
	}
	p := &plan{version: version, addressing: config.Addressing}
	p.copiesIssued.Add(len(destinations) - 1)
	if config.SigningService != "" {
		signing, err := s.repositories.SigningService(ctx, config.SigningService)
		if err != nil {
			return nil, newPreconditionError(err)
		}
		p.signing = signing.Href
	}
	p.source, p.sourceErr = s.address(ctx, version.Repository, p.addressing)

	ret = &model.Approval{
		ID:             s.newID(),
		Version:        version,
		Source:         version.Repository,
		SigningService: config.SigningService,
		Outcomes:       make([]*model.Outcome, len(destinations)),
		StartedAt:      s.clock.Now(),
	}
	logger := s.logger.With().Str("approval", ret.ID).Str("collection", version.String()).Logger()
	ctx = s.trackProgress(ctx, ret, len(destinations))
	s.publish(ctx, &Event{Topic: TopicStarted, ApprovalID: ret.ID, Version: version, Time: ret.StartedAt})

	var wg sync.WaitGroup
	for i, destination := range destinations {
		wg.Add(1)
		go func(i int, destination string) {
			defer wg.Done()
			outcome := s.transfer(ctx, p, i, destination)
			ret.Outcomes[i] = outcome
			logger.Info().Str("destination", destination).Str("kind", string(outcome.Kind)).Bool("success", outcome.Success).Msg(outcome.Message)
			s.publish(ctx, &Event{Topic: TopicOutcome, ApprovalID: ret.ID, Version: version, Outcome: outcome, Time: s.clock.Now()})
		}(i, destination)
	}
	wg.Wait()

	ret.FinishedAt = s.clock.Now()
	span.WithInt("failed", len(ret.Failed()))
	if err := s.history.Save(ctx, ret); err != nil {
		logger.Warn().Err(err).Msg("failed to save approval")
	}
	s.publish(ctx, &Event{Topic: TopicFinished, ApprovalID: ret.ID, Version: version, Approval: ret, Time: ret.FinishedAt})
	return ret, nil
}

// ApproveToApproved approves version into the only repository labelled
// pipeline=approved.
func (s *Service) ApproveToApproved(ctx context.Context, version *model.CollectionVersion, options ...ApproveOption) (*model.Approval, error) {
	if version == nil || version.Repository == "" {
		return nil, newPreconditionError(ErrUnknownSource)
	}
	approved, err := s.repositories.ListApproved(ctx)
	if err != nil {
		return nil, newPreconditionError(err)
	}
	switch len(approved) {
	case 0:
		return nil, newPreconditionError(ErrNoApprovedRepository)
	case 1:
		return s.Approve(ctx, version, []string{approved[0].Name}, options...)
	}
	return nil, newPreconditionError(fmt.Errorf("%w: %d repositories, choose destinations explicitly", ErrAmbiguousApproved, len(approved)))
}

// Result loads a past approval by id
func (s *Service) Result(ctx context.Context, id string) (*model.Approval, error) {
	return s.history.Load(ctx, id)
}

// History lists past approvals matching parameters
func (s *Service) History(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Approval, error) {
	return s.history.List(ctx, parameters...)
}

// transfer resolves, issues and awaits one destination, strictly in sequence.
func (s *Service) transfer(ctx context.Context, p *plan, index int, destination string) (outcome *model.Outcome) {
	kind := model.TransferCopy
	if index == 0 {
		kind = model.TransferMove
	}
	outcome = &model.Outcome{Destination: destination, Kind: kind}
	issued := func() {}
	if kind == model.TransferCopy {
		issued = sync.OnceFunc(p.copiesIssued.Done)
		defer issued()
	}
	ctx, span := tracing.StartSpan(ctx, "approval.transfer", tracing.KindInternal)
	span.WithAttributes(map[string]string{"destination": destination, "kind": string(kind)})
	progress.UpdateCtx(ctx, progress.Delta{Running: 1})
	var err error
	defer func() {
		s.complete(p.version, outcome, err)
		progress.UpdateCtx(ctx, outcomeDelta(outcome))
		tracing.EndSpan(span, err)
	}()

	if !policy.FromContext(ctx).Permit(ctx, destination, p.version) {
		err = fmt.Errorf("%w: %s", ErrNotPermitted, destination)
		return outcome
	}
	if p.sourceErr != nil {
		err = p.sourceErr
		return outcome
	}
	target, err := s.address(ctx, destination, p.addressing)
	if err != nil {
		return outcome
	}
	request := &model.TransferRequest{
		Kind:           kind,
		Addressing:     p.addressing,
		Version:        p.version,
		Source:         p.source,
		Destination:    target,
		SigningService: p.signing,
	}
	var result *model.TransferResult
	if kind == model.TransferMove {
		p.copiesIssued.Wait()
		result, err = s.hub.Move(ctx, request)
	} else {
		result, err = s.hub.Copy(ctx, request)
		issued()
	}
	if err != nil {
		return outcome
	}
	outcome.Tasks = result.Tasks()
	if len(outcome.Tasks) == 0 {
		err = ErrNoTask
		return outcome
	}
	for _, ref := range outcome.Tasks {
		if err = s.waiter.WaitForTask(ctx, ref); err != nil {
			return outcome
		}
	}
	return outcome
}

// address resolves a repository name to the reference transfer endpoints use.
func (s *Service) address(ctx context.Context, name string, addressing model.Addressing) (string, error) {
	if addressing == model.AddressByRepository {
		repo, err := s.repositories.ByName(ctx, name)
		if err != nil {
			return "", err
		}
		return repo.Href, nil
	}
	_, distribution, err := s.repositories.DistributionByName(ctx, name)
	if err != nil {
		return "", err
	}
	return distribution.BasePath, nil
}

// complete fills outcome title and message from err.
func (s *Service) complete(version *model.CollectionVersion, outcome *model.Outcome, err error) {
	if err == nil {
		outcome.Success = true
		outcome.Title = SuccessTitle(version)
		verb := "Moved"
		if outcome.Kind == model.TransferCopy {
			verb = "Copied"
		}
		outcome.Message = fmt.Sprintf("%s to repository %s.", verb, outcome.Destination)
		return
	}
	outcome.Title = FailureTitle(version)
	outcome.Message = alert.Describe(err)
	if hubErr, ok := hub.AsError(err); ok {
		outcome.Status = hubErr.Status
		outcome.StatusText = hubErr.StatusText
		return
	}
	switch {
	case task.IsGaveUp(err):
		outcome.Unknown = true
	case errors.Is(err, ErrNotPermitted):
		outcome.Skipped = true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome.Unknown = len(outcome.Tasks) > 0
	}
}

func outcomeDelta(outcome *model.Outcome) progress.Delta {
	ret := progress.Delta{Running: -1}
	switch {
	case outcome.Success:
		ret.Succeeded = 1
	case outcome.Skipped:
		ret.Skipped = 1
	default:
		ret.Failed = 1
	}
	return ret
}

// trackProgress reuses a tracker from ctx or installs a new one.
func (s *Service) trackProgress(ctx context.Context, approval *model.Approval, destinations int) context.Context {
	if _, ok := progress.FromContext(ctx); !ok {
		ctx, _ = progress.WithNewTracker(ctx, approval.ID, approval.Version.String(), nil)
	}
	progress.UpdateCtx(ctx, progress.Delta{Total: destinations})
	return ctx
}

func (s *Service) publish(ctx context.Context, event *Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn().Err(err).Str("topic", event.Topic).Str("approval", event.ApprovalID).Msg("failed to publish approval event")
	}
}
