package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/hub"
)

// Pipeline labels used by the approval flow.
const (
	PipelineStaging  = "staging"
	PipelineApproved = "approved"
	PipelineRejected = "rejected"
)

const (
	listPageSize = 100
	listMaxPages = 10
)

// Service resolves repository names to backend references. Nothing is cached:
// every call goes to the backend.
type Service struct {
	hub    hub.Service
	logger zerolog.Logger
}

// Option configures Service
type Option func(s *Service)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a resolver
func New(hubService hub.Service, options ...Option) *Service {
	ret := &Service{hub: hubService, logger: log.Logger}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// ByName returns the first repository named name
func (s *Service) ByName(ctx context.Context, name string) (*model.Repository, error) {
	if name == "" {
		return nil, &NotFoundError{Kind: KindRepository}
	}
	page, err := s.hub.Repositories(ctx, &hub.RepositoryQuery{Name: name, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to list repository %s: %w", name, err)
	}
	if page == nil || len(page.Results) == 0 || page.Results[0] == nil {
		return nil, &NotFoundError{Kind: KindRepository, Name: name}
	}
	return page.Results[0], nil
}

// Distribution returns the first distribution serving repository
func (s *Service) Distribution(ctx context.Context, repository *model.Repository) (*model.Distribution, error) {
	distributions, err := s.hub.Distributions(ctx, repository.Href)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions of %s: %w", repository.Name, err)
	}
	if len(distributions) == 0 || distributions[0] == nil {
		return nil, &NotFoundError{Kind: KindDistribution, Name: repository.Name}
	}
	return distributions[0], nil
}

// DistributionByName resolves a repository name and its distribution.
func (s *Service) DistributionByName(ctx context.Context, name string) (*model.Repository, *model.Distribution, error) {
	repository, err := s.ByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	distribution, err := s.Distribution(ctx, repository)
	if err != nil {
		return repository, nil, err
	}
	return repository, distribution, nil
}

// BasePath returns the base path of the distribution named like the
// repository, else of the first distribution, else the repository name.
func (s *Service) BasePath(ctx context.Context, repository *model.Repository) (string, error) {
	distributions, err := s.hub.Distributions(ctx, repository.Href)
	if err != nil {
		return "", fmt.Errorf("failed to list distributions of %s: %w", repository.Name, err)
	}
	if len(distributions) == 0 {
		return repository.Name, nil
	}
	for _, candidate := range distributions {
		if candidate != nil && candidate.Name == repository.Name {
			return candidate.BasePath, nil
		}
	}
	return distributions[0].BasePath, nil
}

// SigningService resolves a signing service by name
func (s *Service) SigningService(ctx context.Context, name string) (*model.SigningService, error) {
	services, err := s.hub.SigningServices(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list signing service %s: %w", name, err)
	}
	if len(services) == 0 || services[0] == nil {
		return nil, &NotFoundError{Kind: KindSigningService, Name: name}
	}
	return services[0], nil
}

// ListByPipeline returns repositories labelled pipeline=<pipeline>; an empty
// pipeline lists all. At most 10 pages of 100 are read.
func (s *Service) ListByPipeline(ctx context.Context, pipeline string) ([]*model.Repository, error) {
	var ret []*model.Repository
	for pageNo := 1; pageNo <= listMaxPages; pageNo++ {
		page, err := s.hub.Repositories(ctx, &hub.RepositoryQuery{Pipeline: pipeline, Page: pageNo, PageSize: listPageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		ret = append(ret, page.Results...)
		if len(ret) >= page.Count || len(page.Results) == 0 {
			return ret, nil
		}
	}
	s.logger.Warn().Str("pipeline", pipeline).Int("listed", len(ret)).Msg("repository listing truncated")
	return ret, nil
}

// ListApproved lists repositories of the approved pipeline
func (s *Service) ListApproved(ctx context.Context) ([]*model.Repository, error) {
	return s.ListByPipeline(ctx, PipelineApproved)
}
