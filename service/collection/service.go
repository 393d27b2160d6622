package collection

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/alert"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/service/repository"
	"github.com/viant/certify/service/task"
)

// BlockedReason explains why deleting a collection with dependents is disabled.
const BlockedReason = "Cannot delete until collections that depend on this collection have been deleted."

// Waiter waits for hub tasks
type Waiter interface {
	WaitForTask(ctx context.Context, ref string, options ...task.WaitOption) error
}

// Service manages collection removal
type Service struct {
	hub          hub.Service
	waiter       Waiter
	repositories *repository.Service
	logger       zerolog.Logger
}

// Option configures Service
type Option func(s *Service)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a collection service
func New(hubService hub.Service, waiter Waiter, options ...Option) *Service {
	ret := &Service{hub: hubService, waiter: waiter, logger: log.Logger}
	for _, option := range options {
		option(ret)
	}
	ret.repositories = repository.New(hubService, repository.WithLogger(ret.logger))
	return ret
}

// Guard is the deletion-dependency check result.
type Guard struct {
	Dependents int    `json:"dependents"`
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason,omitempty"`
}

// CountUsedBy returns how many collection versions depend on namespace.name.
// Failures carry the alert to display.
func (s *Service) CountUsedBy(ctx context.Context, namespace, name string) (int, error) {
	count, err := s.hub.UsedBy(ctx, namespace, name)
	if err != nil {
		return 0, alert.Wrap(fmt.Sprintf("Dependencies for collection %q could not be displayed.", name), err)
	}
	return count, nil
}

// DeleteGuard reports whether the entire collection may be deleted. The
// result is advisory; dependents may appear before the delete is issued.
func (s *Service) DeleteGuard(ctx context.Context, namespace, name string) (*Guard, error) {
	count, err := s.CountUsedBy(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	ret := &Guard{Dependents: count, Allowed: count == 0}
	if !ret.Allowed {
		ret.Reason = BlockedReason
	}
	return ret, nil
}

// RemoveFromRepository removes a collection version from the named repository
// and waits for the removal task.
func (s *Service) RemoveFromRepository(ctx context.Context, repositoryName, versionHref string) error {
	repo, err := s.repositories.ByName(ctx, repositoryName)
	if err != nil {
		if repository.IsNotFound(err, repository.KindRepository) {
			return &alert.Error{Alert: alert.Danger(fmt.Sprintf("Repository %s not found.", repositoryName), ""), Err: err}
		}
		return err
	}
	taskRef, err := s.hub.RemoveContent(ctx, repo.Href, versionHref)
	if err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", versionHref, repositoryName, err)
	}
	if taskRef == "" {
		return nil
	}
	return s.waiter.WaitForTask(ctx, taskRef)
}

// DeleteCollection deletes the whole collection or only version from the
// distribution serving version.Repository, waiting for the delete task. It
// returns the success alert; failures carry the alert to display.
func (s *Service) DeleteCollection(ctx context.Context, version *model.CollectionVersion, wholeCollection bool) (*alert.Alert, error) {
	label := version.Name
	if !wholeCollection {
		label = fmt.Sprintf("%s v%s", version.Name, version.Version)
	}
	failedTitle := fmt.Sprintf("Collection %q could not be deleted.", label)
	basePath, err := s.basePath(ctx, version)
	if err != nil {
		return nil, alert.Wrap(failedTitle, err)
	}
	taskRef, err := s.hub.DeleteCollection(ctx, basePath, version, wholeCollection)
	if err != nil {
		if dependents := dependentsError(err); dependents != nil {
			return nil, &alert.Error{Alert: alert.Danger(dependents.Detail, dependents.Error()), Err: dependents}
		}
		return nil, alert.Wrap(failedTitle, err)
	}
	if taskRef != "" {
		if err = s.waiter.WaitForTask(ctx, taskRef); err != nil {
			return nil, alert.Wrap(failedTitle, err)
		}
	}
	s.logger.Info().Str("collection", version.Namespace+"."+version.Name).Bool("whole", wholeCollection).Str("basePath", basePath).Msg("collection deleted")
	return alert.Success(fmt.Sprintf("Collection %q has been successfully deleted.", label)), nil
}

func (s *Service) basePath(ctx context.Context, version *model.CollectionVersion) (string, error) {
	if version.Repository == "" {
		return "", fmt.Errorf("collection version %s has no repository", version.String())
	}
	repo, err := s.repositories.ByName(ctx, version.Repository)
	if err != nil {
		return "", err
	}
	return s.repositories.BasePath(ctx, repo)
}
