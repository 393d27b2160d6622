package hub

import (
	"context"

	"github.com/viant/certify/model"
)

// Service represents the hub backend
type Service interface {
	// Task returns the current task status.
	Task(ctx context.Context, id string) (*model.Task, error)

	// Repositories lists repositories matching query.
	Repositories(ctx context.Context, query *RepositoryQuery) (*RepositoryPage, error)

	// Distributions lists distributions serving the repository href.
	Distributions(ctx context.Context, repositoryHref string) ([]*model.Distribution, error)

	// SigningServices lists signing services with the given name.
	SigningServices(ctx context.Context, name string) ([]*model.SigningService, error)

	// Move transfers a version and removes it from the source.
	Move(ctx context.Context, request *model.TransferRequest) (*model.TransferResult, error)

	// Copy transfers a version leaving the source untouched.
	Copy(ctx context.Context, request *model.TransferRequest) (*model.TransferResult, error)

	// UsedBy returns the number of collections depending on namespace.name.
	UsedBy(ctx context.Context, namespace, name string) (int, error)

	// RemoveContent removes content from a repository, returning the task href.
	RemoveContent(ctx context.Context, repositoryHref string, contentHrefs ...string) (string, error)

	// DeleteCollection deletes a collection (or a single version when
	// version.Version is set) served at basePath, returning the task href.
	DeleteCollection(ctx context.Context, basePath string, version *model.CollectionVersion, wholeCollection bool) (string, error)
}

// RepositoryQuery filters repository listing
type RepositoryQuery struct {
	Name     string
	Pipeline string // matched against the pipeline label
	Page     int
	PageSize int
}

// RepositoryPage is one page of repositories
type RepositoryPage struct {
	Count   int                 `json:"count"`
	Results []*model.Repository `json:"results"`
}
