// Package hubtest provides an in-memory hub.Service for tests.
package hubtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/certify/model"
	"github.com/viant/certify/service/hub"
)

// Operation names recorded in Calls and accepted by Fail.
const (
	OpTask            = "task"
	OpRepositories    = "repositories"
	OpDistributions   = "distributions"
	OpSigningServices = "signingServices"
	OpMove            = "move"
	OpCopy            = "copy"
	OpUsedBy          = "usedBy"
	OpRemoveContent   = "removeContent"
	OpDelete          = "delete"
)

// Call is one recorded hub invocation
type Call struct {
	Op  string
	Key string
}

// Hub is a scripted, concurrency-safe hub.Service
type Hub struct {
	mu              sync.Mutex
	repositories    []*model.Repository
	distributions   map[string][]*model.Distribution
	signingServices map[string]*model.SigningService
	taskStates      map[string][]model.TaskState
	taskErrors      map[string]*model.TaskError
	fetches         map[string]int
	usedBy          map[string]int
	failures        map[string]error
	calls           []Call
	transfers       []*model.TransferRequest
}

// New creates an empty hub
func New() *Hub {
	return &Hub{
		distributions:   map[string][]*model.Distribution{},
		signingServices: map[string]*model.SigningService{},
		taskStates:      map[string][]model.TaskState{},
		taskErrors:      map[string]*model.TaskError{},
		fetches:         map[string]int{},
		usedBy:          map[string]int{},
		failures:        map[string]error{},
	}
}

// RepositoryHref returns the href assigned to a repository name.
func RepositoryHref(name string) string {
	return "/pulp/api/v3/repositories/ansible/ansible/" + name + "-id/"
}

// AddRepository registers a repository and, when withDistribution is set, a
// distribution whose base path equals the name.
func (h *Hub) AddRepository(name, pipeline string, withDistribution bool) *model.Repository {
	h.mu.Lock()
	defer h.mu.Unlock()
	repo := &model.Repository{Name: name, Href: RepositoryHref(name)}
	if pipeline != "" {
		repo.Labels = map[string]string{"pipeline": pipeline}
	}
	h.repositories = append(h.repositories, repo)
	if withDistribution {
		h.distributions[repo.Href] = append(h.distributions[repo.Href], &model.Distribution{
			Name: name, BasePath: name, Href: "/pulp/api/v3/distributions/ansible/ansible/" + name + "-d/", Repository: repo.Href,
		})
	}
	return repo
}

// AddDistribution adds a distribution to an existing repository href.
func (h *Hub) AddDistribution(repositoryHref string, distribution *model.Distribution) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.distributions[repositoryHref] = append(h.distributions[repositoryHref], distribution)
}

// AddSigningService registers a signing service
func (h *Hub) AddSigningService(name string) *model.SigningService {
	h.mu.Lock()
	defer h.mu.Unlock()
	ret := &model.SigningService{Name: name, Href: "/pulp/api/v3/signing-services/" + name + "/"}
	h.signingServices[name] = ret
	return ret
}

// SetTask scripts successive states of a task; the last one repeats. Tasks
// without a script are completed.
func (h *Hub) SetTask(id string, taskErr *model.TaskError, states ...model.TaskState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taskStates[id] = states
	h.taskErrors[id] = taskErr
}

// SetUsedBy sets the dependents count of namespace.name
func (h *Hub) SetUsedBy(namespace, name string, count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.usedBy[namespace+"."+name] = count
}

// Fail makes op fail for key (repository name, destination, task id, ...).
func (h *Hub) Fail(op, key string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[op+":"+key] = err
}

// Calls returns recorded calls, optionally filtered by op.
func (h *Hub) Calls(ops ...string) []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	var ret []Call
	for _, call := range h.calls {
		if len(ops) == 0 || contains(ops, call.Op) {
			ret = append(ret, call)
		}
	}
	return ret
}

// Keys returns sorted keys of calls for op.
func (h *Hub) Keys(op string) []string {
	var ret []string
	for _, call := range h.Calls(op) {
		ret = append(ret, call.Key)
	}
	sort.Strings(ret)
	return ret
}

// Fetches returns how many times a task status was read.
func (h *Hub) Fetches(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fetches[id]
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func (h *Hub) record(op, key string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, Call{Op: op, Key: key})
	return h.failures[op+":"+key]
}

func (h *Hub) Task(_ context.Context, id string) (*model.Task, error) {
	if err := h.record(OpTask, id); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fetches[id]++
	states := h.taskStates[id]
	if len(states) == 0 {
		return &model.Task{State: model.TaskStateCompleted}, nil
	}
	index := h.fetches[id] - 1
	if index >= len(states) {
		index = len(states) - 1
	}
	ret := &model.Task{State: states[index]}
	if ret.State.IsFailure() {
		ret.Error = h.taskErrors[id]
	}
	return ret, nil
}

func (h *Hub) Repositories(_ context.Context, query *hub.RepositoryQuery) (*hub.RepositoryPage, error) {
	if query == nil {
		query = &hub.RepositoryQuery{}
	}
	if err := h.record(OpRepositories, query.Name+query.Pipeline); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	var matched []*model.Repository
	for _, repo := range h.repositories {
		if query.Name != "" && repo.Name != query.Name {
			continue
		}
		if query.Pipeline != "" && repo.Pipeline() != query.Pipeline {
			continue
		}
		matched = append(matched, repo)
	}
	page := &hub.RepositoryPage{Count: len(matched), Results: matched}
	if query.PageSize > 0 {
		start := 0
		if query.Page > 1 {
			start = (query.Page - 1) * query.PageSize
		}
		if start > len(matched) {
			start = len(matched)
		}
		end := start + query.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		page.Results = matched[start:end]
	}
	return page, nil
}

func (h *Hub) Distributions(_ context.Context, repositoryHref string) ([]*model.Distribution, error) {
	if err := h.record(OpDistributions, repositoryHref); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.distributions[repositoryHref], nil
}

func (h *Hub) SigningServices(_ context.Context, name string) ([]*model.SigningService, error) {
	if err := h.record(OpSigningServices, name); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if service, ok := h.signingServices[name]; ok {
		return []*model.SigningService{service}, nil
	}
	return nil, nil
}

// MoveTasks returns the task ids the hub issues for a move to destination.
func MoveTasks(destination string) (string, string) {
	key := taskKey(destination)
	return "move-" + key + "-copy", "move-" + key + "-remove"
}

// CopyTask returns the task href the hub issues for a copy to destination.
func CopyTask(destination string) string {
	return "/pulp/api/v3/tasks/copy-" + taskKey(destination) + "/"
}

func taskKey(destination string) string {
	return strings.Trim(strings.ReplaceAll(destination, "/", "_"), "_")
}

// Transfers returns recorded move and copy requests.
func (h *Hub) Transfers() []*model.TransferRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*model.TransferRequest(nil), h.transfers...)
}

func (h *Hub) recordTransfer(op string, request *model.TransferRequest) error {
	if err := h.record(op, request.Destination); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transfers = append(h.transfers, request)
	return nil
}

func (h *Hub) Move(_ context.Context, request *model.TransferRequest) (*model.TransferResult, error) {
	if err := h.recordTransfer(OpMove, request); err != nil {
		return nil, err
	}
	copyID, removeID := MoveTasks(request.Destination)
	return &model.TransferResult{CopyTaskID: copyID, RemoveTaskID: removeID}, nil
}

func (h *Hub) Copy(_ context.Context, request *model.TransferRequest) (*model.TransferResult, error) {
	if err := h.recordTransfer(OpCopy, request); err != nil {
		return nil, err
	}
	return &model.TransferResult{Task: CopyTask(request.Destination)}, nil
}

func (h *Hub) UsedBy(_ context.Context, namespace, name string) (int, error) {
	key := namespace + "." + name
	if err := h.record(OpUsedBy, key); err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.usedBy[key], nil
}

func (h *Hub) RemoveContent(_ context.Context, repositoryHref string, contentHrefs ...string) (string, error) {
	if err := h.record(OpRemoveContent, repositoryHref); err != nil {
		return "", err
	}
	return "/pulp/api/v3/tasks/remove-" + taskKey(hub.IDFromURL(repositoryHref)) + "/", nil
}

func (h *Hub) DeleteCollection(_ context.Context, basePath string, version *model.CollectionVersion, wholeCollection bool) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", basePath, version.Namespace, version.Name)
	if !wholeCollection {
		key += "/" + version.Version
	}
	if err := h.record(OpDelete, key); err != nil {
		return "", err
	}
	return "/pulp/api/v3/tasks/delete-" + taskKey(basePath) + "/", nil
}

var _ hub.Service = (*Hub)(nil)
