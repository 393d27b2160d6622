package memory

import (
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/dao/history"
	"github.com/viant/certify/service/dao/store"
)

// Service keeps approvals in memory in insertion order.
type Service struct {
	*store.MemoryStore[string, model.Approval]
}

// New creates an in-memory approval history
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, model.Approval](
			func(a *model.Approval) string { return a.ID },
			history.Matches,
		),
	}
}

var _ history.Service = (*Service)(nil)
