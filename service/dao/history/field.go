// Package history stores approval results.
package history

import (
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/dao"
	"github.com/viant/certify/service/dao/criteria"
)

// Filterable approval fields.
const (
	FieldCollection = "Collection"
	FieldSource     = "Source"
	FieldVersion    = "Version"
)

// Service stores approvals by id
type Service = dao.Service[string, model.Approval]

// ByCollection filters approvals of namespace.name
func ByCollection(namespace, name string) *dao.Parameter {
	return dao.NewParameter(FieldCollection, namespace+"."+name)
}

// Matches returns true when approval satisfies parameters.
func Matches(approval *model.Approval, parameters []*dao.Parameter) bool {
	return criteria.Match(func(name string) (string, bool) {
		switch name {
		case FieldCollection:
			return approval.Collection(), true
		case FieldSource:
			return approval.Source, true
		case FieldVersion:
			if approval.Version == nil {
				return "", true
			}
			return approval.Version.Version, true
		}
		return "", false
	}, parameters)
}
