package criteria

import (
	"github.com/viant/certify/service/dao"
)

// Field returns the value of a named field of an entity.
type Field func(name string) (string, bool)

// Match returns true when every parameter naming a known field matches one of
// its values. Parameters naming unknown fields are ignored.
func Match(field Field, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := field(parameter.Name)
		if !ok {
			continue
		}
		if !matchesAny(actual, parameter.Values()) {
			return false
		}
	}
	return true
}

func matchesAny(actual string, candidates []string) bool {
	for _, candidate := range candidates {
		if actual == candidate {
			return true
		}
	}
	return false
}
