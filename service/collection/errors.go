package collection

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/viant/certify/service/hub"
)

// DependentsError is returned when the backend refuses a delete because other
// collection versions depend on the target.
type DependentsError struct {
	Detail     string   `json:"detail"`
	Dependents []string `json:"dependent_collection_versions"`
}

func (e *DependentsError) Error() string {
	if len(e.Dependents) == 0 {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Detail, strings.Join(e.Dependents, ", "))
}

// dependentsError decodes a 400 delete response, nil when err is anything else.
func dependentsError(err error) *DependentsError {
	hubErr, ok := hub.AsError(err)
	if !ok || hubErr.Status != http.StatusBadRequest || hubErr.Body == "" {
		return nil
	}
	ret := &DependentsError{}
	if json.Unmarshal([]byte(hubErr.Body), ret) != nil || ret.Detail == "" {
		return nil
	}
	return ret
}
