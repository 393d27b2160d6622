package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/certify/service/dao"
)

func TestMatch(t *testing.T) {
	fields := map[string]string{"Collection": "ns.col", "Source": "staging"}
	field := func(name string) (string, bool) {
		value, ok := fields[name]
		return value, ok
	}
	var testCases = []struct {
		description string
		parameters  []*dao.Parameter
		expect      bool
	}{
		{description: "no parameters", expect: true},
		{description: "single match", parameters: []*dao.Parameter{dao.NewParameter("Collection", "ns.col")}, expect: true},
		{description: "single mismatch", parameters: []*dao.Parameter{dao.NewParameter("Collection", "ns.other")}, expect: false},
		{description: "any of values", parameters: []*dao.Parameter{dao.NewParameter("Source", "rejected", "staging")}, expect: true},
		{description: "unknown field ignored", parameters: []*dao.Parameter{dao.NewParameter("State", "done")}, expect: true},
		{
			description: "all must match",
			parameters:  []*dao.Parameter{dao.NewParameter("Collection", "ns.col"), dao.NewParameter("Source", "rejected")},
			expect:      false,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.EqualValues(t, testCase.expect, Match(field, testCase.parameters))
		})
	}
}
