package alert

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/certify/service/hub"
)

func TestErrorMessage(t *testing.T) {
	var testCases = []struct {
		description string
		status      int
		statusText  string
		custom      []string
		expect      string
	}{
		{description: "500", status: 500, statusText: "Internal Server Error", expect: "Error 500 - Internal Server Error: The server encountered an error and was unable to complete your request."},
		{description: "404", status: 404, statusText: "Not Found", expect: "Error 404 - Not Found: The server could not find the requested URL."},
		{description: "400", status: 400, statusText: "Bad Request", expect: "Error 400 - Bad Request: The server was unable to complete your request."},
		{description: "default", status: 409, statusText: "Conflict", expect: "Error 409 - Conflict"},
		{description: "custom", status: 404, statusText: "Not Found", custom: []string{"name: required"}, expect: "Error 404 - Not Found: name: required"},
		{description: "empty custom", status: 409, statusText: "Conflict", custom: []string{""}, expect: "Error 409 - Conflict"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, ErrorMessage(testCase.status, testCase.statusText, testCase.custom...))
		})
	}
	assert.Contains(t, ErrorMessage(401, "Unauthorized"), "You do not have the required permissions")
	assert.Contains(t, ErrorMessage(403, "Forbidden"), ": Forbidden: You do not have")
}

func TestDescribe(t *testing.T) {
	hubErr := hub.NewError("GET", "/x", 404, "404 Not Found", nil)
	assert.Equal(t, "Error 404 - Not Found: The server could not find the requested URL.", Describe(fmt.Errorf("wrap: %w", hubErr)))
	assert.Equal(t, "desc", Describe(Danger("title", "desc")))
	assert.Equal(t, "title", Describe(&Alert{Title: "title"}))
	assert.Equal(t, "plain", Describe(errors.New("plain")))
	assert.Equal(t, "", Describe(nil))
}

func TestWrap(t *testing.T) {
	cause := hub.NewError("GET", "http://hub/x", 500, "", nil)
	err := Wrap(`Dependencies for collection "col" could not be displayed.`, fmt.Errorf("lookup: %w", cause))
	assert.True(t, errors.Is(err, cause))

	actual, ok := From(fmt.Errorf("outer: %w", err))
	assert.True(t, ok)
	assert.Equal(t, VariantDanger, actual.Variant)
	assert.Equal(t, `Dependencies for collection "col" could not be displayed.`, actual.Title)
	assert.Equal(t, "Error 500 - Internal Server Error: The server encountered an error and was unable to complete your request.", actual.Description)

	_, ok = From(errors.New("plain"))
	assert.False(t, ok)
}
