package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/certify"
	"github.com/viant/certify/model"
	"github.com/viant/certify/policy"
	"github.com/viant/certify/service/hub/hubtest"
	"github.com/viant/certify/service/repository"
)

func execute(t *testing.T, backend *hubtest.Hub, stdin string, args ...string) (string, error) {
	t.Helper()
	extraOptions = []certify.Option{certify.WithHub(backend)}
	approveApproved, approveJSON = false, false
	approveMode, approveAllow, approveBlock = policy.ModeAuto, nil, nil
	approveHref, approveSource = "", ""
	t.Cleanup(func() { extraOptions = nil })

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newBackend() *hubtest.Hub {
	backend := hubtest.New()
	backend.AddRepository("staging", repository.PipelineStaging, true)
	backend.AddRepository("published", repository.PipelineApproved, true)
	backend.AddRepository("community", "", true)
	return backend
}

func TestParseVersion(t *testing.T) {
	var testCases = []struct {
		description string
		value       string
		expect      *model.CollectionVersion
		expectErr   bool
	}{
		{description: "valid", value: "ns/col/1.0.0", expect: &model.CollectionVersion{Namespace: "ns", Name: "col", Version: "1.0.0"}},
		{description: "missing version", value: "ns/col", expectErr: true},
		{description: "empty part", value: "ns//1.0.0", expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := parseVersion(testCase.value)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, actual)
		})
	}
}

func TestApproveCommand(t *testing.T) {
	backend := newBackend()
	out, err := execute(t, backend, "", "approve", "ns/col/1.0.0", "--href", "/v/1", "--source", "staging", "published", "community")
	require.NoError(t, err)
	assert.Contains(t, out, `[success] Certification status for collection "ns col v1.0.0" has been successfully updated.`)
	assert.Equal(t, []string{"published"}, backend.Keys(hubtest.OpMove))
	assert.Equal(t, []string{"community"}, backend.Keys(hubtest.OpCopy))
}

func TestApproveCommand_AskDeclined(t *testing.T) {
	backend := newBackend()
	out, err := execute(t, backend, "n\n", "approve", "ns/col/1.0.0", "--href", "/v/1", "--source", "staging", "--mode", "ask", "published")
	require.Error(t, err)
	assert.Contains(t, out, "[warning]")
	assert.Empty(t, backend.Calls(hubtest.OpMove))
}

func TestApproveCommand_MissingSource(t *testing.T) {
	out, err := execute(t, newBackend(), "", "approve", "ns/col/1.0.0", "published")
	require.Error(t, err)
	assert.Contains(t, out, "[danger] Failed to approve collection.")
}

func TestUsedByCommand(t *testing.T) {
	backend := newBackend()
	backend.SetUsedBy("ns", "col", 3)
	out, err := execute(t, backend, "", "usedby", "ns", "col")
	require.NoError(t, err)
	assert.Contains(t, out, "ns.col is used by 3 collection versions")
	assert.Contains(t, out, "Cannot delete until collections that depend on this collection have been deleted.")
}

func TestDeleteCommand(t *testing.T) {
	backend := newBackend()
	out, err := execute(t, backend, "", "delete", "ns", "col", "1.0.0", "--repository", "published")
	require.NoError(t, err)
	assert.Contains(t, out, `[success] Collection "col v1.0.0" has been successfully deleted.`)
	assert.Equal(t, []string{"published/ns/col/1.0.0"}, backend.Keys(hubtest.OpDelete))
}
