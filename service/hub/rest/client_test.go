package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/hub"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
	auth   string
}

func newTestServer(t *testing.T, status int, response string, requests *[]recorded) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.body))
		}
		*requests = append(*requests, rec)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		config      Config
		expectErr   bool
	}{
		{description: "valid", config: Config{BaseURL: "https://hub.example.com/api/galaxy"}},
		{description: "empty", config: Config{}, expectErr: true},
		{description: "bad scheme", config: Config{BaseURL: "ftp://hub"}, expectErr: true},
		{description: "both auth modes", config: Config{BaseURL: "https://hub", Token: "t", Username: "u"}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			client, err := New(testCase.config)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://hub.example.com/api/galaxy/pulp/api/v3/tasks/t1/", client.resolve(client.pulp("tasks/t1/"), nil))
		})
	}
}

func TestClient_Task(t *testing.T) {
	var requests []recorded
	server := newTestServer(t, http.StatusOK, `{"pulp_href":"/api/pulp/api/v3/tasks/t1/","state":"failed","error":{"description":"boom","traceback":"tb"}}`, &requests)
	defer server.Close()
	client, err := New(Config{BaseURL: server.URL + "/api/galaxy/", Token: "secret"})
	require.NoError(t, err)

	task, err := client.Task(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, model.TaskStateFailed, task.State)
	assert.Equal(t, &model.TaskError{Description: "boom", Traceback: "tb"}, task.Error)
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/galaxy/pulp/api/v3/tasks/t1/", requests[0].path)
	assert.Equal(t, "Token secret", requests[0].auth)
}

func TestClient_Error(t *testing.T) {
	var requests []recorded
	server := newTestServer(t, http.StatusForbidden, `{"detail":"nope"}`, &requests)
	defer server.Close()
	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Repositories(context.Background(), &hub.RepositoryQuery{Name: "staging"})
	require.Error(t, err)
	hubErr, ok := hub.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, hubErr.Status)
	assert.Equal(t, "Forbidden", hubErr.StatusText)
	assert.Equal(t, `{"detail":"nope"}`, hubErr.Body)
}

func TestClient_Repositories(t *testing.T) {
	var requests []recorded
	server := newTestServer(t, http.StatusOK, `{"count":1,"results":[{"name":"published","pulp_href":"/r/1/","pulp_labels":{"pipeline":"approved"}}]}`, &requests)
	defer server.Close()
	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	page, err := client.Repositories(context.Background(), &hub.RepositoryQuery{Pipeline: "approved", Page: 2, PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "approved", page.Results[0].Pipeline())
	assert.Equal(t, "limit=100&offset=100&pulp_label_select=pipeline%3Dapproved", requests[0].query)
}

func TestClient_Transfer(t *testing.T) {
	version := &model.CollectionVersion{Namespace: "ns", Name: "col", Version: "1.0.0", Href: "/v/1"}
	var testCases = []struct {
		description string
		kind        model.TransferKind
		request     *model.TransferRequest
		response    string
		expectPath  string
		expectBody  map[string]interface{}
		expectTasks []string
	}{
		{
			description: "legacy move",
			kind:        model.TransferMove,
			request:     &model.TransferRequest{Version: version, Source: "staging", Destination: "published"},
			response:    `{"copy_task_id":"c1","remove_task_id":"r1"}`,
			expectPath:  "/v3/collections/ns/col/versions/1.0.0/move/staging/published/",
			expectTasks: []string{"c1", "r1"},
		},
		{
			description: "repository copy with signing",
			kind:        model.TransferCopy,
			request: &model.TransferRequest{Addressing: model.AddressByRepository, Version: version,
				Source: "/pulp/api/v3/repositories/ansible/ansible/src1/", Destination: "/r/dst/", SigningService: "/s/1/"},
			response:   `{"task":"/pulp/api/v3/tasks/t9/"}`,
			expectPath: "/pulp/api/v3/repositories/ansible/ansible/src1/copy_collection_version/",
			expectBody: map[string]interface{}{
				"collection_versions":      []interface{}{"/v/1"},
				"destination_repositories": []interface{}{"/r/dst/"},
				"signing_service":          "/s/1/",
			},
			expectTasks: []string{"/pulp/api/v3/tasks/t9/"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var requests []recorded
			server := newTestServer(t, http.StatusAccepted, testCase.response, &requests)
			defer server.Close()
			client, err := New(Config{BaseURL: server.URL})
			require.NoError(t, err)

			var result *model.TransferResult
			if testCase.kind == model.TransferMove {
				result, err = client.Move(context.Background(), testCase.request)
			} else {
				result, err = client.Copy(context.Background(), testCase.request)
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectTasks, result.Tasks())
			require.Len(t, requests, 1)
			assert.Equal(t, http.MethodPost, requests[0].method)
			assert.Equal(t, testCase.expectPath, requests[0].path)
			if testCase.expectBody != nil {
				assert.Equal(t, testCase.expectBody, requests[0].body)
			}
		})
	}
}

func TestClient_UsedBy(t *testing.T) {
	var testCases = []struct {
		description string
		response    string
		expect      int
	}{
		{description: "meta count", response: `{"meta":{"count":2},"data":[{},{}]}`, expect: 2},
		{description: "data only", response: `{"data":[{},{},{}]}`, expect: 3},
		{description: "none", response: `{"meta":{"count":0},"data":[]}`, expect: 0},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var requests []recorded
			server := newTestServer(t, http.StatusOK, testCase.response, &requests)
			defer server.Close()
			client, err := New(Config{BaseURL: server.URL})
			require.NoError(t, err)

			count, err := client.UsedBy(context.Background(), "ns", "col")
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, count)
			assert.Equal(t, "dependency=ns.col", requests[0].query)
		})
	}
}

func TestClient_DeleteCollection(t *testing.T) {
	var requests []recorded
	server := newTestServer(t, http.StatusAccepted, `{"task":"/tasks/d1/"}`, &requests)
	defer server.Close()
	client, err := New(Config{BaseURL: server.URL, Username: "admin", Password: "pw"})
	require.NoError(t, err)

	version := &model.CollectionVersion{Namespace: "ns", Name: "col", Version: "1.0.0"}
	task, err := client.DeleteCollection(context.Background(), "published", version, false)
	require.NoError(t, err)
	assert.Equal(t, "/tasks/d1/", task)
	assert.Equal(t, http.MethodDelete, requests[0].method)
	assert.Equal(t, "/v3/plugin/ansible/content/published/collections/index/ns/col/versions/1.0.0/", requests[0].path)
	assert.Contains(t, requests[0].auth, "Basic ")
}
