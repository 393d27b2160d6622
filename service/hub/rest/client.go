package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/tracing"
)

const (
	defaultPulpPrefix = "pulp/api/v3/"
	maxBodySize       = 8 << 20
)

// Config holds the hub REST client configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://hub.example.com/api/galaxy/
	BaseURL string
	// PulpPrefix is the pulp API path relative to BaseURL.
	PulpPrefix string
	// Token enables "Authorization: Token" auth; mutually exclusive with Username.
	Token    string
	Username string
	Password string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// Client is the REST implementation of hub.Service
type Client struct {
	baseURL    *url.URL
	pulpPrefix string
	token      string
	username   string
	password   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a client; it fails on a missing or malformed BaseURL or on
// ambiguous authentication settings.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("hub: base URL was empty")
	}
	baseURL := config.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("hub: invalid base URL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("hub: unsupported scheme %q", parsed.Scheme)
	}
	if config.Token != "" && config.Username != "" {
		return nil, fmt.Errorf("hub: cannot configure both token and basic auth")
	}
	prefix := strings.TrimLeft(config.PulpPrefix, "/")
	if prefix == "" {
		prefix = defaultPulpPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Client{
		baseURL:    parsed,
		pulpPrefix: prefix,
		token:      config.Token,
		username:   config.Username,
		password:   config.Password,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "hub").Logger(),
	}, nil
}

func (c *Client) pulp(path string) string {
	return c.pulpPrefix + strings.TrimLeft(path, "/")
}

// resolve joins path to the base URL; path segments are escaped by url.URL.
func (c *Client) resolve(path string, query url.Values) string {
	ref := &url.URL{Path: strings.TrimLeft(path, "/")}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.baseURL.ResolveReference(ref).String()
}

// do executes a request; a non-2xx response is returned as *hub.Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, requestBody, out interface{}) (err error) {
	URL := c.resolve(path, query)
	ctx, span := tracing.StartSpan(ctx, "hub "+method, tracing.KindClient)
	span.WithAttributes(map[string]string{"http.method": method, "http.url": URL})
	defer func() {
		if err != nil {
			span.SetStatus(err)
		}
		span.End()
	}()

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("hub: encoding %s %s body: %w", method, URL, err)
		}
		body = bytes.NewReader(encoded)
	}
	request, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.token != "":
		request.Header.Set("Authorization", "Token "+c.token)
	case c.username != "":
		request.SetBasicAuth(c.username, c.password)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("hub: %s %s: %w", method, URL, err)
	}
	defer response.Body.Close()
	span.SetStatusFromHTTPCode(response.StatusCode)

	data, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("hub: reading %s %s response: %w", method, URL, err)
	}
	c.logger.Debug().Str("method", method).Str("url", URL).Int("status", response.StatusCode).Msg("hub request")
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return hub.NewError(method, URL, response.StatusCode, response.Status, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("hub: decoding %s %s response: %w", method, URL, err)
	}
	return nil
}

// Task returns task status by id
func (c *Client) Task(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("hub: task id was empty")
	}
	task := &model.Task{}
	if err := c.do(ctx, http.MethodGet, c.pulp("tasks/"+id+"/"), nil, nil, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Repositories lists ansible repositories
func (c *Client) Repositories(ctx context.Context, query *hub.RepositoryQuery) (*hub.RepositoryPage, error) {
	params := url.Values{}
	if query != nil {
		if query.Name != "" {
			params.Set("name", query.Name)
		}
		if query.Pipeline != "" {
			params.Set("pulp_label_select", "pipeline="+query.Pipeline)
		}
		if query.PageSize > 0 {
			params.Set("limit", strconv.Itoa(query.PageSize))
			if query.Page > 1 {
				params.Set("offset", strconv.Itoa((query.Page-1)*query.PageSize))
			}
		}
	}
	page := &hub.RepositoryPage{}
	if err := c.do(ctx, http.MethodGet, c.pulp("repositories/ansible/ansible/"), params, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

// Distributions lists distributions of a repository
func (c *Client) Distributions(ctx context.Context, repositoryHref string) ([]*model.Distribution, error) {
	params := url.Values{"repository": []string{repositoryHref}}
	page := struct {
		Results []*model.Distribution `json:"results"`
	}{}
	if err := c.do(ctx, http.MethodGet, c.pulp("distributions/ansible/ansible/"), params, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SigningServices lists signing services by name
func (c *Client) SigningServices(ctx context.Context, name string) ([]*model.SigningService, error) {
	params := url.Values{"name": []string{name}, "limit": []string{"1"}}
	page := struct {
		Results []*model.SigningService `json:"results"`
	}{}
	if err := c.do(ctx, http.MethodGet, c.pulp("signing-services/"), params, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Move moves a collection version
func (c *Client) Move(ctx context.Context, request *model.TransferRequest) (*model.TransferResult, error) {
	return c.transfer(ctx, model.TransferMove, request)
}

// Copy copies a collection version
func (c *Client) Copy(ctx context.Context, request *model.TransferRequest) (*model.TransferResult, error) {
	return c.transfer(ctx, model.TransferCopy, request)
}

func (c *Client) transfer(ctx context.Context, kind model.TransferKind, request *model.TransferRequest) (*model.TransferResult, error) {
	if request == nil || request.Version == nil {
		return nil, fmt.Errorf("hub: %s request was missing version", kind)
	}
	version := request.Version
	result := &model.TransferResult{}
	switch request.Addressing {
	case model.AddressByRepository:
		body := map[string]interface{}{
			"collection_versions":      []string{version.Href},
			"destination_repositories": []string{request.Destination},
		}
		if request.SigningService != "" {
			body["signing_service"] = request.SigningService
		}
		path := c.pulp(fmt.Sprintf("repositories/ansible/ansible/%s/%s_collection_version/", hub.IDFromURL(request.Source), kind))
		if err := c.do(ctx, http.MethodPost, path, nil, body, result); err != nil {
			return nil, err
		}
	default:
		body := map[string]interface{}{}
		if request.SigningService != "" {
			body["signing_service"] = request.SigningService
		}
		path := fmt.Sprintf("v3/collections/%s/%s/versions/%s/%s/%s/%s/",
			version.Namespace, version.Name, version.Version,
			kind, request.Source, request.Destination)
		if err := c.do(ctx, http.MethodPost, path, nil, body, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UsedBy counts collections depending on namespace.name
func (c *Client) UsedBy(ctx context.Context, namespace, name string) (int, error) {
	params := url.Values{"dependency": []string{namespace + "." + name}}
	page := struct {
		Meta *struct {
			Count int `json:"count"`
		} `json:"meta"`
		Data []json.RawMessage `json:"data"`
	}{}
	if err := c.do(ctx, http.MethodGet, "v3/plugin/ansible/search/collection-versions/", params, nil, &page); err != nil {
		return 0, err
	}
	if page.Meta != nil {
		return page.Meta.Count, nil
	}
	return len(page.Data), nil
}

type taskRef struct {
	Task string `json:"task"`
}

// RemoveContent removes content units from a repository
func (c *Client) RemoveContent(ctx context.Context, repositoryHref string, contentHrefs ...string) (string, error) {
	body := map[string]interface{}{"remove_content_units": contentHrefs}
	ref := &taskRef{}
	path := c.pulp(fmt.Sprintf("repositories/ansible/ansible/%s/modify/", hub.IDFromURL(repositoryHref)))
	if err := c.do(ctx, http.MethodPost, path, nil, body, ref); err != nil {
		return "", err
	}
	return ref.Task, nil
}

// DeleteCollection deletes a collection or a single collection version
func (c *Client) DeleteCollection(ctx context.Context, basePath string, version *model.CollectionVersion, wholeCollection bool) (string, error) {
	if version == nil {
		return "", fmt.Errorf("hub: delete request was missing version")
	}
	path := fmt.Sprintf("v3/plugin/ansible/content/%s/collections/index/%s/%s/",
		basePath, version.Namespace, version.Name)
	if !wholeCollection {
		path += fmt.Sprintf("versions/%s/", version.Version)
	}
	ref := &taskRef{}
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, ref); err != nil {
		return "", err
	}
	return ref.Task, nil
}

var _ hub.Service = (*Client)(nil)
