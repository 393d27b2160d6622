package certify

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/viant/afs"
	"github.com/viant/certify/internal/expr"
	"github.com/viant/certify/model"
	"github.com/viant/certify/policy"
	"github.com/viant/certify/service/approval"
	"github.com/viant/certify/service/messaging"
	"github.com/viant/certify/service/task"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. CERTIFY_BASE_URL.
const EnvPrefix = "CERTIFY"

// Config is a serialisable representation of the service configuration. It
// can be read from YAML or JSON with LoadConfig and overridden from the
// environment with ApplyEnv.
type Config struct {
	Hub      HubConfig        `json:"hub" yaml:"hub"`
	Task     task.Config      `json:"task" yaml:"task"`
	Approval approval.Config  `json:"approval" yaml:"approval"`
	Events   messaging.Config `json:"events" yaml:"events"`
	// HistoryURL stores approvals as files when set; memory otherwise.
	HistoryURL string        `json:"historyURL,omitempty" yaml:"historyURL,omitempty"`
	Tracing    TracingConfig `json:"tracing" yaml:"tracing"`
}

// HubConfig addresses the hub API
type HubConfig struct {
	BaseURL    string `json:"baseURL" yaml:"baseURL"`
	PulpPrefix string `json:"pulpPrefix,omitempty" yaml:"pulpPrefix,omitempty"`
	Token      string `json:"token,omitempty" yaml:"token,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	// CredentialsURL points to a scy encrypted basic credential.
	CredentialsURL string        `json:"credentialsURL,omitempty" yaml:"credentialsURL,omitempty"`
	CredentialsKey string        `json:"credentialsKey,omitempty" yaml:"credentialsKey,omitempty"`
	Timeout        time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// TracingConfig enables the otel stdout exporter
type TracingConfig struct {
	Enabled     bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	OutputFile  string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with package defaults. Callers
// set Hub.BaseURL before use.
func DefaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			PulpPrefix: "pulp/api/v3/",
			Timeout:    time.Minute,
		},
		Task:     task.DefaultConfig(),
		Approval: approval.DefaultConfig(),
		Events: messaging.Config{
			Vendor:     messaging.VendorMemory,
			Buffer:     100,
			MaxRetries: 3,
		},
		Tracing: TracingConfig{ServiceName: "certify"},
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	if c.Hub.BaseURL == "" {
		return fmt.Errorf("hub.baseURL was empty")
	}
	if c.Hub.Token != "" && c.Hub.Username != "" {
		return fmt.Errorf("hub: token and username are mutually exclusive")
	}
	return c.validateServices()
}

// validateServices checks everything but the hub address.
func (c *Config) validateServices() error {
	if err := c.Task.Validate(); err != nil {
		return err
	}
	if err := c.Approval.Validate(); err != nil {
		return err
	}
	switch c.Events.Vendor {
	case "", messaging.VendorMemory:
	case messaging.VendorFS:
		if c.Events.URL == "" {
			return fmt.Errorf("events.url is required for %s queue", c.Events.Vendor)
		}
	default:
		return fmt.Errorf("unsupported events vendor: %s", c.Events.Vendor)
	}
	return nil
}

// LoadConfig reads YAML or JSON config from any afs URL on top of the
// defaults. ${env.KEY} expressions are expanded before decoding.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(expr.ExpandEnv(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	return ret, nil
}

// LoadEnv loads dotenv files into the process environment; a missing default
// .env file is ignored. Existing variables are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	return godotenv.Load(files...)
}

// envOverrides lists the CERTIFY_* variables. Pointer fields stay nil when
// the variable is unset, leaving the configured value in place.
type envOverrides struct {
	BaseURL        *string `split_words:"true"`
	PulpPrefix     *string `split_words:"true"`
	Token          *string
	Username       *string
	Password       *string
	CredentialsURL *string `split_words:"true"`
	CredentialsKey *string `split_words:"true"`
	SigningService *string `split_words:"true"`
	Addressing     *model.Addressing
	PolicyMode     *string           `split_words:"true"`
	HistoryURL     *string           `split_words:"true"`
	EventsURL      *string           `split_words:"true"`
	EventsVendor   *messaging.Vendor `split_words:"true"`
	PollInterval   *time.Duration    `split_words:"true"`
	MaxAttempts    *int              `split_words:"true"`
	Tracing        *bool
}

// ApplyEnv overrides config with CERTIFY_* variables.
func (c *Config) ApplyEnv() error {
	overrides := envOverrides{}
	if err := envconfig.Process(EnvPrefix, &overrides); err != nil {
		return fmt.Errorf("invalid %s_* environment: %w", EnvPrefix, err)
	}
	overrides.apply(c)
	return nil
}

func (o *envOverrides) apply(c *Config) {
	override(&c.Hub.BaseURL, o.BaseURL)
	override(&c.Hub.PulpPrefix, o.PulpPrefix)
	override(&c.Hub.Token, o.Token)
	override(&c.Hub.Username, o.Username)
	override(&c.Hub.Password, o.Password)
	override(&c.Hub.CredentialsURL, o.CredentialsURL)
	override(&c.Hub.CredentialsKey, o.CredentialsKey)
	override(&c.Approval.SigningService, o.SigningService)
	override(&c.Approval.Addressing, o.Addressing)
	if o.PolicyMode != nil {
		if c.Approval.Policy == nil {
			c.Approval.Policy = &policy.Config{}
		}
		c.Approval.Policy.Mode = *o.PolicyMode
	}
	override(&c.HistoryURL, o.HistoryURL)
	override(&c.Events.URL, o.EventsURL)
	override(&c.Events.Vendor, o.EventsVendor)
	override(&c.Task.PollInterval, o.PollInterval)
	override(&c.Task.MaxAttempts, o.MaxAttempts)
	override(&c.Tracing.Enabled, o.Tracing)
}

func override[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}
