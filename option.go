package certify

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/certify/internal/clock"
	"github.com/viant/certify/service/approval"
	"github.com/viant/certify/service/dao/history"
	"github.com/viant/certify/service/hub"
	"github.com/viant/certify/service/messaging"
	"github.com/viant/certify/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures Service
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithHub replaces the REST client with any hub.Service implementation.
func WithHub(hubService hub.Service) Option {
	return func(s *Service) { s.hub = hubService }
}

// WithHTTPClient sets the HTTP client used by the REST hub client
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock sets the clock used for polling and timestamps
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clock = clk }
}

// WithHistory sets the approval history store
func WithHistory(store history.Service) Option {
	return func(s *Service) { s.history = store }
}

// WithEvents sets the approval event queue
func WithEvents(queue messaging.Queue[approval.Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithFileSystem sets the afs service used for file backed stores
func WithFileSystem(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
