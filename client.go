package flightsync

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"go.opentelemetry.io/otel"
)

// ClientConfig describes how to reach Elasticsearch or Kibana.
type ClientConfig struct {
	URL      string
	Username string
	Password string

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// Tracing enables OpenTelemetry spans for every Elasticsearch request,
	// using the globally registered tracer provider.
	Tracing bool

	// Logger, when set, logs every request and response.
	Logger elastictransport.Logger
}

// NewElasticsearchClient returns a client for cfg. Retries are disabled:
// every call is tried exactly once.
func NewElasticsearchClient(cfg ClientConfig) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses:    []string{cfg.URL},
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    newHTTPTransport(cfg.InsecureSkipVerify),
		DisableRetry: true,
		Logger:       cfg.Logger,
	}
	if cfg.Tracing {
		esCfg.Instrumentation = elasticsearch.NewOpenTelemetryInstrumentation(otel.GetTracerProvider(), false)
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}

	return client, nil
}

func newHTTPTransport(insecure bool) *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return tr
}
