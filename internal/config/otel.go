package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel/attribute"
)

// OTELConfig selects where filesystem spans are exported. Tracing stays off
// unless one of the OTLP endpoint variables is set.
type OTELConfig struct {
	ServiceName        string `env:"OTEL_SERVICE_NAME" envDefault:"procstatfs"`
	ResourceAttributes string `env:"OTEL_RESOURCE_ATTRIBUTES"`
	ExporterEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TracesEndpoint     string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
}

// ParseOTELConfig reads the OTEL_* environment variables.
func ParseOTELConfig() (*OTELConfig, error) {
	cfg := &OTELConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}
	return cfg, nil
}

// Endpoint returns the OTLP endpoint spans go to, preferring the
// traces-specific variable. ok is false when neither is set.
func (c *OTELConfig) Endpoint() (endpoint string, ok bool) {
	for _, e := range []string{c.TracesEndpoint, c.ExporterEndpoint} {
		if e = strings.TrimSpace(e); e != "" {
			return e, true
		}
	}
	return "", false
}

// ParseResourceAttributes turns OTEL_RESOURCE_ATTRIBUTES (key1=value1,key2=value2)
// into resource attributes. Pairs without a key are skipped.
func (c *OTELConfig) ParseResourceAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, pair := range strings.Split(c.ResourceAttributes, ",") {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		attrs = append(attrs, attribute.String(key, strings.TrimSpace(value)))
	}
	return attrs
}
