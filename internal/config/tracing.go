package config

// DefaultTracingEndpoint is the default OTLP HTTP collector endpoint.
const DefaultTracingEndpoint = "localhost:4318"

// TracingConfig holds OTLP span export configuration.
//
// Spans cover every outbound Canvas request plus the serve-mode HTTP
// handling around it. Export goes to a local OTLP HTTP collector;
// see internal/observability for the exporter setup.
type TracingConfig struct {
	// Enabled turns span export on. Off by default: the stdio transport
	// is often run ad hoc from an agent client with no collector nearby.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Endpoint is the OTLP HTTP collector endpoint (default: localhost:4318)
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Environment is the deployment environment tag (default: dev)
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName is the service name on exported spans (default: canvas-mcp)
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}
