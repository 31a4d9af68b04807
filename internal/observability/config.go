// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for both trialscope modes (CLI, MCP server).
package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMode tells the telemetry stack how the binary was launched. It is
// attached to the OTel resource and to every log record.
type AppMode string

const (
	ModeCLI AppMode = "cli"
	ModeMCP AppMode = "mcp"
)

// defaultShutdownTimeoutSec bounds telemetry flush when Config leaves
// ShutdownTimeoutSec unset.
const defaultShutdownTimeoutSec = 5

// Config selects what the telemetry stack exports and how chatty it is.
// The zero value disables all export; DefaultConfig fills in the service
// identity and log defaults.
type Config struct {
	// Service identity, attached to the OTel resource.
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the collector gRPC address, e.g. "localhost:4317".
	// Empty keeps tracing and OTLP metric export off.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the root-span sampling ratio in (0, 1]. Zero means
	// parent-based always-on.
	SampleRatio float64

	// PrometheusRegistry, when set, additionally exposes metrics through
	// this registry so the diagnostics server can serve scrapes.
	PrometheusRegistry *prometheus.Registry

	LogLevel slog.Level
	LogJSON  bool

	// ShutdownTimeoutSec bounds the flush on Shutdown, in seconds.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the zero-config startup defaults: CLI mode, info
// logging, no export.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "trialscope",
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
