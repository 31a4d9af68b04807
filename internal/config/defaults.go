// Package config provides YAML-based configuration for trialscope.
package config

// Output default values.
const (
	DefaultOutputFormat  = "table"
	DefaultOutputNoColor = false
	DefaultOutputWidth   = 0
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Telemetry defaults. An empty endpoint keeps the exporters no-op.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPHeaders  = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetrySampleRatio  = 1.0
	DefaultTelemetryEnvironment  = "development"
)

// Diagnostics defaults. An empty addr disables the diagnostics server.
const (
	DefaultDiagnosticsAddr = ""
)

// Plot defaults.
const (
	DefaultPlotTheme    = "dark"
	DefaultPlotHeightPx = 500
)

// Report defaults.
const (
	DefaultReportTitle = "Trial Report"
	DefaultReportHTML  = false
)
