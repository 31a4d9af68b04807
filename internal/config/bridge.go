package config

import (
	"github.com/trialscope/trialscope/internal/observability"
)

// applyNonEmpty assigns value to dst when value is non-empty.
// Empty values are skipped so the observability default stays in effect.
func applyNonEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// ObservabilityConfig merges telemetry and logging settings onto the
// observability defaults for the given execution mode.
func (c *Config) ObservabilityConfig(mode observability.AppMode, version string) observability.Config {
	out := observability.DefaultConfig()
	out.ServiceVersion = version
	out.Mode = mode
	out.LogLevel = c.SlogLevel()
	out.LogJSON = c.Log.JSON

	applyNonEmpty(&out.Environment, c.Telemetry.Environment)
	applyNonEmpty(&out.OTLPEndpoint, c.Telemetry.OTLPEndpoint)

	out.OTLPInsecure = c.Telemetry.OTLPInsecure

	if c.Telemetry.OTLPHeaders != "" {
		out.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	}

	if c.Telemetry.SampleRatio > 0 {
		out.SampleRatio = c.Telemetry.SampleRatio
	}

	return out
}
