package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/internal/config"
	"github.com/trialscope/trialscope/internal/observability"
)

func validConfig() config.Config {
	return config.Config{
		Output: config.OutputConfig{
			Format: "table",
			Width:  100,
		},
		Log: config.LogConfig{
			Level: "info",
		},
		Telemetry: config.TelemetryConfig{
			SampleRatio: 0.5,
			Environment: "production",
		},
		Plot: config.PlotConfig{
			Theme:    "dark",
			HeightPx: 500,
		},
	}
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_ZeroConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	require.NoError(t, cfg.Validate())
}

func TestValidate_InvalidOutputFormat_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Output.Format = "xml"

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidOutputFormat)
}

func TestValidate_InvalidOutputWidth_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Output.Width = -1

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidOutputWidth)
}

func TestValidate_InvalidLogLevel_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Log.Level = "verbose"

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestValidate_InvalidSampleRatio_Negative_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Telemetry.SampleRatio = -0.1

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidSampleRatio)
}

func TestValidate_InvalidSampleRatio_TooHigh_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Telemetry.SampleRatio = 1.1

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidSampleRatio)
}

func TestValidate_InvalidPlotTheme_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Plot.Theme = "neon"

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidPlotTheme)
}

func TestValidate_InvalidPlotHeight_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Plot.HeightPx = -1

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidPlotHeight)
}

func TestSlogLevel_MapsKnownLevels(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}

	for level, want := range cases {
		cfg := config.Config{Log: config.LogConfig{Level: level}}
		assert.Equal(t, want, cfg.SlogLevel(), "level %q", level)
	}
}

func TestObservabilityConfig_MergesOntoDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Log.Level = "debug"
	cfg.Log.JSON = true
	cfg.Telemetry.OTLPEndpoint = "collector:4317"
	cfg.Telemetry.OTLPHeaders = "authorization=Bearer tok"
	cfg.Telemetry.OTLPInsecure = true

	obs := cfg.ObservabilityConfig(observability.ModeMCP, "1.2.3")

	assert.Equal(t, "trialscope", obs.ServiceName)
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, observability.ModeMCP, obs.Mode)
	assert.Equal(t, "production", obs.Environment)
	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, "collector:4317", obs.OTLPEndpoint)
	assert.Equal(t, map[string]string{"authorization": "Bearer tok"}, obs.OTLPHeaders)
	assert.True(t, obs.OTLPInsecure)
	assert.InDelta(t, 0.5, obs.SampleRatio, 0.001)
}

func TestObservabilityConfig_ZeroConfig_KeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	obs := cfg.ObservabilityConfig(observability.ModeCLI, "dev")

	defaults := observability.DefaultConfig()

	assert.Equal(t, defaults.ServiceName, obs.ServiceName)
	assert.Equal(t, observability.ModeCLI, obs.Mode)
	assert.Empty(t, obs.OTLPEndpoint)
	assert.Nil(t, obs.OTLPHeaders)
	assert.Equal(t, slog.LevelInfo, obs.LogLevel)
	assert.InDelta(t, defaults.SampleRatio, obs.SampleRatio, 0.001)
}
