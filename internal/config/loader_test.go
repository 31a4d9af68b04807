package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/internal/config"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	return cfgPath
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, "empty.yaml", "")

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultOutputNoColor, cfg.Output.NoColor)
	assert.Equal(t, config.DefaultOutputWidth, cfg.Output.Width)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, config.DefaultLogJSON, cfg.Log.JSON)
	assert.Equal(t, config.DefaultTelemetryOTLPEndpoint, cfg.Telemetry.OTLPEndpoint)
	assert.InDelta(t, config.DefaultTelemetrySampleRatio, cfg.Telemetry.SampleRatio, 0.001)
	assert.Equal(t, config.DefaultTelemetryEnvironment, cfg.Telemetry.Environment)
	assert.Equal(t, config.DefaultDiagnosticsAddr, cfg.Diagnostics.Addr)
	assert.Equal(t, config.DefaultPlotTheme, cfg.Plot.Theme)
	assert.Equal(t, config.DefaultPlotHeightPx, cfg.Plot.HeightPx)
	assert.Equal(t, config.DefaultReportTitle, cfg.Report.Title)
	assert.Equal(t, config.DefaultReportHTML, cfg.Report.HTML)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	content := `output:
  format: json
  no_color: true
  width: 120
log:
  level: debug
  json: true
telemetry:
  otlp_endpoint: "collector:4317"
  otlp_headers: "authorization=Bearer tok"
  otlp_insecure: true
  sample_ratio: 0.25
  environment: staging
diagnostics:
  addr: ":9090"
plot:
  theme: light
  height_px: 700
report:
  title: "Nightly Sweep"
  html: true
`
	cfgPath := writeConfigFile(t, ".trialscope.yaml", content)

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)
	assert.Equal(t, 120, cfg.Output.Width)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)

	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, "authorization=Bearer tok", cfg.Telemetry.OTLPHeaders)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 0.001)
	assert.Equal(t, "staging", cfg.Telemetry.Environment)

	assert.Equal(t, ":9090", cfg.Diagnostics.Addr)

	assert.Equal(t, "light", cfg.Plot.Theme)
	assert.Equal(t, 700, cfg.Plot.HeightPx)

	assert.Equal(t, "Nightly Sweep", cfg.Report.Title)
	assert.True(t, cfg.Report.HTML)
}

func TestLoadConfig_PartialConfig_MergesDefaults(t *testing.T) {
	t.Parallel()

	content := `output:
  format: yaml
`
	cfgPath := writeConfigFile(t, ".trialscope.yaml", content)

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, config.DefaultPlotTheme, cfg.Plot.Theme)
	assert.Equal(t, config.DefaultPlotHeightPx, cfg.Plot.HeightPx)
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	content := `output:
  format: [invalid yaml
`
	cfgPath := writeConfigFile(t, "bad.yaml", content)

	cfg, err := config.LoadConfig(cfgPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_InvalidValue_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	content := `output:
  format: xml
`
	cfgPath := writeConfigFile(t, ".trialscope.yaml", content)

	cfg, err := config.LoadConfig(cfgPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, config.ErrInvalidOutputFormat)
}

func TestLoadConfig_UnknownKeys_NoError(t *testing.T) {
	t.Parallel()

	content := `unknown_section:
  unknown_key: "value"
output:
  width: 80
`
	cfgPath := writeConfigFile(t, ".trialscope.yaml", content)

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	expectedWidth := 80

	assert.Equal(t, expectedWidth, cfg.Output.Width)
}

func TestLoadConfig_EnvOverride_Output(t *testing.T) {
	cfgPath := writeConfigFile(t, "empty.yaml", "")

	t.Setenv("TRIALSCOPE_OUTPUT_FORMAT", "cbor")

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "cbor", cfg.Output.Format)
}

func TestLoadConfig_EnvOverride_NestedKey(t *testing.T) {
	cfgPath := writeConfigFile(t, "empty.yaml", "")

	t.Setenv("TRIALSCOPE_PLOT_HEIGHT_PX", "800")

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	expectedHeight := 800

	assert.Equal(t, expectedHeight, cfg.Plot.HeightPx)
}

func TestLoadConfig_ExplicitPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}
