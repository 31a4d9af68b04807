package config

import (
	"errors"
	"log/slog"
	"slices"
)

// Config is the top-level configuration struct for trialscope.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output      OutputConfig      `mapstructure:"output"`
	Log         LogConfig         `mapstructure:"log"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Plot        PlotConfig        `mapstructure:"plot"`
	Report      ReportConfig      `mapstructure:"report"`
}

// OutputConfig holds rendering knobs shared by all commands.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
	Width   int    `mapstructure:"width"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OTLP export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
}

// DiagnosticsConfig holds the MCP-mode diagnostics HTTP server settings.
type DiagnosticsConfig struct {
	Addr string `mapstructure:"addr"`
}

// PlotConfig holds chart rendering settings.
type PlotConfig struct {
	Theme    string `mapstructure:"theme"`
	HeightPx int    `mapstructure:"height_px"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	Title string `mapstructure:"title"`
	HTML  bool   `mapstructure:"html"`
}

// outputFormats lists the values output.format accepts.
var outputFormats = []string{"table", "json", "yaml", "cbor", "markdown"}

// logLevels lists the values log.level accepts.
var logLevels = []string{"debug", "info", "warn", "error"}

// plotThemes lists the values plot.theme accepts.
var plotThemes = []string{"dark", "light"}

// sampleRatioMax is the upper bound for the trace sampling ratio.
const sampleRatioMax = 1.0

// Sentinel errors for configuration validation.
var (
	// ErrInvalidOutputFormat indicates output.format is not a known format.
	ErrInvalidOutputFormat = errors.New("output.format must be one of table, json, yaml, cbor, markdown")
	// ErrInvalidOutputWidth indicates output.width is negative.
	ErrInvalidOutputWidth = errors.New("output.width must be non-negative")
	// ErrInvalidLogLevel indicates log.level is not a known level.
	ErrInvalidLogLevel = errors.New("log.level must be one of debug, info, warn, error")
	// ErrInvalidSampleRatio indicates the sampling ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrInvalidPlotTheme indicates plot.theme is not a known theme.
	ErrInvalidPlotTheme = errors.New("plot.theme must be one of dark, light")
	// ErrInvalidPlotHeight indicates plot.height_px is negative.
	ErrInvalidPlotHeight = errors.New("plot.height_px must be non-negative")
)

// Validate checks Config invariants and returns the first error found.
// Zero values are valid everywhere; they mean "use the default".
func (c *Config) Validate() error {
	outputErr := c.validateOutput()
	if outputErr != nil {
		return outputErr
	}

	if c.Log.Level != "" && !slices.Contains(logLevels, c.Log.Level) {
		return ErrInvalidLogLevel
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	return c.validatePlot()
}

func (c *Config) validateOutput() error {
	if c.Output.Format != "" && !slices.Contains(outputFormats, c.Output.Format) {
		return ErrInvalidOutputFormat
	}

	if c.Output.Width < 0 {
		return ErrInvalidOutputWidth
	}

	return nil
}

func (c *Config) validatePlot() error {
	if c.Plot.Theme != "" && !slices.Contains(plotThemes, c.Plot.Theme) {
		return ErrInvalidPlotTheme
	}

	if c.Plot.HeightPx < 0 {
		return ErrInvalidPlotHeight
	}

	return nil
}

// SlogLevel maps the configured log level to its slog value.
// Empty or unknown levels map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
