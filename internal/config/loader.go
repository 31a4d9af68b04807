package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = ".trialscope"
	configType = "yaml"

	// Settings override through TRIALSCOPE_* variables, with "_" separating
	// nested keys, e.g. TRIALSCOPE_TELEMETRY_OTLP_ENDPOINT.
	envPrefix = "TRIALSCOPE"
)

// LoadConfig resolves the effective configuration: defaults, then the
// config file, then environment variables, each layer overriding the one
// before. A .env file in the working directory is applied to the
// environment first. With an empty configPath the file is searched in the
// working directory and $HOME, and its absence is not an error.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)

		return v
	}

	v.SetConfigName(configName)
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	return v
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("output.no_color", DefaultOutputNoColor)
	v.SetDefault("output.width", DefaultOutputWidth)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryOTLPEndpoint)
	v.SetDefault("telemetry.otlp_headers", DefaultTelemetryOTLPHeaders)
	v.SetDefault("telemetry.otlp_insecure", DefaultTelemetryOTLPInsecure)
	v.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	v.SetDefault("telemetry.environment", DefaultTelemetryEnvironment)

	v.SetDefault("diagnostics.addr", DefaultDiagnosticsAddr)

	v.SetDefault("plot.theme", DefaultPlotTheme)
	v.SetDefault("plot.height_px", DefaultPlotHeightPx)

	v.SetDefault("report.title", DefaultReportTitle)
	v.SetDefault("report.html", DefaultReportHTML)
}
