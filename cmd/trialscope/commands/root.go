// Package commands implements the subcommands of the trialscope CLI.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/trialscope/trialscope/internal/config"
	"github.com/trialscope/trialscope/internal/render"
)

// Globals holds the persistent flags shared by every subcommand.
type Globals struct {
	ConfigPath string
	LogLevel   string
	LogJSON    bool
	NoColor    bool
	Quiet      bool
}

// Register binds the global flags.
func (g *Globals) Register(flags *pflag.FlagSet) {
	flags.StringVar(&g.ConfigPath, "config", "", "config file (default: .trialscope.yaml in CWD or $HOME)")
	flags.StringVar(&g.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&g.LogJSON, "log-json", false, "write logs as JSON")
	flags.BoolVar(&g.NoColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "log errors only")
}

// Load resolves the effective configuration: file and environment first,
// command-line flags on top.
func (g *Globals) Load() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	if g.LogJSON {
		cfg.Log.JSON = true
	}

	if g.NoColor {
		cfg.Output.NoColor = true
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// Logger builds the command logger writing to w. Quiet raises the
// threshold to error.
func (g *Globals) Logger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.SlogLevel()
	if g.Quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Log.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Terminal builds the terminal description that tables and colored
// output are rendered against.
func (g *Globals) Terminal(cfg *config.Config) render.Terminal {
	return render.NewTerminal(cfg.Output.Width, cfg.Output.NoColor)
}

// resolveFormat picks a command's output format: the flag wins over the
// configured default.
func resolveFormat(flagValue string, cfg *config.Config) (render.Format, error) {
	raw := flagValue
	if raw == "" {
		raw = cfg.Output.Format
	}

	if raw == "" {
		raw = config.DefaultOutputFormat
	}

	return render.ParseFormat(raw)
}

// openOutput returns the writer a command's -o flag points at: the file
// at path, or fallback when path is empty. The returned closer is a
// no-op for the fallback.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}

	return f, f.Close, nil
}
