package commands

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/mcp"
	"github.com/trialscope/trialscope/internal/observability"
	"github.com/trialscope/trialscope/pkg/version"
)

// MCPCommand holds the flags for the mcp command.
type MCPCommand struct {
	globals         *Globals
	diagnosticsAddr string
}

// NewMCPCommand creates the mcp command.
func NewMCPCommand(globals *Globals) *cobra.Command {
	mc := &MCPCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve trial restoration over MCP stdio",
		Long: `Start a Model Context Protocol server on stdio. The server exposes
trial restoration as tools AI agents can discover and invoke:
  - trial_restore: restore a trial's outcome
  - trial_best_checkpoint: select the best checkpoint by a metric
  - trial_history: read the metrics series
  - experiment_list: list the trials under an experiment root

With --diagnostics-addr, an HTTP server additionally serves /healthz,
/readyz, and /metrics for operational monitoring.`,
		RunE: mc.run,
	}

	cobraCmd.Flags().StringVar(&mc.diagnosticsAddr, "diagnostics-addr", "", "address for the diagnostics HTTP server (empty = disabled)")

	return cobraCmd
}

func (mc *MCPCommand) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := mc.globals.Load()
	if err != nil {
		return err
	}

	addr := mc.diagnosticsAddr
	if addr == "" {
		addr = cfg.Diagnostics.Addr
	}

	obsCfg := cfg.ObservabilityConfig(observability.ModeMCP, version.Version)
	// Stdout carries the protocol; logs stay structured on stderr.
	obsCfg.LogJSON = true

	var registry *prometheus.Registry

	if addr != "" {
		registry = prometheus.NewRegistry()
		obsCfg.PrometheusRegistry = registry
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return err
	}

	if addr != "" {
		diag, diagErr := observability.NewDiagnosticsServer(addr, registry, providers.Tracer)
		if diagErr != nil {
			return diagErr
		}

		defer func() {
			closeErr := diag.Close()
			if closeErr != nil {
				providers.Logger.Warn("diagnostics server close failed", "error", closeErr)
			}
		}()

		providers.Logger.Info("diagnostics server listening", "addr", diag.Addr())
	}

	srv := mcp.NewServer(mcp.ServerDeps{
		Logger:  providers.Logger,
		Metrics: red,
		Tracer:  providers.Tracer,
	})

	return srv.Run(cobraCmd.Context())
}
