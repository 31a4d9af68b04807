package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/plot"
	"github.com/trialscope/trialscope/pkg/trial"
)

// PlotCommand holds the flags for the plot command.
type PlotCommand struct {
	globals *Globals
	out     string
	metrics []string
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(globals *Globals) *cobra.Command {
	pc := &PlotCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "plot <trial-path>",
		Short: "Render metric charts to an HTML page",
		Long: `Render the trial's numeric metric series as line charts on a single
HTML page, one chart per metric, indexed by iteration.`,
		Args: cobra.ExactArgs(1),
		RunE: pc.run,
	}

	cobraCmd.Flags().StringVarP(&pc.out, "output", "o", "", "output HTML file (required)")
	cobraCmd.Flags().StringSliceVar(&pc.metrics, "metrics", nil, "restrict charts to the named metrics")

	_ = cobraCmd.MarkFlagRequired("output")

	return cobraCmd
}

func (pc *PlotCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := pc.globals.Load()
	if err != nil {
		return err
	}

	res, err := trial.Restore(cobraCmd.Context(), args[0])
	if err != nil {
		return err
	}

	page, err := plot.NewPage(res, plot.Options{
		Theme:    plot.Theme(cfg.Plot.Theme),
		HeightPx: cfg.Plot.HeightPx,
		Metrics:  pc.metrics,
	})
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(pc.out, cobraCmd.OutOrStdout())
	if err != nil {
		return err
	}

	renderErr := page.Render(out)
	closeErr := closeOut()

	if renderErr != nil {
		return fmt.Errorf("render page: %w", renderErr)
	}

	return closeErr
}
