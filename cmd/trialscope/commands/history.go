package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/trial"
)

// HistoryCommand holds the flags for the history command.
type HistoryCommand struct {
	globals *Globals
	format  string
	tail    int
	columns []string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(globals *Globals) *cobra.Command {
	hc := &HistoryCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "history <trial-path>",
		Short: "Print a trial's metrics series",
		Long: `Print the trial's full metrics series, one row per reported
iteration, in training order.`,
		Args: cobra.ExactArgs(1),
		RunE: hc.run,
	}

	cobraCmd.Flags().StringVarP(&hc.format, "format", "f", "", "output format (table, json, yaml, cbor)")
	cobraCmd.Flags().IntVar(&hc.tail, "tail", 0, "keep only the last N rows (0 = all)")
	cobraCmd.Flags().StringSliceVar(&hc.columns, "columns", nil, "restrict to the named metrics")

	return cobraCmd
}

func (hc *HistoryCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := hc.globals.Load()
	if err != nil {
		return err
	}

	format, err := resolveFormat(hc.format, cfg)
	if err != nil {
		return err
	}

	res, err := trial.Restore(cobraCmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if format == render.FormatTable {
		fmt.Fprintln(out, render.HistoryTable(hc.globals.Terminal(cfg), res.History, hc.columns, hc.tail).Render())
		return nil
	}

	return render.Encode(out, format, render.NewHistoryDoc(res, hc.tail, hc.columns))
}
