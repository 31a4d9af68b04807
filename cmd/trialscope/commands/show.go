package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/internal/report"
	"github.com/trialscope/trialscope/pkg/trial"
)

// ShowCommand holds the flags for the show command.
type ShowCommand struct {
	globals *Globals
	format  string
	history bool
}

// NewShowCommand creates the show command.
func NewShowCommand(globals *Globals) *cobra.Command {
	sc := &ShowCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "show <trial-path>",
		Short: "Restore a trial and print its outcome",
		Long: `Restore a trial directory and print its latest metrics, checkpoint
inventory, and terminal status.

The path may be a plain directory or a file:// URI.`,
		Args: cobra.ExactArgs(1),
		RunE: sc.run,
	}

	cobraCmd.Flags().StringVarP(&sc.format, "format", "f", "", "output format (table, json, yaml, cbor, markdown)")
	cobraCmd.Flags().BoolVar(&sc.history, "history", false, "include the full metrics series")

	return cobraCmd
}

func (sc *ShowCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := sc.globals.Load()
	if err != nil {
		return err
	}

	format, err := resolveFormat(sc.format, cfg)
	if err != nil {
		return err
	}

	res, err := trial.Restore(cobraCmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	switch format {
	case render.FormatTable:
		sc.printTables(out, sc.globals.Terminal(cfg), res)
		return nil
	case render.FormatMarkdown:
		fmt.Fprint(out, report.Markdown(res, report.Options{Title: cfg.Report.Title, IncludeHistory: sc.history}))
		return nil
	default:
		return render.Encode(out, format, render.NewResultDoc(res, sc.history))
	}
}

func (sc *ShowCommand) printTables(out io.Writer, term render.Terminal, res *trial.Result) {
	fmt.Fprintln(out, render.Summary(term, res))

	if res.Metrics.Len() > 0 {
		fmt.Fprintln(out, "Latest metrics:")
		fmt.Fprintln(out, render.MetricsTable(term, res.Metrics).Render())
	}

	if len(res.Checkpoints) > 0 {
		fmt.Fprintln(out, "Checkpoints:")
		fmt.Fprintln(out, render.CheckpointsTable(term, res.Checkpoints, render.CheckpointColumns{}).Render())
	}

	if sc.history && len(res.History) > 0 {
		fmt.Fprintln(out, "History:")
		fmt.Fprintln(out, render.HistoryTable(term, res.History, nil, 0).Render())
	}
}
