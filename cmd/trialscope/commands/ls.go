package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/storage"
)

// LsCommand holds the flags for the ls command.
type LsCommand struct {
	globals *Globals
	format  string
	metric  string
}

// NewLsCommand creates the ls command.
func NewLsCommand(globals *Globals) *cobra.Command {
	lc := &LsCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "ls <experiment-root>",
		Short: "List the trials under an experiment root",
		Long: `Restore every trial directory under an experiment root and print one
row per trial: status, iteration and checkpoint counts, and optionally
one metric's latest value. Trials that fail to restore are reported,
not skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: lc.run,
	}

	cobraCmd.Flags().StringVarP(&lc.format, "format", "f", "", "output format (table, json, yaml, cbor)")
	cobraCmd.Flags().StringVarP(&lc.metric, "metric", "m", "", "metric column to include")

	return cobraCmd
}

func (lc *LsCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := lc.globals.Load()
	if err != nil {
		return err
	}

	format, err := resolveFormat(lc.format, cfg)
	if err != nil {
		return err
	}

	fsys, root, err := storage.Resolve(args[0])
	if err != nil {
		return err
	}

	logger := lc.globals.Logger(cfg, cobraCmd.ErrOrStderr())

	entries, err := experiment.Load(cobraCmd.Context(), fsys, root, logger)
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if format == render.FormatTable {
		fmt.Fprintln(out, render.ExperimentTable(lc.globals.Terminal(cfg), entries, lc.metric).Render())
		return nil
	}

	return render.Encode(out, format, render.NewExperimentDoc(entries))
}
