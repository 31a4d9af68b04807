package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/trial"
)

// BestCommand holds the flags for the best command.
type BestCommand struct {
	globals  *Globals
	metric   string
	mode     string
	format   string
	pathOnly bool
}

// NewBestCommand creates the best command.
func NewBestCommand(globals *Globals) *cobra.Command {
	bc := &BestCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "best <trial-path>",
		Short: "Select the best checkpoint by a metric",
		Long: `Select the checkpoint whose correlated metrics carry the best value
of a metric. Ties go to the earliest checkpoint.`,
		Args: cobra.ExactArgs(1),
		RunE: bc.run,
	}

	cobraCmd.Flags().StringVarP(&bc.metric, "metric", "m", "", "metric to rank checkpoints by (required)")
	cobraCmd.Flags().StringVar(&bc.mode, "mode", string(trial.ModeMax), "selection mode (min, max)")
	cobraCmd.Flags().StringVarP(&bc.format, "format", "f", "", "output format (table, json, yaml, cbor)")
	cobraCmd.Flags().BoolVar(&bc.pathOnly, "path-only", false, "print only the checkpoint path")

	_ = cobraCmd.MarkFlagRequired("metric")

	return cobraCmd
}

func (bc *BestCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := bc.globals.Load()
	if err != nil {
		return err
	}

	mode, err := trial.ParseMode(bc.mode)
	if err != nil {
		return err
	}

	res, err := trial.Restore(cobraCmd.Context(), args[0])
	if err != nil {
		return err
	}

	rec, err := res.BestCheckpoint(bc.metric, mode)
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if bc.pathOnly {
		fmt.Fprintln(out, rec.Checkpoint.Path)
		return nil
	}

	format, err := resolveFormat(bc.format, cfg)
	if err != nil {
		return err
	}

	if format == render.FormatTable {
		fmt.Fprintln(out, render.BestTable(bc.globals.Terminal(cfg), bc.metric, mode, rec).Render())
		return nil
	}

	return render.Encode(out, format, render.NewBestDoc(bc.metric, mode, rec))
}
