package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/storage"
	"github.com/trialscope/trialscope/pkg/trial"
)

// CheckpointsCommand holds the flags for the checkpoints command.
type CheckpointsCommand struct {
	globals *Globals
	format  string
	sizes   bool
	digests bool
}

// NewCheckpointsCommand creates the checkpoints command.
func NewCheckpointsCommand(globals *Globals) *cobra.Command {
	cc := &CheckpointsCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "checkpoints <trial-path>",
		Short: "List a trial's checkpoints",
		Long: `List a trial's checkpoints in training order with their correlated
metric counts. Sizes and content digests are computed on demand.`,
		Args: cobra.ExactArgs(1),
		RunE: cc.run,
	}

	cobraCmd.Flags().StringVarP(&cc.format, "format", "f", "", "output format (table, json, yaml, cbor)")
	cobraCmd.Flags().BoolVar(&cc.sizes, "sizes", false, "compute recursive checkpoint sizes")
	cobraCmd.Flags().BoolVar(&cc.digests, "digest", false, "compute BLAKE3 content digests")

	return cobraCmd
}

func (cc *CheckpointsCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := cc.globals.Load()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cc.format, cfg)
	if err != nil {
		return err
	}

	ctx := cobraCmd.Context()

	res, err := trial.Restore(ctx, args[0])
	if err != nil {
		return err
	}

	cols, err := cc.buildColumns(ctx, res)
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if format == render.FormatTable {
		fmt.Fprintln(out, render.CheckpointsTable(cc.globals.Terminal(cfg), res.Checkpoints, cols).Render())
		return nil
	}

	return render.Encode(out, format, render.NewCheckpointListDoc(res, cols))
}

// buildColumns computes the optional size and digest columns.
func (cc *CheckpointsCommand) buildColumns(ctx context.Context, res *trial.Result) (render.CheckpointColumns, error) {
	var cols render.CheckpointColumns

	if cc.sizes {
		cols.Sizes = make(map[string]int64, len(res.Checkpoints))

		for _, rec := range res.Checkpoints {
			size, err := storage.DirSize(ctx, res.FS, rec.Checkpoint.Path)
			if err != nil {
				return cols, fmt.Errorf("size %s: %w", rec.Checkpoint.Name(), err)
			}

			cols.Sizes[rec.Checkpoint.Name()] = size
		}
	}

	if cc.digests {
		cols.Digests = make(map[string]string, len(res.Checkpoints))

		for _, rec := range res.Checkpoints {
			digest, err := storage.DirDigest(ctx, res.FS, rec.Checkpoint.Path)
			if err != nil {
				return cols, fmt.Errorf("digest %s: %w", rec.Checkpoint.Name(), err)
			}

			cols.Digests[rec.Checkpoint.Name()] = digest
		}
	}

	return cols, nil
}
