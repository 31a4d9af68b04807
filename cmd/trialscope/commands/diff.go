package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/trial"
)

// diffArgCount is the number of trial paths diff compares.
const diffArgCount = 2

// DiffCommand holds the flags for the diff command.
type DiffCommand struct {
	globals    *Globals
	configOnly bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(globals *Globals) *cobra.Command {
	dc := &DiffCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "diff <trial-a> <trial-b>",
		Short: "Compare the latest metrics of two trials",
		Long: `Compare the latest metric snapshots of two trials as a line diff,
one "key = value" line per metric. With --config only the run
configurations are compared.`,
		Args: cobra.ExactArgs(diffArgCount),
		RunE: dc.run,
	}

	cobraCmd.Flags().BoolVar(&dc.configOnly, "config", false, "compare run configurations instead of metrics")

	return cobraCmd
}

func (dc *DiffCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := dc.globals.Load()
	if err != nil {
		return err
	}

	ctx := cobraCmd.Context()

	left, err := trial.Restore(ctx, args[0])
	if err != nil {
		return err
	}

	right, err := trial.Restore(ctx, args[1])
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	fmt.Fprintf(out, "--- %s\n", left.Path)
	fmt.Fprintf(out, "+++ %s\n", right.Path)

	diffs := lineDiffs(dc.view(left), dc.view(right))

	if !hasChanges(diffs) {
		fmt.Fprintln(out, "No differences.")
		return nil
	}

	printDiffs(out, dc.globals.Terminal(cfg), diffs)

	return nil
}

// view renders the compared snapshot as one "key = value" line per
// metric, in first-seen order.
func (dc *DiffCommand) view(res *trial.Result) string {
	snap := res.Metrics
	if dc.configOnly {
		snap = res.Config()
	}

	var b strings.Builder

	for _, key := range snap.Keys() {
		value, _ := snap.Lookup(key)
		b.WriteString(key + " = " + value.String() + "\n")
	}

	return b.String()
}

// lineDiffs produces a line-granularity diff between two views.
func lineDiffs(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffMainRunes(src, dst, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	return dmp.DiffCharsToLines(diffs, lines)
}

func hasChanges(diffs []diffmatchpatch.Diff) bool {
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return true
		}
	}

	return false
}

// printDiffs writes one prefixed, optionally colored line per diffed
// view line.
func printDiffs(out io.Writer, term render.Terminal, diffs []diffmatchpatch.Diff) {
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}

		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(out, render.Paint(term, color.FgGreen, "+"+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(out, render.Paint(term, color.FgRed, "-"+line))
			case diffmatchpatch.DiffEqual:
				fmt.Fprintln(out, " "+line)
			}
		}
	}
}
