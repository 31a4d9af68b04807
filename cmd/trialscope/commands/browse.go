package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/tui"
	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/storage"
)

// BrowseCommand holds the flags for the browse command.
type BrowseCommand struct {
	globals *Globals
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(globals *Globals) *cobra.Command {
	bc := &BrowseCommand{globals: globals}

	return &cobra.Command{
		Use:   "browse <experiment-root>",
		Short: "Browse an experiment's trials interactively",
		Long: `Open a full-screen browser over the trials of an experiment: a list
pane with status and counts, and a scrollable detail pane with metrics,
configuration, and checkpoints. Press r to restore everything again.`,
		Args: cobra.ExactArgs(1),
		RunE: bc.run,
	}
}

func (bc *BrowseCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := bc.globals.Load()
	if err != nil {
		return err
	}

	fsys, root, err := storage.Resolve(args[0])
	if err != nil {
		return err
	}

	logger := bc.globals.Logger(cfg, cobraCmd.ErrOrStderr())

	entries, err := experiment.Load(cobraCmd.Context(), fsys, root, logger)
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(fsys, root, entries), tea.WithAltScreen())

	_, err = program.Run()
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	return nil
}
