// Package main provides the entry point for the trialscope CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/cmd/trialscope/commands"
	"github.com/trialscope/trialscope/pkg/version"
)

func main() {
	globals := &commands.Globals{}

	rootCmd := &cobra.Command{
		Use:   "trialscope",
		Short: "Trialscope - restore and inspect training trial outcomes",
		Long: `Trialscope restores the outcome of training trials from their run
directories: final metrics, checkpoint inventory, full metrics history,
and any terminal error.

Commands:
  show      Restore a trial and print its outcome
  ls        List the trials under an experiment root
  browse    Browse an experiment's trials interactively`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	globals.Register(rootCmd.PersistentFlags())

	// Add commands.
	rootCmd.AddCommand(commands.NewShowCommand(globals))
	rootCmd.AddCommand(commands.NewBestCommand(globals))
	rootCmd.AddCommand(commands.NewCheckpointsCommand(globals))
	rootCmd.AddCommand(commands.NewHistoryCommand(globals))
	rootCmd.AddCommand(commands.NewLsCommand(globals))
	rootCmd.AddCommand(commands.NewDiffCommand(globals))
	rootCmd.AddCommand(commands.NewPlotCommand(globals))
	rootCmd.AddCommand(commands.NewReportCommand(globals))
	rootCmd.AddCommand(commands.NewValidateCommand(globals))
	rootCmd.AddCommand(commands.NewBrowseCommand(globals))
	rootCmd.AddCommand(commands.NewMCPCommand(globals))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "trialscope %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
