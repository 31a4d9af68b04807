package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/config"
	"github.com/trialscope/trialscope/internal/report"
	"github.com/trialscope/trialscope/pkg/trial"
)

// ReportCommand holds the flags for the report command.
type ReportCommand struct {
	globals *Globals
	out     string
	html    bool
	history bool
	title   string
}

// NewReportCommand creates the report command.
func NewReportCommand(globals *Globals) *cobra.Command {
	rc := &ReportCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "report <trial-path>",
		Short: "Write a trial report",
		Long: `Write a markdown report of the trial's outcome: status, latest
metrics, configuration, checkpoints, and any terminal error.

An output path ending in .html, or --html, renders the markdown to a
standalone HTML page instead.`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cobraCmd.Flags().StringVarP(&rc.out, "output", "o", "", "output file (default: stdout)")
	cobraCmd.Flags().BoolVar(&rc.html, "html", false, "render HTML instead of markdown")
	cobraCmd.Flags().BoolVar(&rc.history, "history", false, "append the full metrics series")
	cobraCmd.Flags().StringVar(&rc.title, "title", "", "report title (default: configured title)")

	return cobraCmd
}

func (rc *ReportCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := rc.globals.Load()
	if err != nil {
		return err
	}

	res, err := trial.Restore(cobraCmd.Context(), args[0])
	if err != nil {
		return err
	}

	title := rc.title
	if title == "" {
		title = cfg.Report.Title
	}

	content := report.Markdown(res, report.Options{Title: title, IncludeHistory: rc.history})

	if rc.wantHTML(cfg) {
		html, htmlErr := report.HTML(title, content)
		if htmlErr != nil {
			return htmlErr
		}

		content = html
	}

	out, closeOut, err := openOutput(rc.out, cobraCmd.OutOrStdout())
	if err != nil {
		return err
	}

	_, writeErr := io.WriteString(out, content)
	closeErr := closeOut()

	if writeErr != nil {
		return fmt.Errorf("write report: %w", writeErr)
	}

	return closeErr
}

// wantHTML reports whether the output should be HTML: the flag, the
// configured default, or an .html output path.
func (rc *ReportCommand) wantHTML(cfg *config.Config) bool {
	return rc.html || cfg.Report.HTML || strings.HasSuffix(rc.out, ".html")
}
