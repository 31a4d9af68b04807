// Package report builds markdown reports for restored trials, with
// optional HTML rendering.
package report

import (
	"strconv"
	"strings"

	"github.com/trialscope/trialscope/internal/render"
	"github.com/trialscope/trialscope/pkg/trial"
)

// Options defines configuration for report generation.
type Options struct {
	// Title heads the report. Empty uses the trial directory name.
	Title string

	// IncludeHistory appends the full metrics series.
	IncludeHistory bool

	// Checkpoints carries optional per-checkpoint columns.
	Checkpoints render.CheckpointColumns
}

// Markdown renders a trial report as GitHub-flavored markdown.
func Markdown(res *trial.Result, opts Options) string {
	title := opts.Title
	if title == "" {
		title = res.Path
	}

	// Markdown tables need no width clamping.
	doc := render.Terminal{}

	var parts []string

	parts = append(parts, "# "+title, summarySection(res))

	if res.Metrics.Len() > 0 {
		parts = append(parts, "## Latest metrics",
			render.MetricsTable(doc, res.Metrics).RenderMarkdown())
	}

	cfg := res.Config()
	if cfg.Len() > 0 {
		parts = append(parts, "## Configuration",
			render.MetricsTable(doc, cfg).RenderMarkdown())
	}

	if len(res.Checkpoints) > 0 {
		parts = append(parts, "## Checkpoints",
			render.CheckpointsTable(doc, res.Checkpoints, opts.Checkpoints).RenderMarkdown())
	}

	if opts.IncludeHistory && len(res.History) > 0 {
		parts = append(parts, "## History",
			render.HistoryTable(doc, res.History, nil, 0).RenderMarkdown())
	}

	if res.Error != nil {
		parts = append(parts, errorSection(res.Error))
	}

	return strings.Join(parts, "\n\n") + "\n"
}

func summarySection(res *trial.Result) string {
	status := "**Status:** OK"
	if !res.OK() {
		status = "**Status:** FAILED (" + res.Error.String() + ")"
	}

	lines := []string{
		"**Trial:** `" + res.Path + "`",
		status,
		"**Iterations:** " + strconv.Itoa(len(res.History)),
		"**Checkpoints:** " + checkpointSummary(res),
	}

	return strings.Join(lines, "  \n")
}

func checkpointSummary(res *trial.Result) string {
	if res.Checkpoint == nil {
		return "0"
	}

	return strconv.Itoa(len(res.Checkpoints)) + " (latest `" + res.Checkpoint.Name() + "`)"
}

func errorSection(rec *trial.ErrorRecord) string {
	var b strings.Builder

	b.WriteString("## Error\n\n")
	b.WriteString("**" + rec.Kind + "**: " + rec.Message)

	if rec.Trace != "" {
		b.WriteString("\n\n```\n" + strings.TrimRight(rec.Trace, "\n") + "\n```")
	}

	return b.String()
}
