package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/flatten"
	"github.com/trialscope/trialscope/pkg/trial"
)

// DetailRenderer builds the scrollable detail content for one trial.
type DetailRenderer struct {
	theme Theme
	width int
}

// NewDetailRenderer creates a DetailRenderer for the given content width.
func NewDetailRenderer(theme Theme, width int) DetailRenderer {
	return DetailRenderer{theme: theme, width: width}
}

// Render produces the detail text for one entry: status, latest metrics,
// run configuration, checkpoints and the terminal error when present.
func (renderer DetailRenderer) Render(entry experiment.Entry) string {
	word, color := statusWord(entry, renderer.theme)

	titleStyle := lipgloss.NewStyle().Foreground(renderer.theme.HeaderForeground).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(color)
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	var sections []string

	sections = append(sections,
		titleStyle.Render(entry.Trial.Name)+"  "+statusStyle.Render(word),
		faint.Render(entry.Trial.Path),
	)

	if entry.Err != nil {
		sections = append(sections,
			renderer.sectionHeader("Restore error"),
			"  "+statusStyle.Render(entry.Err.Error()),
		)

		return strings.Join(sections, "\n\n")
	}

	res := entry.Result

	if metrics := renderer.metricRows(res.Metrics, true); metrics != "" {
		sections = append(sections, renderer.sectionHeader("Latest metrics")+"\n"+metrics)
	}

	if config := res.Config(); config.Len() > 0 {
		sections = append(sections, renderer.sectionHeader("Config")+"\n"+renderer.metricRows(config, false))
	}

	sections = append(sections, renderer.checkpointSection(res))

	if res.Error != nil {
		sections = append(sections, renderer.errorSection(*res.Error))
	}

	return strings.Join(sections, "\n\n")
}

// sectionHeader styles a section title.
func (renderer DetailRenderer) sectionHeader(title string) string {
	return lipgloss.NewStyle().
		Foreground(renderer.theme.HeaderForeground).
		Bold(true).
		Render(title)
}

// metricRows renders a snapshot as aligned key/value lines in snapshot
// key order. skipConfig drops keys under the config prefix, which get
// their own section.
func (renderer DetailRenderer) metricRows(snap trial.Snapshot, skipConfig bool) string {
	keyStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	valStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)

	configPrefix := trial.ConfigPrefix + flatten.Separator

	keys := make([]string, 0, snap.Len())
	keyWidth := 0

	for _, key := range snap.Keys() {
		if skipConfig && strings.HasPrefix(key, configPrefix) {
			continue
		}

		keys = append(keys, key)

		if w := lipgloss.Width(key); w > keyWidth {
			keyWidth = w
		}
	}

	rows := make([]string, 0, len(keys))

	for _, key := range keys {
		v, _ := snap.Lookup(key)
		pad := strings.Repeat(" ", keyWidth-lipgloss.Width(key))
		rows = append(rows, "  "+keyStyle.Render(key)+pad+"  "+valStyle.Render(v.String()))
	}

	return strings.Join(rows, "\n")
}

// checkpointSection renders the checkpoint inventory with per-checkpoint
// correlated metric counts. The latest checkpoint is marked.
func (renderer DetailRenderer) checkpointSection(res *trial.Result) string {
	header := renderer.sectionHeader(fmt.Sprintf("Checkpoints (%d)", len(res.Checkpoints)))

	if len(res.Checkpoints) == 0 {
		return header + "\n" + lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render("  none")
	}

	nameStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	rows := make([]string, 0, len(res.Checkpoints))

	for i, rec := range res.Checkpoints {
		row := "  " + nameStyle.Render(rec.Checkpoint.Name()) +
			faint.Render(fmt.Sprintf("  %d metrics", rec.Metrics.Len()))

		if i == len(res.Checkpoints)-1 {
			row += faint.Render("  latest")
		}

		rows = append(rows, row)
	}

	return header + "\n" + strings.Join(rows, "\n")
}

// errorSection renders the terminal failure envelope with its trace
// indented below the summary.
func (renderer DetailRenderer) errorSection(rec trial.ErrorRecord) string {
	errStyle := lipgloss.NewStyle().Foreground(renderer.theme.StatusFailed)
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	section := renderer.sectionHeader("Error") + "\n  " + errStyle.Render(rec.String())

	if rec.Trace != "" {
		traceLines := strings.Split(strings.TrimRight(rec.Trace, "\n"), "\n")
		for i, line := range traceLines {
			traceLines[i] = "  " + faint.Render(line)
		}

		section += "\n" + strings.Join(traceLines, "\n")
	}

	return section
}
