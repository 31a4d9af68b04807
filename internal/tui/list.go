package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trialscope/trialscope/pkg/experiment"
)

// statusDot is the marker rendered before each trial name.
const statusDot = "●"

// statusWord returns the display word and color for an entry's outcome.
func statusWord(entry experiment.Entry, theme Theme) (string, lipgloss.Color) {
	switch {
	case entry.Err != nil:
		return "error", theme.StatusBroken
	case entry.Result != nil && entry.Result.OK():
		return "ok", theme.StatusOK
	default:
		return "failed", theme.StatusFailed
	}
}

// ListRenderer renders trial rows within a fixed width.
type ListRenderer struct {
	theme Theme
	width int
}

// NewListRenderer creates a ListRenderer for the given row width.
func NewListRenderer(theme Theme, width int) ListRenderer {
	return ListRenderer{theme: theme, width: width}
}

// RenderRow renders one trial entry. Layout: status dot, trial name,
// right-aligned iteration and checkpoint counts.
//
//	● trial_a                    12it 3ck
//	● trial_b                     5it 1ck
func (renderer ListRenderer) RenderRow(entry experiment.Entry, selected bool) string {
	_, color := statusWord(entry, renderer.theme)

	counts := "-"
	if entry.Result != nil {
		counts = fmt.Sprintf("%dit %dck", len(entry.Result.History), len(entry.Result.Checkpoints))
	}

	// Fixed chrome: leading space, dot, space before name, space before
	// counts, trailing space.
	nameWidth := renderer.width - lipgloss.Width(statusDot) - lipgloss.Width(counts) - 4
	if nameWidth < 4 {
		nameWidth = 4
	}

	name := entry.Trial.Name
	if lipgloss.Width(name) > nameWidth {
		name = truncate(name, nameWidth-1) + "…"
	}

	gap := nameWidth - lipgloss.Width(name)
	if gap < 0 {
		gap = 0
	}

	if selected {
		style := lipgloss.NewStyle().
			Background(renderer.theme.SelectedBackground).
			Foreground(renderer.theme.SelectedForeground)

		row := " " + statusDot + " " + name + strings.Repeat(" ", gap) + " " + counts + " "

		return style.Width(renderer.width).MaxWidth(renderer.width).Render(row)
	}

	dotStyle := lipgloss.NewStyle().Foreground(color)
	nameStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	countStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	row := " " +
		dotStyle.Render(statusDot) +
		" " +
		nameStyle.Render(name) +
		strings.Repeat(" ", gap) +
		" " +
		countStyle.Render(counts) +
		" "

	return lipgloss.NewStyle().Width(renderer.width).MaxWidth(renderer.width).Render(row)
}

// truncate shortens text to maxWidth visual columns.
func truncate(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}

	runes := []rune(text)
	for length := len(runes) - 1; length >= 0; length-- {
		candidate := string(runes[:length])
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}

	return ""
}
