// Package tui implements the interactive experiment browser: a trial
// list pane beside a scrollable detail viewport.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/storage"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusList means navigation keys move the trial list cursor.
	FocusList FocusRegion = iota
	// FocusDetail means navigation keys scroll the detail viewport.
	FocusDetail
)

// listPaneRatio is the fraction of the terminal width given to the
// trial list pane.
const listPaneRatio = 0.40

// refreshDoneMsg delivers a reloaded experiment listing.
type refreshDoneMsg struct {
	entries []experiment.Entry
	err     error
}

// Model is the top-level bubbletea model for the experiment browser.
type Model struct {
	fsys  storage.Filesystem
	root  string
	theme Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	entries      []experiment.Entry
	cursor       int
	scrollOffset int

	focus  FocusRegion
	detail viewport.Model

	refreshing bool
	notice     string
}

// NewModel creates a browser over the trials already loaded from root.
// The refresh key reloads the listing through fsys.
func NewModel(fsys storage.Filesystem, root string, entries []experiment.Entry) Model {
	return Model{
		fsys:    fsys,
		root:    root,
		theme:   DefaultTheme,
		keys:    DefaultKeyMap,
		entries: entries,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// refreshEntries reloads the experiment listing off the UI loop.
func refreshEntries(fsys storage.Filesystem, root string) tea.Cmd {
	return func() tea.Msg {
		entries, err := experiment.Load(context.Background(), fsys, root, nil)

		return refreshDoneMsg{entries: entries, err: err}
	}
}

// Update implements tea.Model. Routes keys by the focused pane and
// handles resize and refresh completion.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.updatePaneSizes()
		m.syncDetail()

	case refreshDoneMsg:
		m.refreshing = false

		if message.err != nil {
			m.notice = "refresh failed: " + message.err.Error()
			break
		}

		m.notice = ""
		m.entries = message.entries

		if m.cursor >= len(m.entries) {
			m.cursor = len(m.entries) - 1
		}

		if m.cursor < 0 {
			m.cursor = 0
		}

		m.ensureCursorVisible()
		m.syncDetail()

	case tea.KeyMsg:
		switch {
		case key.Matches(message, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(message, m.keys.FocusToggle):
			if m.focus == FocusList {
				m.focus = FocusDetail
			} else {
				m.focus = FocusList
			}

		case key.Matches(message, m.keys.Refresh):
			if !m.refreshing {
				m.refreshing = true

				return m, refreshEntries(m.fsys, m.root)
			}

		default:
			if m.focus == FocusList {
				m.handleListKeys(message)
			} else {
				m.handleDetailKeys(message)
			}
		}
	}

	return m, nil
}

// handleListKeys processes navigation when the list has focus.
func (m *Model) handleListKeys(message tea.KeyMsg) {
	prev := m.cursor

	switch {
	case key.Matches(message, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(message, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case key.Matches(message, m.keys.PageUp):
		m.cursor = m.clampedIndex(m.cursor - m.visibleHeight())

	case key.Matches(message, m.keys.PageDown):
		m.cursor = m.clampedIndex(m.cursor + m.visibleHeight())

	case key.Matches(message, m.keys.Home):
		m.cursor = 0

	case key.Matches(message, m.keys.End):
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
	}

	m.ensureCursorVisible()

	if m.cursor != prev {
		m.syncDetail()
	}
}

// handleDetailKeys processes navigation when the detail pane has focus.
func (m *Model) handleDetailKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, m.keys.Up):
		m.detail.LineUp(1)
	case key.Matches(message, m.keys.Down):
		m.detail.LineDown(1)
	case key.Matches(message, m.keys.PageUp):
		m.detail.HalfViewUp()
	case key.Matches(message, m.keys.PageDown):
		m.detail.HalfViewDown()
	case key.Matches(message, m.keys.Home):
		m.detail.GotoTop()
	case key.Matches(message, m.keys.End):
		m.detail.GotoBottom()
	}
}

// clampedIndex returns position clamped to valid entry bounds.
func (m Model) clampedIndex(position int) int {
	if len(m.entries) == 0 || position < 0 {
		return 0
	}

	if position >= len(m.entries) {
		return len(m.entries) - 1
	}

	return position
}

// ensureCursorVisible adjusts the scroll offset so the cursor row stays
// within the visible window.
func (m *Model) ensureCursorVisible() {
	visible := m.visibleHeight()
	if visible <= 0 {
		return
	}

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}

	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}

	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// visibleHeight returns the number of content rows between the header
// line and the bottom separator plus help bar.
func (m Model) visibleHeight() int {
	return m.height - 3
}

// listWidth returns the width of the list pane in columns.
func (m Model) listWidth() int {
	w := int(float64(m.width) * listPaneRatio)
	if w < 20 {
		w = 20
	}

	return w
}

// updatePaneSizes recalculates the detail viewport dimensions after a
// resize.
func (m *Model) updatePaneSizes() {
	detailWidth := m.width - m.listWidth() - 1
	if detailWidth < 10 {
		detailWidth = 10
	}

	// One column of left padding inside the detail pane.
	m.detail.Width = detailWidth - 1

	height := m.visibleHeight()
	if height < 1 {
		height = 1
	}

	m.detail.Height = height
}

// syncDetail re-renders the detail viewport for the selected trial.
func (m *Model) syncDetail() {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		m.detail.SetContent("")

		return
	}

	renderer := NewDetailRenderer(m.theme, m.detail.Width)
	m.detail.SetContent(renderer.Render(m.entries[m.cursor]))
	m.detail.GotoTop()
}

// View implements tea.Model. Renders the full frame: header, two panes
// with a vertical divider, separator and help bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if len(m.entries) == 0 {
		return m.renderEmpty()
	}

	detailView := lipgloss.NewStyle().PaddingLeft(1).Render(m.detail.View())

	sections := []string{
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderListPane(), m.renderDivider(), detailView),
		lipgloss.NewStyle().Foreground(m.theme.BorderColor).Render(strings.Repeat("─", m.width)),
		m.renderHelp(),
	}

	return strings.Join(sections, "\n")
}

// renderEmpty centers a placeholder when the experiment has no trials.
func (m Model) renderEmpty() string {
	text := "No trials found under " + m.root + "."

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(text),
	)
}

// renderHeader renders the top chrome line: experiment root on the left,
// trial count and refresh state on the right, separator fill between.
func (m Model) renderHeader() string {
	sepStyle := lipgloss.NewStyle().Foreground(m.theme.BorderColor)
	rootStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	sep := sepStyle.Render("─")

	left := sep + sep + sep + " " + rootStyle.Render(m.root) + " "
	leftWidth := 5 + lipgloss.Width(m.root)

	stats := fmt.Sprintf("%d trials", len(m.entries))
	if m.refreshing {
		stats += "  refreshing…"
	}

	right := " " + statsStyle.Render(stats) + " " + sep
	rightWidth := 3 + lipgloss.Width(stats)

	fillCount := m.width - leftWidth - rightWidth
	if fillCount < 1 {
		fillCount = 1
	}

	fill := strings.Repeat("─", fillCount)

	return left + sepStyle.Render(fill) + right
}

// renderListPane renders the visible slice of trial rows, padded to the
// full content height so the divider stays straight.
func (m Model) renderListPane() string {
	width := m.listWidth()
	renderer := NewListRenderer(m.theme, width)

	visible := m.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	rows := make([]string, 0, visible)

	for index := m.scrollOffset; index < m.scrollOffset+visible && index < len(m.entries); index++ {
		rows = append(rows, renderer.RenderRow(m.entries[index], index == m.cursor))
	}

	for len(rows) < visible {
		rows = append(rows, strings.Repeat(" ", width))
	}

	return strings.Join(rows, "\n")
}

// renderDivider renders the vertical line between the panes.
func (m Model) renderDivider() string {
	visible := m.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}

	return lipgloss.NewStyle().
		Foreground(m.theme.BorderColor).
		Width(1).
		Height(visible).
		Render(strings.Join(lines, "\n"))
}

// renderHelp renders the bottom help bar with the focus indicator,
// key hints, cursor position and any pending notice.
func (m Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(m.theme.HelpText)

	focusIndicator := "LIST"
	if m.focus == FocusDetail {
		focusIndicator = "DETAIL"
	}

	help := fmt.Sprintf(" [%s] q quit  ↑↓ navigate  Tab focus  r refresh", focusIndicator)

	if len(m.entries) > 0 {
		help += fmt.Sprintf("  %d/%d", m.cursor+1, len(m.entries))
	}

	rendered := style.Render(help)

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(m.theme.NoticeText).Bold(true)
		rendered += "  " + noticeStyle.Render(m.notice)
	}

	return rendered
}
