package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/storage"
	"github.com/trialscope/trialscope/pkg/trial"
)

func snap(pairs ...any) trial.Snapshot {
	var s trial.Snapshot

	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i].(string)

		switch v := pairs[i+1].(type) {
		case float64:
			s.Set(key, trial.Number(v))
		case int:
			s.Set(key, trial.Number(float64(v)))
		case string:
			s.Set(key, trial.Text(v))
		case bool:
			s.Set(key, trial.Bool(v))
		}
	}

	return s
}

// testEntries builds three trials: one clean, one failed with an error
// envelope, one that did not restore at all.
func testEntries() []experiment.Entry {
	cleanLatest := snap("loss", 0.3, "acc", 0.9, "config/lr", 0.001)

	clean := &trial.Result{
		Path:    "/runs/exp/trial_a",
		Metrics: cleanLatest,
		History: trial.History{snap("loss", 0.8), cleanLatest},
		Checkpoints: []trial.CheckpointRecord{
			{
				Checkpoint: trial.Checkpoint{Path: "/runs/exp/trial_a/checkpoint_000000"},
				Metrics:    snap("loss", 0.8),
			},
			{
				Checkpoint: trial.Checkpoint{Path: "/runs/exp/trial_a/checkpoint_000001"},
				Metrics:    cleanLatest,
			},
		},
	}
	clean.Checkpoint = &clean.Checkpoints[1].Checkpoint

	failed := &trial.Result{
		Path:    "/runs/exp/trial_b",
		Metrics: snap("loss", 2.4),
		History: trial.History{snap("loss", 2.4)},
		Error: &trial.ErrorRecord{
			Kind:    "RuntimeError",
			Message: "worker died",
			Trace:   "train_loop()\n",
		},
	}

	return []experiment.Entry{
		{Trial: experiment.Trial{Name: "trial_a", Path: "/runs/exp/trial_a"}, Result: clean},
		{Trial: experiment.Trial{Name: "trial_b", Path: "/runs/exp/trial_b"}, Result: failed},
		{Trial: experiment.Trial{Name: "trial_c", Path: "/runs/exp/trial_c"}, Err: errors.New("missing metrics log")},
	}
}

func sizedModel(t *testing.T, entries []experiment.Entry) Model {
	t.Helper()

	model := NewModel(nil, "/runs/exp", entries)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 140, Height: 30})

	return updated.(Model)
}

func TestNewModelInitialState(t *testing.T) {
	t.Parallel()

	model := NewModel(nil, "/runs/exp", testEntries())

	assert.Equal(t, 0, model.cursor)
	assert.Equal(t, FocusList, model.focus)
	assert.Len(t, model.entries, 3)
}

func TestViewBeforeResizeShowsLoading(t *testing.T) {
	t.Parallel()

	model := NewModel(nil, "/runs/exp", testEntries())

	assert.Equal(t, "Loading...", model.View())
}

func TestListNavigationClampsAtBounds(t *testing.T) {
	t.Parallel()

	model := sizedModel(t, testEntries())

	// Up on the first row stays put.
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	model = updated.(Model)
	assert.Equal(t, 0, model.cursor)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model = updated.(Model)
	assert.Equal(t, 1, model.cursor)

	// End jumps to the last row; further Down stays.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	model = updated.(Model)
	assert.Equal(t, 2, model.cursor)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model = updated.(Model)
	assert.Equal(t, 2, model.cursor)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	model = updated.(Model)
	assert.Equal(t, 0, model.cursor)
}

func TestFocusToggleSwitchesPane(t *testing.T) {
	t.Parallel()

	model := sizedModel(t, testEntries())

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	assert.Equal(t, FocusDetail, model.focus)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	assert.Equal(t, FocusList, model.focus)
}

func TestQuitKey(t *testing.T) {
	t.Parallel()

	model := sizedModel(t, testEntries())

	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, command)

	_, isQuit := command().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestViewShowsTrialsAndHelp(t *testing.T) {
	t.Parallel()

	model := sizedModel(t, testEntries())
	view := model.View()

	assert.Contains(t, view, "/runs/exp")
	assert.Contains(t, view, "3 trials")
	assert.Contains(t, view, "trial_a")
	assert.Contains(t, view, "trial_b")
	assert.Contains(t, view, "trial_c")
	assert.Contains(t, view, "[LIST]")
	assert.Contains(t, view, "q quit")
	assert.Contains(t, view, "1/3")

	// The detail pane shows the selected trial's metrics.
	assert.Contains(t, view, "Latest metrics")
	assert.Contains(t, view, "loss")
}

func TestViewEmptyState(t *testing.T) {
	t.Parallel()

	model := sizedModel(t, nil)

	assert.Contains(t, model.View(), "No trials found under /runs/exp")
}

func TestRefreshRoundTrip(t *testing.T) {
	t.Parallel()

	dir := fs.NewDir(t, "exp",
		fs.WithDir("trial_a",
			fs.WithFile(trial.MetricsLogName, `{"score": 1}`+"\n"),
		),
	)
	defer dir.Remove()

	model := NewModel(storage.Local{}, dir.Path(), nil)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 24})
	model = updated.(Model)

	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	model = updated.(Model)
	require.NotNil(t, command)
	assert.True(t, model.refreshing)

	done, ok := command().(refreshDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	require.Len(t, done.entries, 1)

	updated, _ = model.Update(done)
	model = updated.(Model)

	assert.False(t, model.refreshing)
	assert.Len(t, model.entries, 1)
	assert.Contains(t, model.View(), "trial_a")
}

func TestRefreshFailureShowsNotice(t *testing.T) {
	t.Parallel()

	model := sizedModel(t, testEntries())

	updated, _ := model.Update(refreshDoneMsg{err: errors.New("experiment dir gone")})
	model = updated.(Model)

	assert.Contains(t, model.View(), "refresh failed: experiment dir gone")

	// Entries survive a failed refresh.
	assert.Len(t, model.entries, 3)
}

func TestRefreshClampsCursor(t *testing.T) {
	t.Parallel()

	model := sizedModel(t, testEntries())

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	model = updated.(Model)
	require.Equal(t, 2, model.cursor)

	updated, _ = model.Update(refreshDoneMsg{entries: testEntries()[:1]})
	model = updated.(Model)

	assert.Equal(t, 0, model.cursor)
}

func TestDetailRenderCleanTrial(t *testing.T) {
	t.Parallel()

	renderer := NewDetailRenderer(DefaultTheme, 80)
	detail := renderer.Render(testEntries()[0])

	assert.Contains(t, detail, "trial_a")
	assert.Contains(t, detail, "/runs/exp/trial_a")
	assert.Contains(t, detail, "Latest metrics")
	assert.Contains(t, detail, "loss")
	assert.Contains(t, detail, "0.3")

	// Config keys move to their own section, prefix stripped.
	assert.Contains(t, detail, "Config")
	assert.Contains(t, detail, "lr")
	assert.NotContains(t, detail, "config/lr")

	assert.Contains(t, detail, "Checkpoints (2)")
	assert.Contains(t, detail, "checkpoint_000001")
	assert.Contains(t, detail, "latest")
	assert.NotContains(t, detail, "Error")
}

func TestDetailRenderFailedTrial(t *testing.T) {
	t.Parallel()

	renderer := NewDetailRenderer(DefaultTheme, 80)
	detail := renderer.Render(testEntries()[1])

	assert.Contains(t, detail, "failed")
	assert.Contains(t, detail, "RuntimeError: worker died")
	assert.Contains(t, detail, "train_loop()")
	assert.Contains(t, detail, "Checkpoints (0)")
	assert.Contains(t, detail, "none")
}

func TestDetailRenderBrokenTrial(t *testing.T) {
	t.Parallel()

	renderer := NewDetailRenderer(DefaultTheme, 80)
	detail := renderer.Render(testEntries()[2])

	assert.Contains(t, detail, "Restore error")
	assert.Contains(t, detail, "missing metrics log")
	assert.NotContains(t, detail, "Checkpoints")
}

func TestListRowCountsAndTruncation(t *testing.T) {
	t.Parallel()

	entries := testEntries()
	renderer := NewListRenderer(DefaultTheme, 40)

	row := renderer.RenderRow(entries[0], false)
	assert.Contains(t, row, "trial_a")
	assert.Contains(t, row, "2it 2ck")

	broken := renderer.RenderRow(entries[2], false)
	assert.Contains(t, broken, "-")

	long := experiment.Entry{
		Trial:  experiment.Trial{Name: strings.Repeat("verylongname", 8)},
		Result: entries[0].Result,
	}

	narrow := NewListRenderer(DefaultTheme, 24)
	assert.Contains(t, narrow.RenderRow(long, false), "…")
}

func TestStatusWord(t *testing.T) {
	t.Parallel()

	entries := testEntries()

	word, _ := statusWord(entries[0], DefaultTheme)
	assert.Equal(t, "ok", word)

	word, _ = statusWord(entries[1], DefaultTheme)
	assert.Equal(t, "failed", word)

	word, _ = statusWord(entries[2], DefaultTheme)
	assert.Equal(t, "error", word)
}
