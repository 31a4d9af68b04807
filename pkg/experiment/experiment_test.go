package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/trialscope/trialscope/pkg/storage"
)

func newExperimentDir(t *testing.T) *fs.Dir {
	t.Helper()

	return fs.NewDir(t, "experiment",
		fs.WithDir("trial_b",
			fs.WithFile("result.json", `{"score": 2, "checkpoint_dir_name": "checkpoint_000000"}`+"\n"),
			fs.WithDir("checkpoint_000000"),
		),
		fs.WithDir("trial_a",
			fs.WithFile("progress.csv", "score\n1\n"),
		),
		fs.WithDir("trial_failed",
			fs.WithFile("result.json", `{"score": 0}`+"\n"),
			fs.WithFile("error.json", `{"kind": "OOM", "message": "out of memory"}`),
		),
		// Not trials: no logs, no checkpoints.
		fs.WithDir("tensorboard"),
		fs.WithFile("experiment_state.json", "{}"),
	)
}

func TestList(t *testing.T) {
	t.Parallel()

	dir := newExperimentDir(t)
	defer dir.Remove()

	trials, err := List(context.Background(), storage.Local{}, dir.Path())
	require.NoError(t, err)

	names := make([]string, 0, len(trials))
	for _, tr := range trials {
		names = append(names, tr.Name)
	}

	assert.Equal(t, []string{"trial_a", "trial_b", "trial_failed"}, names)
}

func TestListMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := List(context.Background(), storage.Local{}, t.TempDir()+"/gone")
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := newExperimentDir(t)
	defer dir.Remove()

	entries, err := Load(context.Background(), storage.Local{}, dir.Path(), nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Trial.Name] = e
	}

	require.NoError(t, byName["trial_b"].Err)
	require.NotNil(t, byName["trial_b"].Result)
	assert.Len(t, byName["trial_b"].Result.Checkpoints, 1)

	require.NoError(t, byName["trial_failed"].Err)
	require.NotNil(t, byName["trial_failed"].Result.Error)
	assert.Equal(t, "OOM", byName["trial_failed"].Result.Error.Kind)
}
