package commands_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/trialscope/trialscope/cmd/trialscope/commands"
)

// experimentDir lays out an experiment root with one healthy trial and
// one trial that has a checkpoint but no metrics log, so restoring it
// fails.
func experimentDir(t *testing.T) *fs.Dir {
	t.Helper()

	return fs.NewDir(t, "exp",
		fs.WithDir("trial_a",
			fs.WithFile("result.json", cleanResultLog),
			fs.WithDir("checkpoint_000000", fs.WithFile("weights.bin", "w0")),
			fs.WithDir("checkpoint_000001", fs.WithFile("weights.bin", "w1")),
		),
		fs.WithDir("trial_b",
			fs.WithDir("checkpoint_000000", fs.WithFile("weights.bin", "w0")),
		),
	)
}

func TestLsCommand_Table(t *testing.T) {
	t.Parallel()

	dir := experimentDir(t)
	defer dir.Remove()

	out, err := execute(t, commands.NewLsCommand(plainGlobals()), dir.Path())
	require.NoError(t, err)

	assert.Contains(t, out, "trial_a")
	assert.Contains(t, out, "trial_b")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "restore failed")
}

func TestLsCommand_JSON(t *testing.T) {
	t.Parallel()

	dir := experimentDir(t)
	defer dir.Remove()

	out, err := execute(t, commands.NewLsCommand(plainGlobals()), "--format", "json", dir.Path())
	require.NoError(t, err)

	var docs []map[string]any

	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)

	assert.Equal(t, "trial_a", docs[0]["name"])
	assert.Equal(t, "ok", docs[0]["status"])
	assert.EqualValues(t, 2, docs[0]["iterations"])

	assert.Equal(t, "trial_b", docs[1]["name"])
	assert.Contains(t, docs[1]["status"], "restore failed")
}

func TestLsCommand_MetricColumn(t *testing.T) {
	t.Parallel()

	dir := experimentDir(t)
	defer dir.Remove()

	out, err := execute(t, commands.NewLsCommand(plainGlobals()), "--metric", "loss", dir.Path())
	require.NoError(t, err)

	assert.Contains(t, out, "LOSS")
	assert.Contains(t, out, "0.25")
}
