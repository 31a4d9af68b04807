package commands_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/cmd/trialscope/commands"
)

func TestHistoryCommand_Table(t *testing.T) {
	t.Parallel()

	dir := cleanTrialDir(t)
	defer dir.Remove()

	out, err := execute(t, commands.NewHistoryCommand(plainGlobals()), dir.Path())
	require.NoError(t, err)

	assert.Contains(t, out, "LOSS")
	assert.Contains(t, out, "0.5")
	assert.Contains(t, out, "0.25")
}

func TestHistoryCommand_JSONTail(t *testing.T) {
	t.Parallel()

	dir := cleanTrialDir(t)
	defer dir.Remove()

	out, err := execute(t, commands.NewHistoryCommand(plainGlobals()),
		"--tail", "1", "--format", "json", dir.Path())
	require.NoError(t, err)

	var doc struct {
		Path  string           `json:"path"`
		Total int              `json:"total_rows"`
		Rows  []map[string]any `json:"rows"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, dir.Path(), doc.Path)
	assert.Equal(t, 2, doc.Total)
	require.Len(t, doc.Rows, 1)
	assert.InEpsilon(t, 0.8, doc.Rows[0]["acc"], 1e-9)
}

func TestHistoryCommand_Columns(t *testing.T) {
	t.Parallel()

	dir := cleanTrialDir(t)
	defer dir.Remove()

	out, err := execute(t, commands.NewHistoryCommand(plainGlobals()),
		"--columns", "loss", "--format", "json", dir.Path())
	require.NoError(t, err)

	var doc struct {
		Rows []map[string]any `json:"rows"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Rows, 2)
	assert.Contains(t, doc.Rows[0], "loss")
	assert.NotContains(t, doc.Rows[0], "acc")
}
