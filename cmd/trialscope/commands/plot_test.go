package commands_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/cmd/trialscope/commands"
)

func TestPlotCommand_WritesPage(t *testing.T) {
	t.Parallel()

	dir := cleanTrialDir(t)
	defer dir.Remove()

	outPath := dir.Join("metrics.html")

	_, err := execute(t, commands.NewPlotCommand(plainGlobals()),
		"-o", outPath, dir.Path())
	require.NoError(t, err)

	page, readErr := os.ReadFile(outPath)
	require.NoError(t, readErr)

	html := string(page)
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "loss")
	assert.Contains(t, html, "acc")
}

func TestPlotCommand_MetricsFilter(t *testing.T) {
	t.Parallel()

	dir := cleanTrialDir(t)
	defer dir.Remove()

	outPath := dir.Join("loss.html")

	_, err := execute(t, commands.NewPlotCommand(plainGlobals()),
		"-o", outPath, "--metrics", "loss", dir.Path())
	require.NoError(t, err)

	page, readErr := os.ReadFile(outPath)
	require.NoError(t, readErr)

	html := string(page)
	assert.Contains(t, html, `"loss"`)
	assert.NotContains(t, html, `"acc"`)
}

func TestPlotCommand_RequiresOutput(t *testing.T) {
	t.Parallel()

	dir := cleanTrialDir(t)
	defer dir.Remove()

	_, err := execute(t, commands.NewPlotCommand(plainGlobals()), dir.Path())
	require.Error(t, err)
	assert.ErrorContains(t, err, "output")
}
