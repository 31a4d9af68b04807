package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/internal/render"
)

func TestParseFormat_KnownFormats(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"table", "json", "yaml", "cbor", "markdown"} {
		got, err := render.ParseFormat(name)
		require.NoError(t, err, "format %q", name)
		assert.Equal(t, render.Format(name), got)
	}
}

func TestParseFormat_Unknown_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := render.ParseFormat("xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "table, json, yaml, cbor, markdown")
}

func TestParseFormat_Empty_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := render.ParseFormat("")
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
}
