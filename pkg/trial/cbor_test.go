package trial_test

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/pkg/trial"
)

func TestSnapshotMarshalCBOR_RoundTrips(t *testing.T) {
	t.Parallel()

	var snap trial.Snapshot
	snap.Set("loss", trial.Number(0.25))
	snap.Set("optimizer", trial.Text("adam"))
	snap.Set("done", trial.Bool(true))

	data, err := cbor.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, cbor.Unmarshal(data, &decoded))

	assert.InDelta(t, 0.25, decoded["loss"], 0.0001)
	assert.Equal(t, "adam", decoded["optimizer"])
	assert.Equal(t, true, decoded["done"])
}

func TestSnapshotMarshalCBOR_Deterministic(t *testing.T) {
	t.Parallel()

	build := func(reversed bool) trial.Snapshot {
		var snap trial.Snapshot
		if reversed {
			snap.Set("b", trial.Number(2))
			snap.Set("a", trial.Number(1))
		} else {
			snap.Set("a", trial.Number(1))
			snap.Set("b", trial.Number(2))
		}

		return snap
	}

	first, err := cbor.Marshal(build(false))
	require.NoError(t, err)

	second, err := cbor.Marshal(build(true))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
