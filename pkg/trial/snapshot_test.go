package trial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSnapshotSetKeepsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	var s Snapshot

	s.Set("z", Number(1))
	s.Set("a", Number(2))
	s.Set("m", Text("x"))

	assert.Equal(t, []string{"z", "a", "m"}, s.Keys())
	assert.Equal(t, 3, s.Len())
}

func TestSnapshotOverwriteKeepsPosition(t *testing.T) {
	t.Parallel()

	var s Snapshot

	s.Set("a", Number(1))
	s.Set("b", Number(2))
	s.Set("a", Number(3))

	assert.Equal(t, []string{"a", "b"}, s.Keys())

	v, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, Number(3), v)
}

func TestSnapshotLookupMissing(t *testing.T) {
	t.Parallel()

	var s Snapshot

	_, ok := s.Lookup("absent")
	assert.False(t, ok)
}

func TestSnapshotEqual(t *testing.T) {
	t.Parallel()

	var a, b, c Snapshot

	a.Set("x", Number(1))
	a.Set("y", Text("t"))

	b.Set("x", Number(1))
	b.Set("y", Text("t"))

	// Same pairs, different order.
	c.Set("y", Text("t"))
	c.Set("x", Number(1))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSnapshotSub(t *testing.T) {
	t.Parallel()

	var s Snapshot

	s.Set("config/lr", Number(0.01))
	s.Set("config/sched/kind", Text("cosine"))
	s.Set("loss", Number(0.5))

	cfg := s.Sub("config")

	assert.Equal(t, []string{"lr", "sched/kind"}, cfg.Keys())

	lr, ok := cfg.Lookup("lr")
	require.True(t, ok)
	assert.Equal(t, Number(0.01), lr)
}

func TestSnapshotMarshalJSONOrdered(t *testing.T) {
	t.Parallel()

	var s Snapshot

	s.Set("z", Number(1))
	s.Set("a", Text("v"))
	s.Set("ok", Bool(true))

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"v","ok":true}`, string(raw))
}

func TestSnapshotMarshalYAMLOrdered(t *testing.T) {
	t.Parallel()

	var s Snapshot

	s.Set("z", Number(1))
	s.Set("a", Text("v"))

	raw, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na: v\n", string(raw))
}

func TestHistoryLatest(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, History{}.Latest().Len())

	var first, second Snapshot

	first.Set("i", Number(0))
	second.Set("i", Number(1))

	h := History{first, second}

	v, ok := h.Latest().Lookup("i")
	require.True(t, ok)
	assert.Equal(t, Number(1), v)
}

func TestHistoryColumns(t *testing.T) {
	t.Parallel()

	var first, second Snapshot

	first.Set("loss", Number(1))
	second.Set("loss", Number(0.5))
	second.Set("acc", Number(0.9))

	assert.Equal(t, []string{"loss", "acc"}, History{first, second}.Columns())
}
