package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

func TestDirDigestStableAcrossRuns(t *testing.T) {
	t.Parallel()

	dir := fs.NewDir(t, "ckpt",
		fs.WithFile("weights.bin", "abc"),
		fs.WithDir("sub", fs.WithFile("state.json", "{}")),
	)
	defer dir.Remove()

	first, err := DirDigest(context.Background(), Local{}, dir.Path())
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := DirDigest(context.Background(), Local{}, dir.Path())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDirDigestChangesWithContent(t *testing.T) {
	t.Parallel()

	a := fs.NewDir(t, "ckpt", fs.WithFile("weights.bin", "abc"))
	defer a.Remove()

	b := fs.NewDir(t, "ckpt", fs.WithFile("weights.bin", "abd"))
	defer b.Remove()

	digestA, err := DirDigest(context.Background(), Local{}, a.Path())
	require.NoError(t, err)

	digestB, err := DirDigest(context.Background(), Local{}, b.Path())
	require.NoError(t, err)

	assert.NotEqual(t, digestA, digestB)
}

func TestDirDigestChangesWithRename(t *testing.T) {
	t.Parallel()

	a := fs.NewDir(t, "ckpt", fs.WithFile("weights.bin", "abc"))
	defer a.Remove()

	b := fs.NewDir(t, "ckpt", fs.WithFile("model.bin", "abc"))
	defer b.Remove()

	digestA, err := DirDigest(context.Background(), Local{}, a.Path())
	require.NoError(t, err)

	digestB, err := DirDigest(context.Background(), Local{}, b.Path())
	require.NoError(t, err)

	assert.NotEqual(t, digestA, digestB)
}

func TestDirDigestMissingDir(t *testing.T) {
	t.Parallel()

	_, err := DirDigest(context.Background(), Local{}, "/no/such/dir")
	require.Error(t, err)
}
