package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlainPath(t *testing.T) {
	t.Parallel()

	fsys, path, err := Resolve("/runs/trial_0001")
	require.NoError(t, err)
	assert.Equal(t, Local{}, fsys)
	assert.Equal(t, "/runs/trial_0001", path)
}

func TestResolveFileURI(t *testing.T) {
	t.Parallel()

	fsys, path, err := Resolve("file:///runs/trial_0001")
	require.NoError(t, err)
	assert.Equal(t, Local{}, fsys)
	assert.Equal(t, "/runs/trial_0001", path)
}

func TestResolveUnknownScheme(t *testing.T) {
	t.Parallel()

	_, _, err := Resolve("s3://bucket/trial")
	require.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestResolveRegisteredScheme(t *testing.T) {
	t.Parallel()

	Register("memtest", func(u *url.URL) (Filesystem, string, error) {
		return Local{}, "/mapped" + u.Path, nil
	})

	fsys, path, err := Resolve("memtest://host/trial_7")
	require.NoError(t, err)
	assert.Equal(t, Local{}, fsys)
	assert.Equal(t, "/mapped/trial_7", path)
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "root/checkpoint_000002", Join("root", "checkpoint_000002"))
	assert.Equal(t, "/runs/t/result.json", Join("/runs/t", "result.json"))
}

func TestDirSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 10), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.bin"), make([]byte, 32), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "deep", "c.bin"), make([]byte, 100), 0o600))

	total, err := DirSize(context.Background(), Local{}, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(142), total)
}

func TestDirSizeMissingDir(t *testing.T) {
	t.Parallel()

	_, err := DirSize(context.Background(), Local{}, filepath.Join(t.TempDir(), "gone"))
	require.Error(t, err)
}
