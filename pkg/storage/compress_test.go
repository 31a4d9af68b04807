package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Compression
	}{
		{"result.json", CompressionNone},
		{"result.json.gz", CompressionGzip},
		{"result.json.zst", CompressionZstd},
		{"progress.csv.lz4", CompressionLZ4},
		{"archive.tar", CompressionNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CompressionFor(tt.path), tt.path)
	}
}

func TestOpenDecodedPassthrough(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "plain.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"a":1}`), 0o600))

	rc, err := OpenDecoded(context.Background(), Local{}, file)
	require.NoError(t, err)

	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestOpenDecodedGzip(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"loss":0.25,"step":3}`)

	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	assertDecodes(t, "log.json.gz", buf.Bytes(), payload)
}

func TestOpenDecodedZstd(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"loss":0.5}`)

	var buf bytes.Buffer

	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	assertDecodes(t, "log.json.zst", buf.Bytes(), payload)
}

func TestOpenDecodedLZ4(t *testing.T) {
	t.Parallel()

	payload := []byte(`step,loss` + "\n" + `1,0.9`)

	var buf bytes.Buffer

	lw := lz4.NewWriter(&buf)
	_, err := lw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	assertDecodes(t, "progress.csv.lz4", buf.Bytes(), payload)
}

func TestOpenDecodedCorruptGzip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "bad.json.gz")
	require.NoError(t, os.WriteFile(file, []byte("not gzip"), 0o600))

	_, err := OpenDecoded(context.Background(), Local{}, file)
	require.Error(t, err)
}

// assertDecodes writes encoded under name in a temp dir and checks that
// OpenDecoded yields want.
func assertDecodes(t *testing.T, name string, encoded, want []byte) {
	t.Helper()

	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, encoded, 0o600))

	rc, err := OpenDecoded(context.Background(), Local{}, file)
	require.NoError(t, err)

	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
