package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the wire compression of an artifact.
type Compression int

// Compressions recognized by extension.
const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

// CompressionFor returns the compression implied by the path's extension.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".zst"):
		return CompressionZstd
	case strings.HasSuffix(path, ".lz4"):
		return CompressionLZ4
	}

	return CompressionNone
}

// OpenDecoded opens the file at path and transparently decompresses it
// based on its extension. Unrecognized extensions pass through unchanged.
func OpenDecoded(ctx context.Context, fsys Filesystem, path string) (io.ReadCloser, error) {
	rc, err := fsys.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	switch CompressionFor(path) {
	case CompressionGzip:
		zr, gzErr := gzip.NewReader(rc)
		if gzErr != nil {
			rc.Close()

			return nil, fmt.Errorf("gzip reader for %s: %w", path, gzErr)
		}

		return &decodedReader{Reader: zr, closers: []io.Closer{zr, rc}}, nil

	case CompressionZstd:
		dec, zstdErr := zstd.NewReader(rc)
		if zstdErr != nil {
			rc.Close()

			return nil, fmt.Errorf("zstd reader for %s: %w", path, zstdErr)
		}

		closeDec := closerFunc(func() error {
			dec.Close()

			return nil
		})

		return &decodedReader{Reader: dec, closers: []io.Closer{closeDec, rc}}, nil

	case CompressionLZ4:
		return &decodedReader{Reader: lz4.NewReader(rc), closers: []io.Closer{rc}}, nil
	}

	return rc, nil
}

// decodedReader reads through a decompressor and closes the whole chain.
type decodedReader struct {
	io.Reader
	closers []io.Closer
}

func (d *decodedReader) Close() error {
	var firstErr error

	for _, c := range d.closers {
		err := c.Close()
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
