// Package storage abstracts read-only access to trial artifacts. Restoration
// code goes through the Filesystem interface instead of the os package, so
// trials can live on any backend a driver is registered for. Plain paths and
// file:// URIs resolve to the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"
)

// ErrUnsupportedScheme reports a location URI whose scheme has no registered
// driver.
var ErrUnsupportedScheme = errors.New("unsupported storage scheme")

// DirEntry describes one entry of a directory listing. Size is zero for
// directories.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Filesystem is the read-only surface trial restoration needs from a storage
// backend.
type Filesystem interface {
	// Exists reports whether path names an existing file or directory.
	Exists(ctx context.Context, path string) (bool, error)

	// Open opens the file at path for reading.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// List returns the immediate entries of the directory at path.
	List(ctx context.Context, path string) ([]DirEntry, error)
}

// Opener constructs a Filesystem for a URI of a registered scheme and
// returns the path within that filesystem.
type Opener func(u *url.URL) (Filesystem, string, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Opener)
)

// Register makes a Filesystem driver available under the given URI scheme.
// It panics if the scheme is already taken.
func Register(scheme string, open Opener) {
	driversMu.Lock()
	defer driversMu.Unlock()

	_, dup := drivers[scheme]
	if dup {
		panic("storage: Register called twice for scheme " + scheme)
	}

	drivers[scheme] = open
}

// Resolve maps a raw location to the Filesystem serving it and the path
// within that filesystem. Strings without a scheme are local paths.
func Resolve(raw string) (Filesystem, string, error) {
	if !strings.Contains(raw, "://") {
		return Local{}, raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse storage URI: %w", err)
	}

	if u.Scheme == "file" {
		return Local{}, u.Path, nil
	}

	driversMu.RLock()
	open, ok := drivers[u.Scheme]
	driversMu.RUnlock()

	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	return open(u)
}

// Join joins path elements with slashes. Filesystem implementations accept
// slash-separated paths regardless of platform.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// DirSize returns the total size in bytes of every file under root.
func DirSize(ctx context.Context, fsys Filesystem, root string) (int64, error) {
	entries, err := fsys.List(ctx, root)
	if err != nil {
		return 0, err
	}

	var total int64

	for _, e := range entries {
		if !e.IsDir {
			total += e.Size
			continue
		}

		sub, subErr := DirSize(ctx, fsys, Join(root, e.Name))
		if subErr != nil {
			return 0, subErr
		}

		total += sub
	}

	return total, nil
}
