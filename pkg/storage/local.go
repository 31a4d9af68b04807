package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Local serves paths from the host filesystem.
type Local struct{}

// Exists reports whether path names an existing file or directory.
func (Local) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat %s: %w", path, err)
}

// Open opens the file at path for reading.
func (Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return f, nil
}

// List returns the immediate entries of the directory at path.
func (Local) List(_ context.Context, path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}

	out := make([]DirEntry, 0, len(entries))

	for _, e := range entries {
		de := DirEntry{Name: e.Name(), IsDir: e.IsDir()}

		if !e.IsDir() {
			info, infoErr := e.Info()
			if infoErr == nil {
				de.Size = info.Size()
			}
		}

		out = append(out, de)
	}

	return out, nil
}
