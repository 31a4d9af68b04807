package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// DirDigest returns the hex BLAKE3 digest of a directory tree. Files are
// hashed in listing order; each contributes its root-relative path and its
// content, separated by NUL bytes, so renames and edits both change the
// digest.
func DirDigest(ctx context.Context, fsys Filesystem, root string) (string, error) {
	hasher := blake3.New()

	err := hashDir(ctx, fsys, root, "", hasher)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func hashDir(ctx context.Context, fsys Filesystem, root, rel string, hasher *blake3.Hasher) error {
	entries, err := fsys.List(ctx, Join(root, rel))
	if err != nil {
		return err
	}

	for _, e := range entries {
		entryRel := e.Name
		if rel != "" {
			entryRel = rel + "/" + e.Name
		}

		if e.IsDir {
			subErr := hashDir(ctx, fsys, root, entryRel, hasher)
			if subErr != nil {
				return subErr
			}

			continue
		}

		fileErr := hashFile(ctx, fsys, Join(root, entryRel), entryRel, hasher)
		if fileErr != nil {
			return fileErr
		}
	}

	return nil
}

func hashFile(ctx context.Context, fsys Filesystem, p, rel string, hasher *blake3.Hasher) error {
	_, _ = hasher.WriteString(rel)
	_, _ = hasher.Write([]byte{0})

	rc, err := fsys.Open(ctx, p)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}

	_, copyErr := io.Copy(hasher, rc)
	closeErr := rc.Close()

	if copyErr != nil {
		return fmt.Errorf("hash %s: %w", p, copyErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", p, closeErr)
	}

	_, _ = hasher.Write([]byte{0})

	return nil
}
