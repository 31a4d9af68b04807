package trial

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/trialscope/trialscope/pkg/storage"
)

// scanCheckpoints lists the immediate checkpoint directories of the trial
// root in lexicographic name order. Producers zero-pad indexes to a fixed
// width, so that order is the numeric one; mixed widths are surfaced by
// the lint checks rather than silently reordered here.
func scanCheckpoints(ctx context.Context, fsys storage.Filesystem, root string) ([]Checkpoint, error) {
	entries, err := fsys.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list trial dir: %w", err)
	}

	var cps []Checkpoint

	for _, e := range entries {
		if !e.IsDir || !strings.HasPrefix(e.Name, CheckpointPrefix) {
			continue
		}

		cps = append(cps, Checkpoint{FS: fsys, Path: storage.Join(root, e.Name)})
	}

	sort.Slice(cps, func(i, j int) bool {
		return cps[i].Name() < cps[j].Name()
	})

	return cps, nil
}

// IsTrialDir reports whether dir looks like a trial root: it carries a
// metrics log in either format or at least one checkpoint directory.
func IsTrialDir(ctx context.Context, fsys storage.Filesystem, dir string) (bool, error) {
	for _, base := range []string{MetricsLogName, ProgressLogName} {
		_, ok, err := findArtifact(ctx, fsys, dir, base)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}

	cps, err := scanCheckpoints(ctx, fsys, dir)
	if err != nil {
		return false, err
	}

	return len(cps) > 0, nil
}
