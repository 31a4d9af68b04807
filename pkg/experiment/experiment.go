// Package experiment discovers and restores the trials under an experiment
// root directory.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/trialscope/trialscope/pkg/storage"
	"github.com/trialscope/trialscope/pkg/trial"
)

// Trial names one trial directory under an experiment root.
type Trial struct {
	Name string
	Path string
}

// Entry pairs a discovered trial with its restored result. Err carries a
// per-trial restoration failure so one broken trial does not hide the
// rest of the experiment.
type Entry struct {
	Trial  Trial
	Result *trial.Result
	Err    error
}

// List returns the trials under root in name order. A subdirectory counts
// as a trial when it carries a metrics log in either format or at least
// one checkpoint directory.
func List(ctx context.Context, fsys storage.Filesystem, root string) ([]Trial, error) {
	ok, err := fsys.Exists(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("probe experiment dir: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("experiment dir %s does not exist", root)
	}

	entries, err := fsys.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list experiment dir: %w", err)
	}

	var trials []Trial

	for _, e := range entries {
		if !e.IsDir {
			continue
		}

		dir := storage.Join(root, e.Name)

		isTrial, probeErr := trial.IsTrialDir(ctx, fsys, dir)
		if probeErr != nil {
			return nil, probeErr
		}

		if isTrial {
			trials = append(trials, Trial{Name: e.Name, Path: dir})
		}
	}

	sort.Slice(trials, func(i, j int) bool {
		return trials[i].Name < trials[j].Name
	})

	return trials, nil
}

// Load restores every trial under root. Restoration failures stay on the
// entry rather than failing the whole experiment.
func Load(ctx context.Context, fsys storage.Filesystem, root string, logger *slog.Logger) ([]Entry, error) {
	trials, err := List(ctx, fsys, root)
	if err != nil {
		return nil, err
	}

	restorer := trial.Restorer{FS: fsys, Logger: logger}

	entries := make([]Entry, 0, len(trials))

	for _, tr := range trials {
		res, restoreErr := restorer.Restore(ctx, tr.Path)

		entries = append(entries, Entry{Trial: tr, Result: res, Err: restoreErr})
	}

	return entries, nil
}
