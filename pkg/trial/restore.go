// Package trial restores the outcome of completed training trials from
// their run directories: the metrics series, the persisted checkpoints
// with their correlated metrics, and the terminal error state, assembled
// into one immutable Result.
package trial

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trialscope/trialscope/pkg/storage"
)

// CorrelationKey is the snapshot key whose value names the checkpoint
// directory a metrics row was reported together with.
const CorrelationKey = "checkpoint_dir_name"

// Restorer loads completed trials from storage. The zero value resolves
// the filesystem from the path and logs diagnostics through slog.Default.
type Restorer struct {
	// FS overrides filesystem resolution when set; the path is then taken
	// as already filesystem-relative.
	FS storage.Filesystem

	// Logger receives non-fatal restoration diagnostics.
	Logger *slog.Logger
}

// Restore is shorthand for a zero Restorer restoring pathOrURI.
func Restore(ctx context.Context, pathOrURI string) (*Result, error) {
	return Restorer{}.Restore(ctx, pathOrURI)
}

// Restore loads the trial rooted at pathOrURI. It fails as a whole on the
// first fatal problem: a missing root, no metrics log in either format, an
// unreadable artifact. Checkpoints without a correlated metrics row are
// kept with empty metrics and logged.
func (r Restorer) Restore(ctx context.Context, pathOrURI string) (*Result, error) {
	fsys := r.FS
	root := pathOrURI

	if fsys == nil {
		var err error

		fsys, root, err = storage.Resolve(pathOrURI)
		if err != nil {
			return nil, err
		}
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ok, err := fsys.Exists(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("probe trial dir: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTrialPath, pathOrURI)
	}

	history, histErr := readMetricsLog(ctx, fsys, root)
	if histErr != nil {
		return nil, histErr
	}

	checkpoints, scanErr := scanCheckpoints(ctx, fsys, root)
	if scanErr != nil {
		return nil, scanErr
	}

	records := correlate(history, checkpoints, logger)

	errRec, loadErr := loadErrorRecord(ctx, fsys, root)
	if loadErr != nil {
		return nil, loadErr
	}

	res := &Result{
		Path:        root,
		FS:          fsys,
		Metrics:     history.Latest(),
		History:     history,
		Checkpoints: records,
		Error:       errRec,
	}

	if n := len(records); n > 0 {
		res.Checkpoint = &records[n-1].Checkpoint
	}

	return res, nil
}

// correlate pairs each checkpoint with the last metrics row naming it
// through the correlation key. Rows overwrite earlier ones for the same
// checkpoint, so re-reported checkpoints keep their freshest metrics.
func correlate(history History, checkpoints []Checkpoint, logger *slog.Logger) []CheckpointRecord {
	lastRow := make(map[string]Snapshot)

	for _, snap := range history {
		v, ok := snap.Lookup(CorrelationKey)
		if !ok {
			continue
		}

		name, isText := v.Str()
		if isText {
			lastRow[name] = snap
		}
	}

	records := make([]CheckpointRecord, 0, len(checkpoints))

	for _, cp := range checkpoints {
		metrics, found := lastRow[cp.Name()]
		if !found {
			logger.Warn("checkpoint has no correlated metrics row, keeping it with empty metrics",
				slog.String("checkpoint", cp.Name()),
				slog.String("correlation_key", CorrelationKey))
		}

		records = append(records, CheckpointRecord{Checkpoint: cp, Metrics: metrics})
	}

	return records
}
