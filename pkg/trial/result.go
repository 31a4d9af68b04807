package trial

import "github.com/trialscope/trialscope/pkg/storage"

// ConfigPrefix is the flattened-key prefix under which trials report their
// run configuration.
const ConfigPrefix = "config"

// Result is the immutable outcome of a completed trial. Every artifact
// read happens during restoration; a Result never touches storage again.
type Result struct {
	// Path is the trial root within FS.
	Path string

	// FS is the filesystem the trial was restored from.
	FS storage.Filesystem

	// Metrics is the latest reported snapshot.
	Metrics Snapshot

	// History is the full metrics series in reported order.
	History History

	// Checkpoints pairs every persisted checkpoint with its correlated
	// metrics, in checkpoint order.
	Checkpoints []CheckpointRecord

	// Checkpoint is the latest persisted checkpoint, nil when none exist.
	Checkpoint *Checkpoint

	// Error is the terminal failure envelope, nil for clean runs.
	Error *ErrorRecord
}

// OK reports whether the trial finished without a terminal error.
func (r *Result) OK() bool { return r.Error == nil }

// Config returns the trial's reported run configuration: the latest
// snapshot's keys under the config prefix, prefix stripped.
func (r *Result) Config() Snapshot {
	return r.Metrics.Sub(ConfigPrefix)
}

// Metric returns the latest reported value for key.
func (r *Result) Metric(key string) (Value, bool) {
	return r.Metrics.Lookup(key)
}
