package trial

import "errors"

// Sentinel errors for trial restoration and checkpoint selection. All of
// them are fatal to the operation that returns them; the only non-fatal
// condition, a checkpoint without a correlated metrics row, is reported
// through the restorer's logger instead.
var (
	// ErrInvalidTrialPath reports a trial root that does not exist.
	ErrInvalidTrialPath = errors.New("invalid trial path")

	// ErrMissingMetricsLog reports a trial root with neither the primary
	// nor the fallback metrics log.
	ErrMissingMetricsLog = errors.New("missing metrics log")

	// ErrNoCheckpoints reports a best-checkpoint query against a trial
	// that persisted no checkpoints.
	ErrNoCheckpoints = errors.New("no checkpoints available")

	// ErrInvalidMode reports a selection mode other than min or max.
	ErrInvalidMode = errors.New("invalid selection mode")

	// ErrUnknownMetric reports a metric key absent from every correlated
	// checkpoint snapshot.
	ErrUnknownMetric = errors.New("unknown metric")
)
