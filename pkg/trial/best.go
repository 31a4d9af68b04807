package trial

import (
	"fmt"
	"strings"
)

// Mode selects the optimization direction of a best-checkpoint query.
type Mode string

// Selection modes.
const (
	ModeMin Mode = "min"
	ModeMax Mode = "max"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMin, ModeMax:
		return Mode(s), nil
	}

	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMode, s, ModeMin, ModeMax)
}

// BestCheckpoint returns the checkpoint whose correlated metrics hold the
// extremal value of metric under mode. Checkpoints that never reported the
// metric are skipped; ties keep the earliest checkpoint in directory
// order. A metric no checkpoint reported yields ErrUnknownMetric naming
// the known metric keys.
func (r *Result) BestCheckpoint(metric string, mode Mode) (CheckpointRecord, error) {
	if mode != ModeMin && mode != ModeMax {
		return CheckpointRecord{}, fmt.Errorf("%w: %q (want %q or %q)",
			ErrInvalidMode, string(mode), ModeMin, ModeMax)
	}

	if len(r.Checkpoints) == 0 {
		return CheckpointRecord{}, fmt.Errorf("%w: trial at %s persisted none",
			ErrNoCheckpoints, r.Path)
	}

	best := -1

	var bestVal Value

	for i, rec := range r.Checkpoints {
		v, ok := rec.Metrics.Lookup(metric)
		if !ok {
			continue
		}

		if best == -1 {
			best, bestVal = i, v

			continue
		}

		betterMax := mode == ModeMax && bestVal.Less(v)
		betterMin := mode == ModeMin && v.Less(bestVal)

		if betterMax || betterMin {
			best, bestVal = i, v
		}
	}

	if best == -1 {
		return CheckpointRecord{}, fmt.Errorf("%w: %q was never reported, known metrics: %s",
			ErrUnknownMetric, metric, strings.Join(r.Metrics.Keys(), ", "))
	}

	return r.Checkpoints[best], nil
}
