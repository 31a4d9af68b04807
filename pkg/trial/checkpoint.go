package trial

import (
	"path"
	"strconv"
	"strings"

	"github.com/trialscope/trialscope/pkg/storage"
)

// CheckpointPrefix names persisted checkpoint directories under a trial
// root. The producer appends a fixed-width, zero-padded index.
const CheckpointPrefix = "checkpoint_"

// Checkpoint is an opaque handle to one persisted checkpoint directory.
// Restoration never reads its contents; consumers hand the path to
// whatever framework wrote it.
type Checkpoint struct {
	FS   storage.Filesystem
	Path string
}

// Name returns the checkpoint's directory name.
func (c Checkpoint) Name() string {
	return path.Base(c.Path)
}

// CheckpointRecord pairs a checkpoint with the metrics row reported for
// it. A checkpoint no row named carries an empty snapshot.
type CheckpointRecord struct {
	Checkpoint Checkpoint
	Metrics    Snapshot
}

// ParseCheckpointIndex extracts the numeric index and zero-padded width
// from a checkpoint directory name. Names without an all-digit suffix
// report ok false.
func ParseCheckpointIndex(name string) (index, width int, ok bool) {
	suffix, found := strings.CutPrefix(name, CheckpointPrefix)
	if !found || suffix == "" {
		return 0, 0, false
	}

	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, 0, false
		}
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, 0, false
	}

	return n, len(suffix), true
}
