package trial

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trialscope/trialscope/pkg/storage"
)

// ErrorFileName is the structured failure envelope a failed trial leaves
// at its root. Absence of the file means the trial finished cleanly.
const ErrorFileName = "error.json"

// ErrorRecord is the terminal failure envelope of a trial.
type ErrorRecord struct {
	Kind    string `json:"kind"    yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	Trace   string `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// String renders the record as a one-line summary.
func (e ErrorRecord) String() string {
	if e.Kind == "" {
		return e.Message
	}

	return e.Kind + ": " + e.Message
}

// loadErrorRecord reads the trial's error envelope. A missing file yields
// a nil record; a present but undecodable file fails the restoration.
func loadErrorRecord(ctx context.Context, fsys storage.Filesystem, root string) (*ErrorRecord, error) {
	p := storage.Join(root, ErrorFileName)

	ok, err := fsys.Exists(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", ErrorFileName, err)
	}

	if !ok {
		return nil, nil
	}

	rc, openErr := fsys.Open(ctx, p)
	if openErr != nil {
		return nil, fmt.Errorf("open %s: %w", ErrorFileName, openErr)
	}

	defer rc.Close()

	var rec ErrorRecord

	decodeErr := json.NewDecoder(rc).Decode(&rec)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s: %w", ErrorFileName, decodeErr)
	}

	return &rec, nil
}
