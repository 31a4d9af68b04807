package trial

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/trialscope/trialscope/pkg/flatten"
	"github.com/trialscope/trialscope/pkg/storage"
)

// Metrics log artifacts at the trial root. The primary log is newline-
// delimited JSON, one reported row per line; the fallback is the tabular
// progress file kept for older runs. Exactly one of the two feeds a
// restoration.
const (
	MetricsLogName  = "result.json"
	ProgressLogName = "progress.csv"
)

// archiveExtensions lists the variants probed for each artifact, in
// preference order. The empty extension is the plain file.
var archiveExtensions = []string{"", ".zst", ".gz", ".lz4"}

// findArtifact probes base and its archived variants under root and
// returns the first path that exists.
func findArtifact(ctx context.Context, fsys storage.Filesystem, root, base string) (string, bool, error) {
	for _, ext := range archiveExtensions {
		p := storage.Join(root, base+ext)

		ok, err := fsys.Exists(ctx, p)
		if err != nil {
			return "", false, fmt.Errorf("probe %s: %w", base+ext, err)
		}

		if ok {
			return p, true, nil
		}
	}

	return "", false, nil
}

// ProbeArtifact returns the path of the first existing variant of base
// under root, probing the plain file and its archived forms in the same
// order restoration does.
func ProbeArtifact(ctx context.Context, fsys storage.Filesystem, root, base string) (string, bool, error) {
	return findArtifact(ctx, fsys, root, base)
}

// readMetricsLog loads the trial's metrics series from the primary log,
// falling back to the progress table only when no primary variant exists.
func readMetricsLog(ctx context.Context, fsys storage.Filesystem, root string) (History, error) {
	p, ok, err := findArtifact(ctx, fsys, root, MetricsLogName)
	if err != nil {
		return nil, err
	}

	if ok {
		return readResultLines(ctx, fsys, p)
	}

	p, ok, err = findArtifact(ctx, fsys, root, ProgressLogName)
	if err != nil {
		return nil, err
	}

	if ok {
		return readProgressTable(ctx, fsys, p)
	}

	return nil, fmt.Errorf("%w: neither %s nor %s under %s",
		ErrMissingMetricsLog, MetricsLogName, ProgressLogName, root)
}

// readResultLines parses the newline-delimited JSON log. Each line becomes
// one snapshot with nested keys flattened.
func readResultLines(ctx context.Context, fsys storage.Filesystem, p string) (History, error) {
	rc, err := storage.OpenDecoded(ctx, fsys, p)
	if err != nil {
		return nil, fmt.Errorf("open metrics log: %w", err)
	}

	defer rc.Close()

	dec := json.NewDecoder(rc)

	hist := History{}

	for {
		pairs, decodeErr := flatten.Decode(dec)
		if errors.Is(decodeErr, io.EOF) {
			break
		}

		if decodeErr != nil {
			return nil, fmt.Errorf("parse %s row %d: %w", MetricsLogName, len(hist), decodeErr)
		}

		var snap Snapshot

		for _, kv := range pairs {
			v, scalar := valueOf(kv.Value)
			if !scalar {
				continue
			}

			snap.Set(kv.Key, v)
		}

		hist = append(hist, snap)
	}

	return hist, nil
}

// readProgressTable parses the tabular fallback log. Header cells become
// keys; each data row becomes one snapshot with cells parsed as numbers
// where possible and kept as text otherwise.
func readProgressTable(ctx context.Context, fsys storage.Filesystem, p string) (History, error) {
	rc, err := storage.OpenDecoded(ctx, fsys, p)
	if err != nil {
		return nil, fmt.Errorf("open progress log: %w", err)
	}

	defer rc.Close()

	r := csv.NewReader(rc)

	header, headerErr := r.Read()
	if errors.Is(headerErr, io.EOF) {
		return History{}, nil
	}

	if headerErr != nil {
		return nil, fmt.Errorf("parse %s header: %w", ProgressLogName, headerErr)
	}

	hist := History{}

	for {
		row, rowErr := r.Read()
		if errors.Is(rowErr, io.EOF) {
			break
		}

		if rowErr != nil {
			return nil, fmt.Errorf("parse %s row %d: %w", ProgressLogName, len(hist), rowErr)
		}

		var snap Snapshot

		for i, col := range header {
			snap.Set(col, inferValue(row[i]))
		}

		hist = append(hist, snap)
	}

	return hist, nil
}

// inferValue types a tabular cell: numeric when parseable, text otherwise.
func inferValue(cell string) Value {
	n, err := strconv.ParseFloat(cell, 64)
	if err == nil {
		return Number(n)
	}

	return Text(cell)
}
