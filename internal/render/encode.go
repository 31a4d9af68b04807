package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/trial"
)

// cborEnc mirrors the deterministic encoding pkg/trial uses for snapshots,
// so whole documents encode canonically too.
var cborEnc = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}

	return mode
}()

// CheckpointDoc is the document form of one checkpoint record.
type CheckpointDoc struct {
	Name    string         `json:"name" yaml:"name"`
	Path    string         `json:"path" yaml:"path"`
	Metrics trial.Snapshot `json:"metrics" yaml:"metrics"`
}

// ResultDoc is the document form of a restored trial.
type ResultDoc struct {
	Path        string             `json:"path" yaml:"path"`
	OK          bool               `json:"ok" yaml:"ok"`
	Iterations  int                `json:"iterations" yaml:"iterations"`
	Metrics     trial.Snapshot     `json:"metrics" yaml:"metrics"`
	Checkpoint  *CheckpointDoc     `json:"checkpoint,omitempty" yaml:"checkpoint,omitempty"`
	Checkpoints []CheckpointDoc    `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	Error       *trial.ErrorRecord `json:"error,omitempty" yaml:"error,omitempty"`
	History     []trial.Snapshot   `json:"history,omitempty" yaml:"history,omitempty"`
}

// NewResultDoc builds the document form of res. withHistory includes the
// full metrics series.
func NewResultDoc(res *trial.Result, withHistory bool) ResultDoc {
	doc := ResultDoc{
		Path:       res.Path,
		OK:         res.OK(),
		Iterations: len(res.History),
		Metrics:    res.Metrics,
		Error:      res.Error,
	}

	for _, rec := range res.Checkpoints {
		doc.Checkpoints = append(doc.Checkpoints, CheckpointDoc{
			Name:    rec.Checkpoint.Name(),
			Path:    rec.Checkpoint.Path,
			Metrics: rec.Metrics,
		})
	}

	if res.Checkpoint != nil && len(doc.Checkpoints) > 0 {
		latest := doc.Checkpoints[len(doc.Checkpoints)-1]
		doc.Checkpoint = &latest
	}

	if withHistory {
		doc.History = res.History
	}

	return doc
}

// BestDoc is the document form of a best-checkpoint selection.
type BestDoc struct {
	Metric     string        `json:"metric" yaml:"metric"`
	Mode       string        `json:"mode" yaml:"mode"`
	Checkpoint CheckpointDoc `json:"checkpoint" yaml:"checkpoint"`
}

// NewBestDoc builds the document form of a selection made by
// BestCheckpoint.
func NewBestDoc(metric string, mode trial.Mode, rec trial.CheckpointRecord) BestDoc {
	return BestDoc{
		Metric: metric,
		Mode:   string(mode),
		Checkpoint: CheckpointDoc{
			Name:    rec.Checkpoint.Name(),
			Path:    rec.Checkpoint.Path,
			Metrics: rec.Metrics,
		},
	}
}

// HistoryDoc is the document form of a metrics series, optionally tailed
// and restricted to named columns.
type HistoryDoc struct {
	Path  string           `json:"path" yaml:"path"`
	Total int              `json:"total_rows" yaml:"total_rows"`
	Rows  []trial.Snapshot `json:"rows" yaml:"rows"`
}

// NewHistoryDoc builds the document form of res's history. A positive tail
// keeps only the last tail rows. A non-empty keys list restricts every row
// to the named keys, in the requested order; rows missing a key skip it.
func NewHistoryDoc(res *trial.Result, tail int, keys []string) HistoryDoc {
	rows := []trial.Snapshot(res.History)
	if tail > 0 && tail < len(rows) {
		rows = rows[len(rows)-tail:]
	}

	out := make([]trial.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, filterSnapshot(row, keys))
	}

	return HistoryDoc{Path: res.Path, Total: len(res.History), Rows: out}
}

func filterSnapshot(snap trial.Snapshot, keys []string) trial.Snapshot {
	if len(keys) == 0 {
		return snap
	}

	var out trial.Snapshot

	for _, key := range keys {
		value, ok := snap.Lookup(key)
		if ok {
			out.Set(key, value)
		}
	}

	return out
}

// CheckpointEntryDoc is one checkpoint in an inventory listing. SizeBytes
// and Digest appear only when the caller computed them.
type CheckpointEntryDoc struct {
	Name      string         `json:"name" yaml:"name"`
	Path      string         `json:"path" yaml:"path"`
	Metrics   trial.Snapshot `json:"metrics" yaml:"metrics"`
	SizeBytes *int64         `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Digest    string         `json:"digest,omitempty" yaml:"digest,omitempty"`
}

// NewCheckpointListDoc builds the document form of a checkpoint inventory,
// attaching whatever optional columns were computed.
func NewCheckpointListDoc(res *trial.Result, cols CheckpointColumns) []CheckpointEntryDoc {
	docs := make([]CheckpointEntryDoc, 0, len(res.Checkpoints))

	for _, rec := range res.Checkpoints {
		name := rec.Checkpoint.Name()
		doc := CheckpointEntryDoc{Name: name, Path: rec.Checkpoint.Path, Metrics: rec.Metrics}

		if cols.Sizes != nil {
			size := cols.Sizes[name]
			doc.SizeBytes = &size
		}

		if cols.Digests != nil {
			doc.Digest = cols.Digests[name]
		}

		docs = append(docs, doc)
	}

	return docs
}

// ExperimentEntryDoc is the document form of one trial row under an
// experiment root.
type ExperimentEntryDoc struct {
	Name        string         `json:"name" yaml:"name"`
	Path        string         `json:"path" yaml:"path"`
	Status      string         `json:"status" yaml:"status"`
	Iterations  int            `json:"iterations" yaml:"iterations"`
	Checkpoints int            `json:"checkpoints" yaml:"checkpoints"`
	Metrics     trial.Snapshot `json:"metrics" yaml:"metrics"`
}

// NewExperimentDoc builds the document form of an experiment listing.
func NewExperimentDoc(entries []experiment.Entry) []ExperimentEntryDoc {
	docs := make([]ExperimentEntryDoc, 0, len(entries))

	for _, entry := range entries {
		doc := ExperimentEntryDoc{
			Name:   entry.Trial.Name,
			Path:   entry.Trial.Path,
			Status: statusText(entry.Result, entry.Err),
		}

		if entry.Result != nil {
			doc.Iterations = len(entry.Result.History)
			doc.Checkpoints = len(entry.Result.Checkpoints)
			doc.Metrics = entry.Result.Metrics
		}

		docs = append(docs, doc)
	}

	return docs
}

// Encode writes doc to w in the given document format. Table and markdown
// are rendering formats, not document encodings, and are rejected here.
func Encode(w io.Writer, format Format, doc any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	case FormatCBOR:
		err := cborEnc.NewEncoder(w).Encode(doc)
		if err != nil {
			return fmt.Errorf("encode cbor: %w", err)
		}

		return nil
	case FormatTable, FormatMarkdown:
		return fmt.Errorf("%w: %q is not a document format", ErrUnknownFormat, format)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
