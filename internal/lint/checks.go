package lint

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/trialscope/trialscope/pkg/flatten"
	"github.com/trialscope/trialscope/pkg/storage"
	"github.com/trialscope/trialscope/pkg/trial"
)

// maxLogLine bounds a single metrics-log line during the line-format pass.
const maxLogLine = 8 << 20

// checkLogs probes both log formats, reports layout findings, and lints
// whichever log restoration would read. It returns the checkpoint names
// referenced by metrics rows.
func (l Linter) checkLogs(
	ctx context.Context,
	fsys storage.Filesystem,
	root string,
	record *gojsonschema.Schema,
	rep *Report,
) (map[string]bool, error) {
	ndjsonPath, ndjsonOK, err := trial.ProbeArtifact(ctx, fsys, root, trial.MetricsLogName)
	if err != nil {
		return nil, err
	}

	csvPath, csvOK, err := trial.ProbeArtifact(ctx, fsys, root, trial.ProgressLogName)
	if err != nil {
		return nil, err
	}

	switch {
	case ndjsonOK && csvOK:
		rep.add(Finding{
			Severity: SeverityInfo,
			Code:     CodeBothFormats,
			Path:     path.Base(ndjsonPath),
			Message: fmt.Sprintf("both log formats present; restoration reads %s and ignores %s",
				path.Base(ndjsonPath), path.Base(csvPath)),
		})
	case !ndjsonOK && !csvOK:
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeNoMetricsLog,
			Message: fmt.Sprintf("no metrics log: neither %s nor %s exists in any variant",
				trial.MetricsLogName, trial.ProgressLogName),
		})
	}

	if ndjsonOK {
		return checkMetricsLog(ctx, fsys, ndjsonPath, record, rep), nil
	}

	if csvOK {
		return checkProgressLog(ctx, fsys, csvPath, rep), nil
	}

	return nil, nil
}

// checkMetricsLog lints the newline-delimited JSON log: first the stream
// restoration actually parses, then per-line format conventions.
func checkMetricsLog(
	ctx context.Context,
	fsys storage.Filesystem,
	p string,
	record *gojsonschema.Schema,
	rep *Report,
) map[string]bool {
	rel := path.Base(p)

	names, rows, broken := streamMetricsLog(ctx, fsys, p, rel, rep)
	if broken {
		return names
	}

	if rows == 0 {
		rep.add(Finding{
			Severity: SeverityInfo,
			Code:     CodeLogEmpty,
			Path:     rel,
			Message:  "metrics log has no rows; restoration yields an empty history",
		})

		return names
	}

	lintLogLines(ctx, fsys, p, rel, record, rep)

	return names
}

// streamMetricsLog replays the parse restoration performs and collects the
// checkpoint names rows reference.
func streamMetricsLog(
	ctx context.Context,
	fsys storage.Filesystem,
	p, rel string,
	rep *Report,
) (names map[string]bool, rows int, broken bool) {
	names = make(map[string]bool)

	rc, err := storage.OpenDecoded(ctx, fsys, p)
	if err != nil {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeLogUnreadable,
			Path:     rel,
			Message:  fmt.Sprintf("open: %v", err),
		})

		return names, 0, true
	}

	defer rc.Close()

	dec := json.NewDecoder(rc)

	for {
		pairs, decodeErr := flatten.Decode(dec)
		if errors.Is(decodeErr, io.EOF) {
			return names, rows, false
		}

		if decodeErr != nil {
			rep.add(Finding{
				Severity: SeverityError,
				Code:     CodeLogUnreadable,
				Path:     rel,
				Message:  fmt.Sprintf("row %d: %v; restoration fails here", rows, decodeErr),
			})

			return names, rows, true
		}

		rows++

		for _, kv := range pairs {
			if kv.Key != trial.CorrelationKey {
				continue
			}

			if name, isText := kv.Value.(string); isText {
				names[name] = true
			}
		}
	}
}

// lintLogLines checks conventions the stream parse tolerates: one record
// per line, records shaped per the embedded schema.
func lintLogLines(
	ctx context.Context,
	fsys storage.Filesystem,
	p, rel string,
	record *gojsonschema.Schema,
	rep *Report,
) {
	rc, err := storage.OpenDecoded(ctx, fsys, p)
	if err != nil {
		return
	}

	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var doc any

		if unmarshalErr := json.Unmarshal(line, &doc); unmarshalErr != nil {
			rep.add(Finding{
				Severity: SeverityWarning,
				Code:     CodeLineFormat,
				Path:     rel,
				Line:     lineNo,
				Message:  "not a standalone JSON record; the log is newline-delimited",
			})

			continue
		}

		res, valErr := record.Validate(gojsonschema.NewGoLoader(doc))
		if valErr != nil {
			rep.add(Finding{
				Severity: SeverityWarning,
				Code:     CodeRecordSchema,
				Path:     rel,
				Line:     lineNo,
				Message:  fmt.Sprintf("schema validation: %v", valErr),
			})

			continue
		}

		for _, verr := range res.Errors() {
			rep.add(Finding{
				Severity: SeverityWarning,
				Code:     CodeRecordSchema,
				Path:     rel,
				Line:     lineNo,
				Message:  verr.Field() + ": " + verr.Description(),
			})
		}
	}

	if scanErr := scanner.Err(); scanErr != nil {
		rep.add(Finding{
			Severity: SeverityWarning,
			Code:     CodeLineFormat,
			Path:     rel,
			Line:     lineNo + 1,
			Message:  fmt.Sprintf("line scan stopped: %v", scanErr),
		})
	}
}

// checkProgressLog lints the tabular fallback log and collects referenced
// checkpoint names from the correlation column.
func checkProgressLog(ctx context.Context, fsys storage.Filesystem, p string, rep *Report) map[string]bool {
	rel := path.Base(p)
	names := make(map[string]bool)

	rc, err := storage.OpenDecoded(ctx, fsys, p)
	if err != nil {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeLogUnreadable,
			Path:     rel,
			Message:  fmt.Sprintf("open: %v", err),
		})

		return names
	}

	defer rc.Close()

	r := csv.NewReader(rc)

	header, headerErr := r.Read()
	if errors.Is(headerErr, io.EOF) {
		rep.add(Finding{
			Severity: SeverityInfo,
			Code:     CodeLogEmpty,
			Path:     rel,
			Message:  "progress log has no rows; restoration yields an empty history",
		})

		return names
	}

	if headerErr != nil {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeLogUnreadable,
			Path:     rel,
			Line:     1,
			Message:  fmt.Sprintf("header: %v; restoration fails here", headerErr),
		})

		return names
	}

	corrCol := slices.Index(header, trial.CorrelationKey)

	rows := 0

	for {
		row, rowErr := r.Read()
		if errors.Is(rowErr, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(rowErr, &parseErr) {
			rep.add(Finding{
				Severity: SeverityError,
				Code:     CodeLogUnreadable,
				Path:     rel,
				Line:     parseErr.Line,
				Message:  fmt.Sprintf("%v; restoration fails here", parseErr.Err),
			})

			// Field-count mismatches leave the reader usable; anything
			// else does not.
			if errors.Is(parseErr.Err, csv.ErrFieldCount) {
				continue
			}

			return names
		}

		if rowErr != nil {
			rep.add(Finding{
				Severity: SeverityError,
				Code:     CodeLogUnreadable,
				Path:     rel,
				Message:  fmt.Sprintf("%v; restoration fails here", rowErr),
			})

			return names
		}

		rows++

		if corrCol >= 0 && row[corrCol] != "" {
			names[row[corrCol]] = true
		}
	}

	if rows == 0 {
		rep.add(Finding{
			Severity: SeverityInfo,
			Code:     CodeLogEmpty,
			Path:     rel,
			Message:  "progress log has no rows; restoration yields an empty history",
		})
	}

	return names
}

// checkCheckpoints validates checkpoint naming and zero-padding across the
// root's entries and returns the checkpoint directory names restoration
// would scan.
func checkCheckpoints(entries []storage.DirEntry, rep *Report) map[string]bool {
	dirs := make(map[string]bool)
	widths := make(map[int][]string)

	for _, e := range entries {
		if !strings.HasPrefix(e.Name, trial.CheckpointPrefix) {
			continue
		}

		if !e.IsDir {
			rep.add(Finding{
				Severity: SeverityWarning,
				Code:     CodeStrayCheckpoint,
				Path:     e.Name,
				Message:  "checkpoint-named entry is a file; restoration ignores it",
			})

			continue
		}

		dirs[e.Name] = true

		_, width, ok := trial.ParseCheckpointIndex(e.Name)
		if !ok {
			rep.add(Finding{
				Severity: SeverityWarning,
				Code:     CodeStrayCheckpoint,
				Path:     e.Name,
				Message:  "directory name carries no zero-padded index but is restored among checkpoints",
			})

			continue
		}

		widths[width] = append(widths[width], e.Name)
	}

	if len(widths) > 1 {
		rep.add(Finding{
			Severity: SeverityWarning,
			Code:     CodePaddingWidth,
			Message: fmt.Sprintf("checkpoint indexes use mixed zero-padding widths (%s); "+
				"lexicographic checkpoint order no longer matches numeric order", describeWidths(widths)),
		})
	}

	return dirs
}

func describeWidths(widths map[int][]string) string {
	parts := make([]string, 0, len(widths))

	for _, w := range slices.Sorted(maps.Keys(widths)) {
		parts = append(parts, fmt.Sprintf("%d as in %s", w, widths[w][0]))
	}

	return strings.Join(parts, ", ")
}

// checkCorrelation cross-references checkpoint directories against the
// names metrics rows carry. Uncorrelated directories degrade restoration;
// rows naming vanished directories are the normal trace of retention.
func checkCorrelation(dirs, rows map[string]bool, rep *Report) {
	for _, name := range slices.Sorted(maps.Keys(dirs)) {
		if rows[name] {
			continue
		}

		rep.add(Finding{
			Severity: SeverityWarning,
			Code:     CodeMissingRow,
			Path:     name,
			Message: fmt.Sprintf("no metrics row names this checkpoint via %s; "+
				"restoration keeps it with empty metrics", trial.CorrelationKey),
		})
	}

	for _, name := range slices.Sorted(maps.Keys(rows)) {
		if dirs[name] {
			continue
		}

		rep.add(Finding{
			Severity: SeverityInfo,
			Code:     CodeDanglingRow,
			Path:     name,
			Message:  "metrics rows name this checkpoint, but no such directory exists; likely removed by retention",
		})
	}
}

// checkErrorFile validates the failure envelope when one exists: first the
// decode restoration performs, then the embedded schema.
func checkErrorFile(
	ctx context.Context,
	fsys storage.Filesystem,
	root string,
	envelope *gojsonschema.Schema,
	rep *Report,
) error {
	p := storage.Join(root, trial.ErrorFileName)

	ok, err := fsys.Exists(ctx, p)
	if err != nil {
		return fmt.Errorf("probe %s: %w", trial.ErrorFileName, err)
	}

	if !ok {
		return nil
	}

	rc, openErr := fsys.Open(ctx, p)
	if openErr != nil {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeErrorFileInvalid,
			Path:     trial.ErrorFileName,
			Message:  fmt.Sprintf("open: %v", openErr),
		})

		return nil
	}

	defer rc.Close()

	raw, readErr := io.ReadAll(rc)
	if readErr != nil {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeErrorFileInvalid,
			Path:     trial.ErrorFileName,
			Message:  fmt.Sprintf("read: %v", readErr),
		})

		return nil
	}

	var rec trial.ErrorRecord

	if unmarshalErr := json.Unmarshal(raw, &rec); unmarshalErr != nil {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeErrorFileInvalid,
			Path:     trial.ErrorFileName,
			Message:  fmt.Sprintf("%v; restoration fails on this file", unmarshalErr),
		})

		return nil
	}

	res, valErr := envelope.Validate(gojsonschema.NewBytesLoader(raw))
	if valErr != nil {
		rep.add(Finding{
			Severity: SeverityWarning,
			Code:     CodeErrorFileSchema,
			Path:     trial.ErrorFileName,
			Message:  fmt.Sprintf("schema validation: %v", valErr),
		})

		return nil
	}

	for _, verr := range res.Errors() {
		rep.add(Finding{
			Severity: SeverityWarning,
			Code:     CodeErrorFileSchema,
			Path:     trial.ErrorFileName,
			Message:  verr.Field() + ": " + verr.Description(),
		})
	}

	return nil
}
