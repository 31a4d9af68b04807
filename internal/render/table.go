package render

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/trial"
)

// digestDisplayLen bounds content digests in terminal tables; documents
// carry the full digest.
const digestDisplayLen = 16

func newTable(term Terminal) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	if term.Width > 0 {
		tbl.SetAllowedRowLength(term.Width)
	}

	return tbl
}

// MetricsTable renders one snapshot as a metric/value table, keys in
// reported order.
func MetricsTable(term Terminal, snap trial.Snapshot) table.Writer {
	tbl := newTable(term)
	tbl.AppendHeader(table.Row{"Metric", "Value"})

	for _, key := range snap.Keys() {
		v, _ := snap.Lookup(key)
		tbl.AppendRow(table.Row{key, v.String()})
	}

	return tbl
}

// HistoryTable renders the metrics series, one row per report. A nil
// columns slice shows every column in first-appearance order; tail > 0
// keeps only the last tail rows.
func HistoryTable(term Terminal, history trial.History, columns []string, tail int) table.Writer {
	if columns == nil {
		columns = history.Columns()
	}

	rows := []trial.Snapshot(history)
	if tail > 0 && len(rows) > tail {
		rows = rows[len(rows)-tail:]
	}

	tbl := newTable(term)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}

	tbl.AppendHeader(header)

	for _, snap := range rows {
		row := make(table.Row, len(columns))

		for i, col := range columns {
			v, ok := snap.Lookup(col)
			if ok {
				row[i] = v.String()
			} else {
				row[i] = ""
			}
		}

		tbl.AppendRow(row)
	}

	return tbl
}

// CheckpointColumns carries optional per-checkpoint data keyed by
// checkpoint name.
type CheckpointColumns struct {
	Sizes   map[string]int64
	Digests map[string]string
}

// CheckpointsTable renders the checkpoint inventory with correlated metric
// counts and any optional columns.
func CheckpointsTable(term Terminal, records []trial.CheckpointRecord, cols CheckpointColumns) table.Writer {
	tbl := newTable(term)

	header := table.Row{"Checkpoint", "Metrics"}
	if cols.Sizes != nil {
		header = append(header, "Size")
	}

	if cols.Digests != nil {
		header = append(header, "Digest")
	}

	tbl.AppendHeader(header)

	for _, rec := range records {
		name := rec.Checkpoint.Name()

		row := table.Row{name, strconv.Itoa(rec.Metrics.Len())}
		if cols.Sizes != nil {
			row = append(row, humanize.IBytes(uint64(max(cols.Sizes[name], 0))))
		}

		if cols.Digests != nil {
			row = append(row, TruncateWithEllipsis(cols.Digests[name], digestDisplayLen))
		}

		tbl.AppendRow(row)
	}

	return tbl
}

// BestTable renders a best-checkpoint selection as a vertical key/value
// table.
func BestTable(term Terminal, metric string, mode trial.Mode, rec trial.CheckpointRecord) table.Writer {
	tbl := newTable(term)

	value := "-"

	v, ok := rec.Metrics.Lookup(metric)
	if ok {
		value = v.String()
	}

	tbl.AppendRows([]table.Row{
		{"Metric", metric},
		{"Mode", string(mode)},
		{"Checkpoint", rec.Checkpoint.Name()},
		{"Path", rec.Checkpoint.Path},
		{"Value", value},
	})

	return tbl
}

// ExperimentTable renders one row per trial under an experiment root.
// A non-empty metric adds a column with each trial's latest value for it.
func ExperimentTable(term Terminal, entries []experiment.Entry, metric string) table.Writer {
	tbl := newTable(term)

	header := table.Row{"Trial", "Iters", "Checkpoints", "Status"}
	if metric != "" {
		header = append(header, metric)
	}

	tbl.AppendHeader(header)

	for _, entry := range entries {
		row := experimentRow(entry, metric)
		tbl.AppendRow(row)
	}

	return tbl
}

func experimentRow(entry experiment.Entry, metric string) table.Row {
	if entry.Result == nil {
		row := table.Row{entry.Trial.Name, "", "", statusText(nil, entry.Err)}
		if metric != "" {
			row = append(row, "")
		}

		return row
	}

	res := entry.Result

	row := table.Row{
		entry.Trial.Name,
		strconv.Itoa(len(res.History)),
		strconv.Itoa(len(res.Checkpoints)),
		statusText(res, nil),
	}

	if metric != "" {
		cell := ""

		v, ok := res.Metric(metric)
		if ok {
			cell = v.String()
		}

		row = append(row, cell)
	}

	return row
}

// statusText names a trial's terminal state in plain text.
func statusText(res *trial.Result, err error) string {
	if err != nil {
		return "restore failed: " + err.Error()
	}

	if res == nil {
		return "unknown"
	}

	if res.OK() {
		return "ok"
	}

	return "failed: " + res.Error.Kind
}
