// Package lint inspects a trial directory for problems restoration either
// rejects outright or silently tolerates: layout defects, checkpoint naming
// drift, unreadable logs and broken checkpoint correlation.
package lint

import (
	"context"
	"fmt"

	"github.com/trialscope/trialscope/pkg/storage"
)

// Severity ranks a finding. Errors fail restoration, warnings degrade it,
// infos are notable but expected states.
type Severity uint8

// Severities, ordered by weight.
const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}

	return "unknown"
}

// MarshalJSON writes the severity name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// MarshalYAML renders the severity name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Finding codes, stable for scripted consumers.
const (
	CodeTrialPath        = "layout.trial-path"
	CodeNoMetricsLog     = "layout.no-metrics-log"
	CodeBothFormats      = "layout.both-formats"
	CodeLogUnreadable    = "log.unreadable"
	CodeLogEmpty         = "log.empty"
	CodeLineFormat       = "log.line-format"
	CodeRecordSchema     = "log.record-schema"
	CodeStrayCheckpoint  = "naming.stray-checkpoint"
	CodePaddingWidth     = "naming.padding-width"
	CodeMissingRow       = "correlation.missing-row"
	CodeDanglingRow      = "correlation.dangling-row"
	CodeErrorFileInvalid = "errorfile.unparseable"
	CodeErrorFileSchema  = "errorfile.schema"
)

// Finding is one problem discovered in a trial directory.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     string   `json:"code"     yaml:"code"`

	// Path names the artifact the finding is about, relative to the trial
	// root. Empty means the root itself.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Line is the 1-based line within Path for log findings, 0 otherwise.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`

	Message string `json:"message" yaml:"message"`
}

// Report collects the findings for one trial, in check order.
type Report struct {
	Root     string    `json:"root"     yaml:"root"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Counts returns the number of findings per severity.
func (r *Report) Counts() (errs, warnings, infos int) {
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			infos++
		}
	}

	return errs, warnings, infos
}

// OK reports whether the trial has no error-severity findings.
func (r *Report) OK() bool {
	errs, _, _ := r.Counts()

	return errs == 0
}

// Linter checks trial directories. The zero value resolves the filesystem
// from the path, like trial.Restorer.
type Linter struct {
	// FS overrides filesystem resolution when set; the path is then taken
	// as already filesystem-relative.
	FS storage.Filesystem
}

// Check is shorthand for a zero Linter checking pathOrURI.
func Check(ctx context.Context, pathOrURI string) (*Report, error) {
	return Linter{}.Check(ctx, pathOrURI)
}

// Check runs every lint check against the trial rooted at pathOrURI.
// Domain problems become findings; the returned error is reserved for
// infrastructure failures such as an unreachable filesystem.
func (l Linter) Check(ctx context.Context, pathOrURI string) (*Report, error) {
	recordSchema, envelopeSchema, schemaErr := compiledSchemas()
	if schemaErr != nil {
		return nil, schemaErr
	}

	fsys := l.FS
	root := pathOrURI

	if fsys == nil {
		var err error

		fsys, root, err = storage.Resolve(pathOrURI)
		if err != nil {
			return nil, err
		}
	}

	rep := &Report{Root: root}

	ok, err := fsys.Exists(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("probe trial dir: %w", err)
	}

	if !ok {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeTrialPath,
			Message:  "trial directory does not exist",
		})

		return rep, nil
	}

	entries, listErr := fsys.List(ctx, root)
	if listErr != nil {
		rep.add(Finding{
			Severity: SeverityError,
			Code:     CodeTrialPath,
			Message:  fmt.Sprintf("trial path is not a listable directory: %v", listErr),
		})

		return rep, nil
	}

	rowNames, logErr := l.checkLogs(ctx, fsys, root, recordSchema, rep)
	if logErr != nil {
		return nil, logErr
	}

	dirNames := checkCheckpoints(entries, rep)

	checkCorrelation(dirNames, rowNames, rep)

	errFileErr := checkErrorFile(ctx, fsys, root, envelopeSchema, rep)
	if errFileErr != nil {
		return nil, errFileErr
	}

	return rep, nil
}
