package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trialscope/trialscope/internal/lint"
	"github.com/trialscope/trialscope/internal/render"
)

// ErrFindings reports error-severity findings in a validated trial.
var ErrFindings = errors.New("validation failed")

// ErrStrictFindings reports warning findings under --strict.
var ErrStrictFindings = errors.New("validation failed in strict mode")

// ValidateCommand holds the flags for the validate command.
type ValidateCommand struct {
	globals *Globals
	format  string
	strict  bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(globals *Globals) *cobra.Command {
	vc := &ValidateCommand{globals: globals}

	cobraCmd := &cobra.Command{
		Use:   "validate <trial-path>",
		Short: "Check a trial directory for layout and log problems",
		Long: `Check a trial directory without restoring it: layout, metrics log
parseability and record schema, checkpoint naming, correlation
coverage, and the error envelope schema.

Error findings fail the command; --strict also fails on warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: vc.run,
	}

	cobraCmd.Flags().StringVarP(&vc.format, "format", "f", "", "output format (table, json, yaml)")
	cobraCmd.Flags().BoolVar(&vc.strict, "strict", false, "fail on warnings too")

	return cobraCmd
}

func (vc *ValidateCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := vc.globals.Load()
	if err != nil {
		return err
	}

	format, err := resolveFormat(vc.format, cfg)
	if err != nil {
		return err
	}

	rep, err := lint.Check(cobraCmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if format == render.FormatTable {
		vc.printFindings(out, vc.globals.Terminal(cfg), rep)
	} else {
		encodeErr := render.Encode(out, format, rep)
		if encodeErr != nil {
			return encodeErr
		}
	}

	return vc.verdict(rep)
}

// printFindings writes one line per finding plus a severity summary.
func (vc *ValidateCommand) printFindings(out io.Writer, term render.Terminal, rep *lint.Report) {
	if len(rep.Findings) == 0 {
		fmt.Fprintln(out, render.Paint(term, color.FgGreen, "OK")+" "+rep.Root+": no findings")
		return
	}

	for _, f := range rep.Findings {
		fmt.Fprintln(out, findingLine(term, f))
	}

	errs, warnings, infos := rep.Counts()
	fmt.Fprintf(out, "\n%d findings: %d errors, %d warnings, %d infos\n", len(rep.Findings), errs, warnings, infos)
}

func findingLine(term render.Terminal, f lint.Finding) string {
	location := f.Path
	if f.Line > 0 {
		location = fmt.Sprintf("%s:%d", f.Path, f.Line)
	}

	tag := severityTag(term, f.Severity)

	if location == "" {
		return fmt.Sprintf("%s  %s  %s", tag, f.Code, f.Message)
	}

	return fmt.Sprintf("%s  %s  %s  %s", tag, f.Code, location, f.Message)
}

// severityTag colors the severity word, padded so findings line up.
func severityTag(term render.Terminal, s lint.Severity) string {
	word := fmt.Sprintf("%-7s", s.String())

	switch s {
	case lint.SeverityError:
		return render.Paint(term, color.FgRed, word)
	case lint.SeverityWarning:
		return render.Paint(term, color.FgYellow, word)
	default:
		return render.Paint(term, color.FgCyan, word)
	}
}

// verdict converts findings into the command's exit status.
func (vc *ValidateCommand) verdict(rep *lint.Report) error {
	errs, warnings, _ := rep.Counts()

	if errs > 0 {
		return fmt.Errorf("%w: %d error findings", ErrFindings, errs)
	}

	if vc.strict && warnings > 0 {
		return fmt.Errorf("%w: %d warnings", ErrStrictFindings, warnings)
	}

	return nil
}
