package render

import (
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/trialscope/trialscope/pkg/trial"
)

// Summary renders the trial header block: path, status, iteration and
// checkpoint counts. Color follows the terminal configuration.
func Summary(term Terminal, res *trial.Result) string {
	var b strings.Builder

	b.WriteString("Trial: " + res.Path + "\n")
	b.WriteString("Status: " + statusLine(term, res) + "\n")
	b.WriteString("Iterations: " + strconv.Itoa(len(res.History)) + "\n")
	b.WriteString("Checkpoints: " + strconv.Itoa(len(res.Checkpoints)))

	if res.Checkpoint != nil {
		b.WriteString(" (latest " + res.Checkpoint.Name() + ")")
	}

	b.WriteString("\n")

	return b.String()
}

func statusLine(term Terminal, res *trial.Result) string {
	if res.OK() {
		return Paint(term, color.FgGreen, "OK")
	}

	return Paint(term, color.FgRed, "FAILED") + " " + res.Error.String()
}

// Paint colors text unless the terminal disables color.
func Paint(term Terminal, attr color.Attribute, text string) string {
	c := color.New(attr)
	if term.NoColor {
		c.DisableColor()
	}

	return c.Sprint(text)
}
