package render

import (
	"os"
	"strconv"
	"strings"
)

// Terminal width bounds.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 120
)

// Terminal holds terminal rendering configuration.
type Terminal struct {
	Width   int
	NoColor bool
}

// NewTerminal creates a Terminal. A positive width wins over detection;
// zero falls back to the COLUMNS environment variable. NO_COLOR in the
// environment always disables color.
func NewTerminal(width int, noColor bool) Terminal {
	if width <= 0 {
		width = DetectWidth()
	}

	return Terminal{
		Width:   clampWidth(width),
		NoColor: noColor || os.Getenv("NO_COLOR") != "",
	}
}

// DetectWidth reads the terminal width from COLUMNS, falling back to
// DefaultWidth when the variable is unset or not a number.
func DetectWidth() int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil {
		return cols
	}

	return DefaultWidth
}

func clampWidth(width int) int {
	return min(max(width, MinWidth), MaxWidth)
}

// TruncateWithEllipsis shortens s to at most maxWidth bytes, marking the
// cut with "...". Widths of three or less degrade to a run of dots.
func TruncateWithEllipsis(s string, maxWidth int) string {
	const ellipsis = "..."

	if len(s) <= maxWidth {
		return s
	}

	if maxWidth <= len(ellipsis) {
		return strings.Repeat(".", maxWidth)
	}

	return s[:maxWidth-len(ellipsis)] + ellipsis
}
