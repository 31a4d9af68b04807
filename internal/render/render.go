// Package render turns restored trial results into terminal tables and
// machine-readable documents.
package render

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects how a command presents its output.
type Format string

// Output formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCBOR     Format = "cbor"
	FormatMarkdown Format = "markdown"
)

// formatNames lists every format ParseFormat accepts, in display order.
var formatNames = []string{
	string(FormatTable),
	string(FormatJSON),
	string(FormatYAML),
	string(FormatCBOR),
	string(FormatMarkdown),
}

// ErrUnknownFormat indicates a format name outside the supported set.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a format name onto its Format value.
func ParseFormat(raw string) (Format, error) {
	for _, name := range formatNames {
		if raw == name {
			return Format(raw), nil
		}
	}

	return "", fmt.Errorf("%w: %q, supported formats: %s", ErrUnknownFormat, raw, strings.Join(formatNames, ", "))
}
