package ui

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/xmvnconf/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how reports are rendered
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output writer
	FormatAuto Format = iota
	// FormatTerminal renders lipgloss styles
	FormatTerminal
	// FormatText renders unstyled lines
	FormatText
	// FormatJSON renders one JSON document per report
	FormatJSON
)

// formatNames holds the canonical name of each format, as used by the
// output.format config key
var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "terminal",
	FormatText:     "text",
	FormatJSON:     "json",
}

// formatAliases are extra spellings accepted by ParseFormat
var formatAliases = map[string]Format{
	"":      FormatAuto,
	"term":  FormatTerminal,
	"plain": FormatText,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat accepts a canonical name or alias, case insensitive
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, canonical := range formatNames {
		if canonical == name {
			return f, nil
		}
	}
	if f, ok := formatAliases[name]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q", s).
		WithDetail("format", s)
}

// DetectFormat reports FormatTerminal only when w is a terminal that can
// show colour. Anything that is not an *os.File, a pipe, NO_COLOR or
// CLICOLOR=0 yields FormatText.
func DetectFormat(w io.Writer) Format {
	f, ok := w.(*os.File)
	if !ok {
		return FormatText
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return FormatText
	}
	if termenv.NewOutput(f).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve turns FormatAuto into a concrete format for w
func Resolve(f Format, w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	return DetectFormat(w)
}
