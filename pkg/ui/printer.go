// Package ui renders CLI reports in plain, styled or JSON form.
package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/xmvnconf/pkg/emitter"
)

// Printer reports emission results to one writer
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a Printer. format must already be resolved.
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, format: format}
}

type resultJSON struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Kind  string `json:"kind,omitempty"`
}

// Results prints one line per written fragment, or a JSON array
func (p *Printer) Results(results []emitter.Result) error {
	if p.format == FormatJSON {
		out := make([]resultJSON, len(results))
		for i, r := range results {
			out[i] = resultJSON{Index: r.Index, Path: r.Path, Kind: r.Kind.String()}
		}
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, r := range results {
		line := fmt.Sprintf("%s %s", p.style("FilePath", r.Path), p.style("Muted", "("+r.Kind.String()+")"))
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	return nil
}

// Error prints err in the Error style
func (p *Printer) Error(err error) {
	if p.format == FormatJSON {
		_ = json.NewEncoder(p.out).Encode(map[string]string{"error": err.Error()})
		return
	}
	fmt.Fprintln(p.out, p.style("Error", "Error: "+err.Error()))
}

// Line prints a message with an optional style name
func (p *Printer) Line(style, msg string) {
	fmt.Fprintln(p.out, p.style(style, msg))
}

func (p *Printer) style(name, text string) string {
	if p.format != FormatTerminal || name == "" {
		return text
	}
	return GetStyle(name).Render(text)
}

type statusJSON struct {
	Next      int          `json:"next"`
	Fragments []resultJSON `json:"fragments"`
	Gaps      []int        `json:"gaps"`
}

// Status prints the next index, the fragments on disk and any gaps
func (p *Printer) Status(st emitter.Status) error {
	if p.format == FormatJSON {
		out := statusJSON{Next: st.Next, Fragments: []resultJSON{}, Gaps: st.Gaps}
		if out.Gaps == nil {
			out.Gaps = []int{}
		}
		for _, f := range st.Fragments {
			out.Fragments = append(out.Fragments, resultJSON{Index: f.Index, Path: f.Path})
		}
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(p.out, "%s %d\n", p.style("Bold", "Next index:"), st.Next)
	if len(st.Fragments) == 0 {
		p.Line("Muted", "No configuration fragments.")
	}
	for _, f := range st.Fragments {
		fmt.Fprintf(p.out, "  %5d  %s\n", f.Index, p.style("FilePath", f.Path))
	}
	if len(st.Gaps) > 0 {
		fmt.Fprintf(p.out, "%s %v\n", p.style("Muted", "Missing indices:"), st.Gaps)
	}
	return nil
}
