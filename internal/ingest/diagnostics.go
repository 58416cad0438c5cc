package ingest

import (
	"fmt"
	"io"
)

// Diagnostics writes one line per skipped record:
//
//	<error> at "<path>" ["<field>" ...]
//
// The record part is omitted when the CSV layer could not decode the line.
type Diagnostics struct {
	w     io.Writer
	lines int
}

// NewDiagnostics returns a Diagnostics writing to w.
func NewDiagnostics(w io.Writer) *Diagnostics {
	if w == nil {
		w = io.Discard
	}
	return &Diagnostics{w: w}
}

// Undecodable reports a line the CSV reader could not turn into a record.
func (d *Diagnostics) Undecodable(err error, path string) {
	fmt.Fprintf(d.w, "%v at %q\n", err, path)
	d.lines++
}

// Rejected reports a decoded record that failed validation.
func (d *Diagnostics) Rejected(err error, path string, fields []string) {
	fmt.Fprintf(d.w, "%v at %q %q\n", err, path, fields)
	d.lines++
}

// Lines returns how many diagnostic lines have been written.
func (d *Diagnostics) Lines() int {
	return d.lines
}
