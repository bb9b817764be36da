package models

import "fmt"

// DiagnosticKind classifies non-fatal issues found while building or
// filtering the dataset.
type DiagnosticKind string

const (
	ParseWarning      DiagnosticKind = "parse_warning"
	FilterNoOpWarning DiagnosticKind = "filter_noop_warning"
	SourceUnavailable DiagnosticKind = "source_unavailable"
)

// Diagnostic is a recovered problem. Row is the 1-based data row within its
// source, or 0 when the diagnostic is not tied to a row.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Source  RecordSource   `json:"source,omitempty"`
	Row     int            `json:"row,omitempty"`
	Column  string         `json:"column,omitempty"`
	Value   string         `json:"value,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Row > 0 {
		return fmt.Sprintf("%s: %s row %d column %q value %q: %s", d.Kind, d.Source, d.Row, d.Column, d.Value, d.Message)
	}
	if d.Column != "" {
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.Column, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// CountKind returns how many diagnostics in ds have the given kind.
func CountKind(ds []Diagnostic, kind DiagnosticKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
