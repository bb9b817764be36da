package models

// RawTable is an untyped sheet: a header row followed by string cells.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table carries no header and no rows.
func (t RawTable) IsEmpty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

// Table is a display-ready grid with named columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
