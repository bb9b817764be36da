// Package tablefmt renders text tables aligned by display width, so
// accented and wide characters keep the columns straight.
package tablefmt

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a header plus rows of preformatted cells.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
	// Right lists the column indexes aligned to the right.
	Right map[int]bool
}

// Widths returns the display width of each column.
func (t Table) Widths() []int {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	return widths
}

// String renders the table in pipe format.
func (t Table) String() string {
	widths := t.Widths()
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(t.Title)
		sb.WriteString("\n\n")
	}

	t.writeRow(&sb, t.Header, widths)
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		t.writeRow(&sb, row, widths)
	}
	return sb.String()
}

func (t Table) writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")
	for j, w := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}
		sb.WriteString(" ")
		if t.Right[j] {
			sb.WriteString(runewidth.FillLeft(content, w))
		} else {
			sb.WriteString(runewidth.FillRight(content, w))
		}
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

// Write renders the table to w followed by a blank line.
func (t Table) Write(w io.Writer) error {
	_, err := io.WriteString(w, t.String()+"\n")
	return err
}
