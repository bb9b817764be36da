package tablefmt

import (
	"bytes"
	"strings"
	"testing"
)

func TestString_AlignsAccentedText(t *testing.T) {
	table := Table{
		Header: []string{"Etapa", "Total"},
		Rows: [][]string{
			{"Negociação", "12"},
			{"Fechado", "3"},
		},
		Right: map[int]bool{1: true},
	}

	want := "| Etapa      | Total |\n" +
		"| ---------- | ----- |\n" +
		"| Negociação |    12 |\n" +
		"| Fechado    |     3 |\n"
	if got := table.String(); got != want {
		t.Fatalf("unexpected table\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestString_ShortRowsAndTitle(t *testing.T) {
	table := Table{Title: "Resumo", Header: []string{"A", "B"}, Rows: [][]string{{"x"}}}

	got := table.String()
	if !strings.HasPrefix(got, "Resumo\n\n") {
		t.Errorf("missing title: %q", got)
	}
	if !strings.Contains(got, "| x   |     |") {
		t.Errorf("short row not padded: %q", got)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := (Table{Header: []string{"Local"}}).Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "|\n\n") {
		t.Errorf("expected a trailing blank line, got %q", buf.String())
	}
}
