package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mamadbah2/eventdash/internal/etl"
)

func TestParse(t *testing.T) {
	doc := "\ufeffLocal,Empresa,Preço\n" +
		"River,\"Acme, Ltda\",\"100,50\"\n" +
		"Thai house\n" +
		"River,Beta,10,extra\n"

	got, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !reflect.DeepEqual(got.Header, []string{"Local", "Empresa", "Preço"}) {
		t.Errorf("unexpected header %q", got.Header)
	}
	want := [][]string{
		{"River", "Acme, Ltda", "100,50"},
		{"Thai house", "", ""},
		{"River", "Beta", "10"},
	}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("unexpected rows\n got %q\nwant %q", got.Rows, want)
	}
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse(strings.NewReader(""))
	if err != nil || !got.IsEmpty() {
		t.Fatalf("expected empty table, got %+v, %v", got, err)
	}
}

func TestSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.csv")
	if err := os.WriteFile(path, []byte("resp_evento,data_evento\nAna,2023-05-10\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := Source{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got.Len() != 1 || got.Rows[0][0] != "Ana" {
		t.Errorf("unexpected table %+v", got)
	}

	_, err = Source{Path: filepath.Join(t.TempDir(), "missing.csv")}.Fetch(context.Background())
	if !errors.Is(err, etl.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}
