package etl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

func newTestCanonicalizer(t *testing.T) *Canonicalizer {
	t.Helper()
	v, err := DefaultMenuVocabulary()
	if err != nil {
		t.Fatalf("DefaultMenuVocabulary failed: %v", err)
	}
	return NewCanonicalizer(v)
}

func TestCanonicalizer_Menu(t *testing.T) {
	c := newTestCanonicalizer(t)

	tests := []struct {
		in, label, group string
	}{
		{"Menu Koh Samet", "Koh Samet", "Econômico"},
		{"menu   phuket", "Phuket", "Padrão"},
		{"Ko Lanta", "Koh Lanta", "Padrão"},
		{"KOH SAMMET", "Koh Samet", "Econômico"},
		{"ma-li", "Ma-Li", "Fast"},
		{"Sushi-02", "Sushi-02", "River"},
		{NotInformed, "Não Informado", "Não definido"},
		{"a definir", "A Definir", "Não definido"},
		{"Dia dos Namorados", "Especial", "Especial"},
		{"Churrasco", "Especial", "Especial"},
		{"Koh", "Especial", "Especial"},
		{"", "Especial", "Especial"},
	}
	for _, tt := range tests {
		label, group := c.Menu(tt.in)
		if label != tt.label || group != tt.group {
			t.Errorf("Menu(%q) = (%q, %q), want (%q, %q)", tt.in, label, group, tt.label, tt.group)
		}
	}
}

func TestCanonicalizer_Idempotent(t *testing.T) {
	c := newTestCanonicalizer(t)
	in := []models.EventRecord{
		{Menu: "Menu ko pee pee", Company: "acme eventos ltda", Contact: "maria souza"},
		{Menu: "buffet livre", Company: NotInformed, Contact: NotInformed},
		{Menu: "KAFAE"},
	}

	once := c.Apply(in)
	twice := c.Apply(once)
	for i := range once {
		if once[i].Menu != twice[i].Menu || once[i].MenuGroup != twice[i].MenuGroup {
			t.Errorf("row %d not idempotent: %q -> %q", i, once[i].Menu, twice[i].Menu)
		}
		if once[i].Company != twice[i].Company || once[i].Contact != twice[i].Contact {
			t.Errorf("row %d names not idempotent", i)
		}
	}
	if once[0].Menu != "Koh Pee Pee" || once[1].Menu != "Especial" || once[2].Menu != "Kafae" {
		t.Errorf("unexpected labels: %q %q %q", once[0].Menu, once[1].Menu, once[2].Menu)
	}
	if once[0].Company != "Acme Eventos Ltda" || once[0].Contact != "Maria Souza" {
		t.Errorf("names not title-cased: %q / %q", once[0].Company, once[0].Contact)
	}
	if in[0].Menu != "Menu ko pee pee" {
		t.Error("Apply mutated its input")
	}
}

func TestLoadMenuVocabulary(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "menus.yaml")
	content := "fallback: Outro\ngroups:\n  - name: Casa\n    labels: [Pad Thai]\n"
	if err := os.WriteFile(valid, []byte(content), 0644); err != nil {
		t.Fatalf("write vocabulary: %v", err)
	}
	v, err := LoadMenuVocabulary(valid)
	if err != nil {
		t.Fatalf("LoadMenuVocabulary failed: %v", err)
	}
	c := NewCanonicalizer(v)
	if label, _ := c.Menu("pad thai"); label != "Pad Thai" {
		t.Errorf("custom label = %q", label)
	}
	if label, _ := c.Menu("phuket"); label != "Outro" {
		t.Errorf("custom fallback = %q", label)
	}

	dup := filepath.Join(dir, "dup.yaml")
	content = "fallback: Especial\ngroups:\n  - name: A\n    labels: [Krab]\n  - name: B\n    labels: [krab]\n"
	if err := os.WriteFile(dup, []byte(content), 0644); err != nil {
		t.Fatalf("write vocabulary: %v", err)
	}
	if _, err := LoadMenuVocabulary(dup); err == nil || !strings.Contains(err.Error(), "listed in both") {
		t.Errorf("expected duplicate label error, got %v", err)
	}

	if _, err := LoadMenuVocabulary(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
