package etl

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

//go:embed menu_vocabulary.yaml
var defaultVocabulary []byte

var menuWord = regexp.MustCompile(`(?i)\bmenu\b\s?`)

// MenuGroup is a named set of canonical menu labels.
type MenuGroup struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

// MenuVocabulary is the closed set of menu labels plus the typo table.
type MenuVocabulary struct {
	Fallback string            `yaml:"fallback"`
	Typos    map[string]string `yaml:"typos"`
	Groups   []MenuGroup       `yaml:"groups"`
}

// DefaultMenuVocabulary returns the embedded vocabulary.
func DefaultMenuVocabulary() (MenuVocabulary, error) {
	return parseVocabulary(defaultVocabulary)
}

// LoadMenuVocabulary reads a vocabulary file; an empty path yields the
// embedded default.
func LoadMenuVocabulary(path string) (MenuVocabulary, error) {
	if path == "" {
		return DefaultMenuVocabulary()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return MenuVocabulary{}, fmt.Errorf("read menu vocabulary %s: %w", path, err)
	}
	return parseVocabulary(data)
}

func parseVocabulary(data []byte) (MenuVocabulary, error) {
	var v MenuVocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return MenuVocabulary{}, fmt.Errorf("parse menu vocabulary: %w", err)
	}
	if err := v.Validate(); err != nil {
		return MenuVocabulary{}, err
	}
	return v, nil
}

// Validate checks the vocabulary is usable as a closed-world classifier.
func (v MenuVocabulary) Validate() error {
	if v.Fallback == "" {
		return fmt.Errorf("menu vocabulary: fallback label must not be empty")
	}
	if len(v.Groups) == 0 {
		return fmt.Errorf("menu vocabulary: at least one group is required")
	}
	seen := make(map[string]string)
	for _, g := range v.Groups {
		if g.Name == "" {
			return fmt.Errorf("menu vocabulary: group without name")
		}
		for _, label := range g.Labels {
			key := foldKey(label)
			if key == foldKey(v.Fallback) {
				return fmt.Errorf("menu vocabulary: label %q collides with the fallback", label)
			}
			if other, dup := seen[key]; dup {
				return fmt.Errorf("menu vocabulary: label %q listed in both %q and %q", label, other, g.Name)
			}
			seen[key] = g.Name
		}
	}
	return nil
}

type menuEntry struct {
	label string
	group string
}

// Canonicalizer maps free-text menus onto the closed vocabulary and tidies
// the name fields.
type Canonicalizer struct {
	fallback string
	typos    map[string]string
	allowed  map[string]menuEntry
}

// NewCanonicalizer indexes the vocabulary for case-insensitive lookups.
func NewCanonicalizer(v MenuVocabulary) *Canonicalizer {
	c := &Canonicalizer{
		fallback: v.Fallback,
		typos:    make(map[string]string, len(v.Typos)),
		allowed:  make(map[string]menuEntry),
	}
	for from, to := range v.Typos {
		c.typos[foldKey(from)] = foldKey(to)
	}
	for _, g := range v.Groups {
		for _, label := range g.Labels {
			c.allowed[foldKey(label)] = menuEntry{label: label, group: g.Name}
		}
	}
	return c
}

// Menu returns the canonical label and group of a menu cell. Values outside
// the vocabulary map to the fallback label, which is also their group.
func (c *Canonicalizer) Menu(raw string) (label, group string) {
	key := foldKey(menuWord.ReplaceAllString(raw, ""))
	if fixed, ok := c.typos[key]; ok {
		key = fixed
	}
	if e, ok := c.allowed[key]; ok {
		return e.label, e.group
	}
	return c.fallback, c.fallback
}

// Apply returns a copy of records with canonical menus and title-cased
// company and contact names.
func (c *Canonicalizer) Apply(records []models.EventRecord) []models.EventRecord {
	out := make([]models.EventRecord, len(records))
	for i, r := range records {
		r.Menu, r.MenuGroup = c.Menu(r.Menu)
		r.Company = titleCase(r.Company)
		r.Contact = titleCase(r.Contact)
		out[i] = r
	}
	return out
}
