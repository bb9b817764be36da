package etl

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NotInformed fills empty text cells.
const NotInformed = "Não informado"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordRun    = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// cleanText trims, case-folds, capitalizes and collapses whitespace.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotInformed
	}
	s = cases.Fold().String(s)
	s = capitalize(s)
	return whitespaceRun.ReplaceAllString(s, " ")
}

// cleanContact drops punctuation from a contact name before cleaning it.
func cleanContact(s string) string {
	return cleanText(nonWordRun.ReplaceAllString(s, " "))
}

func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

func foldKey(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(cases.Fold().String(s)), " ")
}

func trimmedOr(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
