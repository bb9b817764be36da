// Package report derives report tables from the clean event dataset. Every
// function is a pure transform: inputs are never modified and identical
// inputs give identical outputs.
package report

import (
	"fmt"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Criteria toggles the individual predicates of a Selection.
type Criteria struct {
	Venue bool
	Stage bool
	Year  bool
}

// AllCriteria activates every predicate.
var AllCriteria = Criteria{Venue: true, Stage: true, Year: true}

// Selection holds the values the dashboard filters on.
type Selection struct {
	Venues []models.Venue
	Stages []models.Stage
	Year   *int
}

// Year is a convenience for building a Selection.
func Year(y int) *int {
	return &y
}

// Apply keeps the records matching every active criterion. An active
// criterion without values filters nothing and is reported as a
// FilterNoOpWarning, so an empty selection is never mistaken for a real
// result.
func (s Selection) Apply(records []models.EventRecord, active Criteria) ([]models.EventRecord, []models.Diagnostic) {
	var diags []models.Diagnostic

	venues := make(map[models.Venue]bool, len(s.Venues))
	for _, v := range s.Venues {
		venues[v] = true
	}
	stages := make(map[models.Stage]bool, len(s.Stages))
	for _, st := range s.Stages {
		stages[st] = true
	}

	byVenue := active.Venue && len(venues) > 0
	if active.Venue && !byVenue {
		diags = append(diags, noOp("Local", "venue filter is active but no venue was selected; no venue filter applied"))
	}
	byStage := active.Stage && len(stages) > 0
	if active.Stage && !byStage {
		diags = append(diags, noOp("Etapa", "stage filter is active but no stage was selected; no stage filter applied"))
	}
	byYear := active.Year && s.Year != nil
	if active.Year && !byYear {
		diags = append(diags, noOp("Ano evento", "year filter is active but no year was selected; no year filter applied"))
	}

	out := make([]models.EventRecord, 0, len(records))
	for _, r := range records {
		if byVenue && !venues[r.Venue] {
			continue
		}
		if byStage && !stages[r.Stage] {
			continue
		}
		if byYear && r.Year != *s.Year {
			continue
		}
		out = append(out, r)
	}
	return out, diags
}

func noOp(column, msg string) models.Diagnostic {
	return models.Diagnostic{Kind: models.FilterNoOpWarning, Column: column, Message: msg}
}

// FromYear keeps records whose event year is at least minYear.
func FromYear(records []models.EventRecord, minYear int) []models.EventRecord {
	out := make([]models.EventRecord, 0, len(records))
	for _, r := range records {
		if r.Year >= minYear {
			out = append(out, r)
		}
	}
	return out
}

// InMonth keeps records of the given calendar month.
func InMonth(records []models.EventRecord, year, month int) []models.EventRecord {
	out := make([]models.EventRecord, 0)
	for _, r := range records {
		if r.Year == year && r.MonthNumber == month {
			out = append(out, r)
		}
	}
	return out
}

// String renders a selection for titles and logs.
func (s Selection) String() string {
	year := "all"
	if s.Year != nil {
		year = fmt.Sprint(*s.Year)
	}
	return fmt.Sprintf("venues=%v stages=%v year=%s", s.Venues, s.Stages, year)
}
