package etl

import (
	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/locale"
)

// Enricher derives calendar dimensions and stage codes.
type Enricher struct {
	format locale.Formatting
}

// NewEnricher uses f for month and weekday labels.
func NewEnricher(f locale.Formatting) *Enricher {
	return &Enricher{format: f}
}

// Apply returns a copy of records with Year, MonthNumber, Month, Weekday and
// StageCode set. Event dates must already be resolved.
func (e *Enricher) Apply(records []models.EventRecord) []models.EventRecord {
	stages := make([]models.Stage, len(records))
	for i, r := range records {
		stages[i] = r.Stage
	}
	codes := models.StageCodes(stages)

	out := make([]models.EventRecord, len(records))
	for i, r := range records {
		r.Year = r.EventDate.Year()
		r.MonthNumber = int(r.EventDate.Month())
		r.Month = e.format.MonthAbbrev(r.EventDate.Month())
		r.Weekday = e.format.Weekday(r.EventDate.Weekday())
		r.StageCode = codes[r.Stage]
		out[i] = r
	}
	return out
}
