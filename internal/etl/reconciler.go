package etl

import (
	"time"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// DefaultLegacyVenue is the venue of every legacy row; the historical sheet
// predates the second venue.
const DefaultLegacyVenue = "Thai House"

// DatePolicy supplies the event date of rows that have none.
type DatePolicy interface {
	DefaultEventDate() time.Time
}

// FutureOffset places undated events Days days after Now. It marks them as
// upcoming without guessing a real date.
type FutureOffset struct {
	Days int
	Now  func() time.Time
}

// DefaultEventDate implements DatePolicy.
func (p FutureOffset) DefaultEventDate() time.Time {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return dateOnly(now().AddDate(0, 0, p.Days))
}

// FixedDate always returns the same date.
type FixedDate time.Time

// DefaultEventDate implements DatePolicy.
func (p FixedDate) DefaultEventDate() time.Time {
	return dateOnly(time.Time(p))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Reconciler brings the legacy sheet onto the canonical schema and merges it
// with the current-period records.
type Reconciler struct {
	legacyVenue string
	layouts     []string
	policy      DatePolicy
}

// NewReconciler builds a Reconciler. An empty legacyVenue falls back to
// DefaultLegacyVenue and a nil policy to FutureOffset{Days: 20}.
func NewReconciler(legacyVenue string, policy DatePolicy) *Reconciler {
	if legacyVenue == "" {
		legacyVenue = DefaultLegacyVenue
	}
	if policy == nil {
		policy = FutureOffset{Days: 20}
	}
	return &Reconciler{legacyVenue: legacyVenue, layouts: legacyDateLayouts, policy: policy}
}

// Legacy decodes the legacy sheet: columns are renamed to the canonical
// schema, columns with no counterpart are ignored, the venue is injected and
// every row keeps its forecast total.
func (r *Reconciler) Legacy(raw models.RawTable) ([]models.EventRecord, []models.Diagnostic) {
	dec := &rowDecoder{
		source:  models.SourceLegacy,
		index:   headerIndex(raw.Header, LegacyRenames),
		layouts: r.layouts,
	}
	venue := models.Venue(cleanText(r.legacyVenue))

	records := make([]models.EventRecord, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		rec := dec.decode(i+1, row)
		rec.Venue = venue
		rec.RetainForecast = true
		records = append(records, rec)
	}
	return records, dec.diags
}

// Merge concatenates legacy and current records into a new slice, legacy
// first, each in its original order.
func Merge(legacy, current []models.EventRecord) []models.EventRecord {
	out := make([]models.EventRecord, 0, len(legacy)+len(current))
	out = append(out, legacy...)
	return append(out, current...)
}

// ResolveDates returns a copy of records where every contact and event date
// is set. A missing contact date takes the event date; a missing event date
// comes from the policy and the record is flagged EventDateDefaulted.
func (r *Reconciler) ResolveDates(records []models.EventRecord) []models.EventRecord {
	out := make([]models.EventRecord, len(records))
	for i, rec := range records {
		if rec.ContactDate.IsZero() {
			rec.ContactDate = rec.EventDate
		}
		if rec.EventDate.IsZero() {
			rec.EventDate = r.policy.DefaultEventDate()
			rec.EventDateDefaulted = true
		}
		if rec.ContactDate.IsZero() {
			rec.ContactDate = rec.EventDate
		}
		out[i] = rec
	}
	return out
}
