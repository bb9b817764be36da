package etl

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Derive recomputes the forecast and realized totals of one record. Any
// totals already present on r are ignored.
func Derive(r models.EventRecord) models.EventRecord {
	r.TotalForecastGuests = r.ForecastGuests + r.ForecastKids
	r.ForecastValue = r.Price.Mul(decimal.NewFromInt(int64(r.ForecastGuests))).
		Add(r.KidPrice.Mul(decimal.NewFromInt(int64(r.ForecastKids))))

	if r.Stage != models.StageRealized {
		r.PresentTotalGuests = 0
		r.RealizedValue = decimal.Zero
		return r
	}

	r.PresentTotalGuests = r.PresentGuests + r.PresentKids
	if r.RetainForecast {
		r.RealizedValue = r.ForecastValue.Add(r.ExtraCharges)
	} else {
		r.RealizedValue = r.Price.Mul(decimal.NewFromInt(int64(r.PresentGuests))).
			Add(r.KidPrice.Mul(decimal.NewFromInt(int64(r.PresentKids)))).
			Add(r.ExtraCharges)
	}
	return r
}

// DeriveAll applies Derive to every record and returns a new slice.
func DeriveAll(records []models.EventRecord) []models.EventRecord {
	out := make([]models.EventRecord, len(records))
	for i, r := range records {
		out[i] = Derive(r)
	}
	return out
}
