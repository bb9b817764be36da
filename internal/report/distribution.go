package report

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// DefaultBins is the number of guest-count ranges of a distribution.
const DefaultBins = 10

// MaxBins caps the number of ranges of a distribution.
const MaxBins = 100

// Bin is one guest-count range of a GuestDistribution. Lower is inclusive;
// Upper is exclusive except for the last bin.
type Bin struct {
	Lower    float64         `json:"lower"`
	Upper    float64         `json:"upper"`
	Count    int             `json:"count"`
	CountPct decimal.Decimal `json:"count_pct"`
	Value    decimal.Decimal `json:"value"`
	ValuePct decimal.Decimal `json:"value_pct"`
}

// Distribution spreads the realized events of one venue and year over
// equal-width ranges of present guests.
type Distribution struct {
	Venue  models.Venue    `json:"venue"`
	Year   int             `json:"year"`
	Events int             `json:"events"`
	Total  decimal.Decimal `json:"total"`
	Bins   []Bin           `json:"bins"`
}

// GuestDistribution bins realized events with a positive realized value and
// at least one present guest. nbins <= 0 means DefaultBins and nbins is
// capped at MaxBins. An empty selection yields no bins.
func GuestDistribution(records []models.EventRecord, venue models.Venue, year, nbins int) Distribution {
	if nbins <= 0 {
		nbins = DefaultBins
	}
	if nbins > MaxBins {
		nbins = MaxBins
	}
	d := Distribution{Venue: venue, Year: year, Total: decimal.Zero}

	var picked []models.EventRecord
	for _, r := range records {
		if r.Stage != models.StageRealized || r.Venue != venue || r.Year != year {
			continue
		}
		if !r.RealizedValue.IsPositive() || r.PresentTotalGuests <= 0 {
			continue
		}
		picked = append(picked, r)
		d.Total = d.Total.Add(r.RealizedValue)
	}
	d.Events = len(picked)
	if d.Events == 0 {
		return d
	}

	lo, hi := float64(picked[0].PresentTotalGuests), float64(picked[0].PresentTotalGuests)
	for _, r := range picked[1:] {
		g := float64(r.PresentTotalGuests)
		if g < lo {
			lo = g
		}
		if g > hi {
			hi = g
		}
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(nbins)

	d.Bins = make([]Bin, nbins)
	for i := range d.Bins {
		d.Bins[i] = Bin{
			Lower: lo + float64(i)*width,
			Upper: lo + float64(i+1)*width,
			Value: decimal.Zero,
		}
	}
	d.Bins[nbins-1].Upper = hi

	for _, r := range picked {
		i := int((float64(r.PresentTotalGuests) - lo) / width)
		if i >= nbins {
			i = nbins - 1
		}
		d.Bins[i].Count++
		d.Bins[i].Value = d.Bins[i].Value.Add(r.RealizedValue)
	}

	events := decimal.NewFromInt(int64(d.Events))
	hundred := decimal.NewFromInt(100)
	for i := range d.Bins {
		b := &d.Bins[i]
		b.CountPct = decimal.NewFromInt(int64(b.Count)).Mul(hundred).DivRound(events, 2)
		b.ValuePct = b.Value.Mul(hundred).DivRound(d.Total, 2)
	}
	return d
}
