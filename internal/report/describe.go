package report

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Metric is a numeric column of the clean dataset.
type Metric struct {
	Name  string
	value func(models.EventRecord) float64
}

// Numeric metric columns, named after the display columns.
var (
	ForecastGuests = Metric{"Total convidados previsto", func(r models.EventRecord) float64 { return float64(r.TotalForecastGuests) }}
	ForecastValue  = Metric{"Valor total previsto", func(r models.EventRecord) float64 { return r.ForecastValue.InexactFloat64() }}
	PresentGuests  = Metric{"Total convidados presentes", func(r models.EventRecord) float64 { return float64(r.PresentTotalGuests) }}
	RealizedValue  = Metric{"Valor total realizado", func(r models.EventRecord) float64 { return r.RealizedValue.InexactFloat64() }}
)

// SummaryMetrics are the columns summarized by the statistics view.
var SummaryMetrics = []Metric{ForecastGuests, ForecastValue, PresentGuests, RealizedValue}

// ColumnStats is the descriptive summary of one metric. Fields that are
// undefined for the sample size are nil.
type ColumnStats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"25%"`
	Q50    *float64 `json:"50%"`
	Q75    *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

// Describe summarizes each metric over records: count, mean, sample
// standard deviation, min, linear-interpolated quartiles and max.
func Describe(records []models.EventRecord, metrics ...Metric) []ColumnStats {
	if len(metrics) == 0 {
		metrics = SummaryMetrics
	}
	out := make([]ColumnStats, 0, len(metrics))
	for _, m := range metrics {
		data := make(stats.Float64Data, len(records))
		for i, r := range records {
			data[i] = m.value(r)
		}
		out = append(out, describe(m.Name, data))
	}
	return out
}

func describe(name string, data stats.Float64Data) ColumnStats {
	cs := ColumnStats{Column: name, Count: data.Len()}
	if cs.Count == 0 {
		return cs
	}

	if mean, err := stats.Mean(data); err == nil {
		cs.Mean = &mean
	}
	if cs.Count > 1 {
		if std, err := stats.StandardDeviationSample(data); err == nil && !math.IsNaN(std) {
			cs.Std = &std
		}
	}
	if lo, err := stats.Min(data); err == nil {
		cs.Min = &lo
	}
	if hi, err := stats.Max(data); err == nil {
		cs.Max = &hi
	}

	sorted := append(stats.Float64Data(nil), data...)
	sort.Float64s(sorted)
	q25, q50, q75 := quantile(sorted, 0.25), quantile(sorted, 0.5), quantile(sorted, 0.75)
	cs.Q25, cs.Q50, cs.Q75 = &q25, &q50, &q75
	return cs
}

// quantile interpolates linearly between the closest ranks of sorted.
// stats.Percentile uses nearest-rank, which differs on small samples.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
