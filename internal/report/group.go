package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Dimension is a column records can be grouped by.
type Dimension struct {
	Name  string
	value func(models.EventRecord) string
	order func(models.EventRecord) string
}

// Grouping dimensions, named after the display columns.
var (
	ByVenue = Dimension{
		Name:  "Local",
		value: func(r models.EventRecord) string { return string(r.Venue) },
	}
	ByStage = Dimension{
		Name:  "Etapa",
		value: func(r models.EventRecord) string { return string(r.Stage) },
		order: func(r models.EventRecord) string { return fmt.Sprintf("%03d", r.StageCode) },
	}
	ByYear = Dimension{
		Name:  "Ano evento",
		value: func(r models.EventRecord) string { return strconv.Itoa(r.Year) },
		order: func(r models.EventRecord) string { return fmt.Sprintf("%06d", r.Year) },
	}
	ByMonth = Dimension{
		Name:  "Mes evento",
		value: func(r models.EventRecord) string { return r.Month },
		order: func(r models.EventRecord) string { return fmt.Sprintf("%02d", r.MonthNumber) },
	}
	ByWeekday = Dimension{
		Name:  "Dia semana",
		value: func(r models.EventRecord) string { return r.Weekday },
		order: func(r models.EventRecord) string { return strconv.Itoa(int(r.EventDate.Weekday())) },
	}
	ByMenu = Dimension{
		Name:  "Cardápio",
		value: func(r models.EventRecord) string { return r.Menu },
	}
	ByMenuGroup = Dimension{
		Name:  "Grupo cardápio",
		value: func(r models.EventRecord) string { return r.MenuGroup },
	}
)

// DimensionByName resolves a display column name to its Dimension.
func DimensionByName(name string) (Dimension, bool) {
	for _, d := range []Dimension{ByVenue, ByStage, ByYear, ByMonth, ByWeekday, ByMenu, ByMenuGroup} {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Dimension{}, false
}

func (d Dimension) sortKey(r models.EventRecord) string {
	if d.order != nil {
		return d.order(r)
	}
	return d.value(r)
}

type bucket struct {
	key     []string
	sortKey []string
	records []models.EventRecord
}

// groupBy buckets records by the given dimensions, in ascending key order.
func groupBy(records []models.EventRecord, dims []Dimension) []*bucket {
	index := make(map[string]*bucket)
	var buckets []*bucket
	for _, r := range records {
		key := make([]string, len(dims))
		sk := make([]string, len(dims))
		for i, d := range dims {
			key[i] = d.value(r)
			sk[i] = d.sortKey(r)
		}
		id := strings.Join(sk, "\x00") + "\x01" + strings.Join(key, "\x00")
		b, ok := index[id]
		if !ok {
			b = &bucket{key: key, sortKey: sk}
			index[id] = b
			buckets = append(buckets, b)
		}
		b.records = append(b.records, r)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		for k := range a.sortKey {
			if a.sortKey[k] != b.sortKey[k] {
				return a.sortKey[k] < b.sortKey[k]
			}
			if a.key[k] != b.key[k] {
				return a.key[k] < b.key[k]
			}
		}
		return false
	})
	return buckets
}

func dimNames(dims []Dimension) []string {
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.Name
	}
	return names
}

// GroupTotals holds the summed metrics of one group.
type GroupTotals struct {
	Key            []string
	Events         int
	ForecastValue  decimal.Decimal
	RealizedValue  decimal.Decimal
	ForecastGuests int
	PresentGuests  int
}

// Totals is the grouped sum of the numeric metric columns.
type Totals struct {
	Keys   []string
	Groups []GroupTotals
}

// SumBy groups records by dims and sums forecast/realized values and
// forecast/present guest totals.
func SumBy(records []models.EventRecord, dims ...Dimension) Totals {
	t := Totals{Keys: dimNames(dims)}
	for _, b := range groupBy(records, dims) {
		g := GroupTotals{Key: b.key, ForecastValue: decimal.Zero, RealizedValue: decimal.Zero}
		for _, r := range b.records {
			g.Events++
			g.ForecastValue = g.ForecastValue.Add(r.ForecastValue)
			g.RealizedValue = g.RealizedValue.Add(r.RealizedValue)
			g.ForecastGuests += r.TotalForecastGuests
			g.PresentGuests += r.PresentTotalGuests
		}
		t.Groups = append(t.Groups, g)
	}
	return t
}

// SumByVenueStage groups by (Local, Etapa).
func SumByVenueStage(records []models.EventRecord) Totals {
	return SumBy(records, ByVenue, ByStage)
}

// SumByVenueYear groups by (Ano evento, Local).
func SumByVenueYear(records []models.EventRecord) Totals {
	return SumBy(records, ByYear, ByVenue)
}

// SumByVenueMonth groups by (Mes evento, Local).
func SumByVenueMonth(records []models.EventRecord) Totals {
	return SumBy(records, ByMonth, ByVenue)
}

// Value metric names of the melted tables.
const (
	MetricValue  = "valor total"
	MetricGuests = "total convidados"
	MetricCount  = "Contagem"
)

// MeltValue reshapes forecast/realized values into long format: all
// "Previsto" rows first, then all "Realizado" rows.
func MeltValue(t Totals) models.ReportTable {
	return melt(t, MetricValue,
		models.TypeForecast, func(g GroupTotals) decimal.Decimal { return g.ForecastValue },
		models.TypeRealized, func(g GroupTotals) decimal.Decimal { return g.RealizedValue })
}

// MeltGuests reshapes forecast/present guest totals into long format.
func MeltGuests(t Totals) models.ReportTable {
	return melt(t, MetricGuests,
		models.TypeForecast, func(g GroupTotals) decimal.Decimal { return decimal.NewFromInt(int64(g.ForecastGuests)) },
		models.TypePresent, func(g GroupTotals) decimal.Decimal { return decimal.NewFromInt(int64(g.PresentGuests)) })
}

func melt(t Totals, metric string, firstType string, first func(GroupTotals) decimal.Decimal, secondType string, second func(GroupTotals) decimal.Decimal) models.ReportTable {
	out := models.ReportTable{Keys: t.Keys, Metric: metric, Rows: make([]models.ReportRow, 0, 2*len(t.Groups))}
	for _, g := range t.Groups {
		out.Rows = append(out.Rows, models.ReportRow{Key: g.Key, Type: firstType, Value: first(g)})
	}
	for _, g := range t.Groups {
		out.Rows = append(out.Rows, models.ReportRow{Key: g.Key, Type: secondType, Value: second(g)})
	}
	return out
}

// CountBy counts records per group. metric names the count column; an empty
// metric defaults to MetricCount.
func CountBy(records []models.EventRecord, metric string, dims ...Dimension) models.ReportTable {
	if metric == "" {
		metric = MetricCount
	}
	out := models.ReportTable{Keys: dimNames(dims), Metric: metric}
	for _, b := range groupBy(records, dims) {
		out.Rows = append(out.Rows, models.ReportRow{Key: b.key, Value: decimal.NewFromInt(int64(len(b.records)))})
	}
	return out
}
