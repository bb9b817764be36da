package report

import (
	"time"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/locale"
)

// MetricStageCount names the per-stage event count of a panel.
const MetricStageCount = "Contagem Etapa"

// Panel is the performance summary of one calendar month.
type Panel struct {
	Year        int                `json:"year"`
	Month       time.Month         `json:"month"`
	MonthLabel  string             `json:"month_label"`
	Events      int                `json:"events"`
	Values      models.ReportTable `json:"values"`
	Guests      models.ReportTable `json:"guests"`
	StageCounts models.ReportTable `json:"stage_counts"`
	Accumulated models.ReportTable `json:"accumulated"`
}

// PanelMonth returns the first day of the calendar month monthsBack months
// before now.
func PanelMonth(now time.Time, monthsBack int) time.Time {
	return time.Date(now.Year(), now.Month()-time.Month(monthsBack), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyPanel reports the month monthsBack months before now: values and
// guests by (Local, Etapa) in long format, event counts by (Etapa, Local),
// and the value accumulated by (Ano evento, Local) over all records.
func MonthlyPanel(records []models.EventRecord, now time.Time, monthsBack int, f locale.Formatting) Panel {
	month := PanelMonth(now, monthsBack)
	inMonth := InMonth(records, month.Year(), int(month.Month()))
	totals := SumByVenueStage(inMonth)

	accumulated := MeltValue(SumByVenueYear(records))
	accumulated.Metric = MetricValue + " acumulado"

	return Panel{
		Year:        month.Year(),
		Month:       month.Month(),
		MonthLabel:  f.MonthName(month.Month()),
		Events:      len(inMonth),
		Values:      MeltValue(totals),
		Guests:      MeltGuests(totals),
		StageCounts: CountBy(inMonth, MetricStageCount, ByStage, ByVenue),
		Accumulated: accumulated,
	}
}
