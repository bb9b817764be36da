package report

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// MetricTicket names the average ticket column.
const MetricTicket = "Ticket médio"

// TicketAverage computes realized value per present guest for each
// (Local, Ano evento) group of realized events, rounded to cents. Groups
// without present guests average 0.
func TicketAverage(records []models.EventRecord) models.ReportTable {
	realized := make([]models.EventRecord, 0, len(records))
	for _, r := range records {
		if r.Stage == models.StageRealized {
			realized = append(realized, r)
		}
	}

	totals := SumBy(realized, ByVenue, ByYear)
	out := models.ReportTable{Keys: totals.Keys, Metric: MetricTicket}
	for _, g := range totals.Groups {
		avg := decimal.Zero
		if g.PresentGuests > 0 {
			avg = g.RealizedValue.DivRound(decimal.NewFromInt(int64(g.PresentGuests)), 2)
		}
		out.Rows = append(out.Rows, models.ReportRow{Key: g.Key, Value: avg})
	}
	return out
}
