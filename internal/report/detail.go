package report

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/locale"
)

// TotalLabel marks the trailing sum row of a detail table.
const TotalLabel = "Total"

var detailColumns = []string{
	"Resp", "Local", "Etapa", "Total convidados previsto", "Data evento",
	"Horário início", "Empresa", "Contato",
}

// DetailTable lists the events of one stage followed by a "Total" row that
// sums the guest and value columns. forecast selects the forecast value
// column, otherwise the realized one.
func DetailTable(records []models.EventRecord, stage models.Stage, forecast bool, f locale.Formatting) models.Table {
	valueCol := RealizedValue
	if forecast {
		valueCol = ForecastValue
	}
	cols := append(append([]string(nil), detailColumns...), valueCol.Name)

	var (
		rows   [][]any
		guests int
		value  = decimal.Zero
	)
	for _, r := range records {
		if r.Stage != stage {
			continue
		}
		v := r.RealizedValue
		if forecast {
			v = r.ForecastValue
		}
		start := ""
		if r.StartTime != nil {
			start = r.StartTime.String()
		}
		rows = append(rows, []any{
			r.Responsible, string(r.Venue), string(r.Stage), r.TotalForecastGuests,
			f.FormatDate(r.EventDate), start, r.Company, r.Contact, v.InexactFloat64(),
		})
		guests += r.TotalForecastGuests
		value = value.Add(v)
	}
	rows = append(rows, []any{TotalLabel, "", "", guests, "", "", "", "", value.InexactFloat64()})

	return models.Table{Columns: cols, Rows: rows}
}
