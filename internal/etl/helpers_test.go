package etl

import (
	"context"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// sheet builds a current-period table with every required column, using
// display-style headers so header normalization is exercised too.
func sheet(rows ...map[string]string) models.RawTable {
	header := make([]string, len(RequiredColumns))
	for i, c := range RequiredColumns {
		header[i] = " " + DisplayColumn(c) + " "
	}
	t := models.RawTable{Header: header}
	for _, r := range rows {
		cells := make([]string, len(RequiredColumns))
		for i, c := range RequiredColumns {
			cells[i] = r[c]
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func booking(venue, stage, eventDate string) map[string]string {
	return map[string]string{
		ColVenue:          venue,
		ColStage:          stage,
		ColEventDate:      eventDate,
		ColForecastGuests: "10",
		ColPrice:          "100",
		ColRetainForecast: "TRUE",
	}
}

type staticSource struct {
	table models.RawTable
	err   error
}

func (s staticSource) Fetch(context.Context) (models.RawTable, error) {
	return s.table, s.err
}
