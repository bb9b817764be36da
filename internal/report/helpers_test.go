package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/locale"
)

var ptBR = locale.Resolve("pt-BR")

// event builds an enriched record dated on an ISO date.
func event(venue models.Venue, stage models.Stage, date string) models.EventRecord {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	codes := models.StageCodes([]models.Stage{stage})
	return models.EventRecord{
		Venue:          venue,
		Responsible:    "Ana",
		Company:        "Acme",
		Contact:        "Maria",
		ContactDate:    d,
		EventDate:      d,
		Stage:          stage,
		Menu:           "Phuket",
		MenuGroup:      "Padrão",
		RetainForecast: true,
		Price:          decimal.Zero,
		KidPrice:       decimal.Zero,
		Deposit:        decimal.Zero,
		ExtraCharges:   decimal.Zero,
		ForecastValue:  decimal.Zero,
		RealizedValue:  decimal.Zero,
		Year:           d.Year(),
		MonthNumber:    int(d.Month()),
		Month:          ptBR.MonthAbbrev(d.Month()),
		Weekday:        ptBR.Weekday(d.Weekday()),
		StageCode:      codes[stage],
	}
}

func withForecast(r models.EventRecord, guests int, value string) models.EventRecord {
	r.TotalForecastGuests = guests
	r.ForecastGuests = guests
	r.ForecastValue = decimal.RequireFromString(value)
	return r
}

func withRealized(r models.EventRecord, guests int, value string) models.EventRecord {
	r.PresentTotalGuests = guests
	r.PresentGuests = guests
	r.RealizedValue = decimal.RequireFromString(value)
	return r
}

func clone(records []models.EventRecord) []models.EventRecord {
	return append([]models.EventRecord(nil), records...)
}
