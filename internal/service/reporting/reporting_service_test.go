package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/locale"
	"github.com/mamadbah2/eventdash/internal/report"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type staticProvider struct {
	ds  *etl.Dataset
	err error
}

func (p staticProvider) Current(context.Context) (*etl.Dataset, error) {
	return p.ds, p.err
}

func record(venue models.Venue, stage models.Stage, year int, month time.Month, guests int, forecast, realized string) models.EventRecord {
	f := locale.Resolve("pt-BR")
	d := time.Date(year, month, 10, 0, 0, 0, 0, time.UTC)
	present := 0
	if stage == models.StageRealized {
		present = guests
	}
	return models.EventRecord{
		Venue:               venue,
		Stage:               stage,
		EventDate:           d,
		ContactDate:         d,
		TotalForecastGuests: guests,
		PresentTotalGuests:  present,
		ForecastValue:       decimal.RequireFromString(forecast),
		RealizedValue:       decimal.RequireFromString(realized),
		Year:                year,
		MonthNumber:         int(month),
		Month:               f.MonthAbbrev(month),
		Weekday:             f.Weekday(d.Weekday()),
		StageCode:           models.StageCodes(nil)[stage],
	}
}

func newTestService() *Service {
	ds := &etl.Dataset{
		RunID:      "run-1",
		Formatting: locale.Resolve("pt-BR"),
		Records: []models.EventRecord{
			record(models.VenueThaiHouse, models.StageRealized, 2026, time.September, 40, "4000", "4200"),
			record(models.VenueThaiHouse, models.StageClosed, 2026, time.September, 30, "3000", "0"),
			record(models.VenueRiver, models.StageNegotiation, 2026, time.September, 20, "2000", "0"),
			record(models.VenueRiver, models.StageRealized, 2025, time.March, 10, "1000", "1100"),
			record(models.VenueThaiHouse, models.StageRealized, 2024, time.July, 50, "5000", "5000"),
		},
	}
	return NewService(staticProvider{ds: ds}, func() time.Time { return fixedNow }, nil)
}

func TestMonthly_ReportsEmptyStageSelection(t *testing.T) {
	q := Query{
		Selection: report.Selection{Venues: []models.Venue{models.VenueThaiHouse}, Year: report.Year(2026)},
		Criteria:  report.AllCriteria,
	}

	view, err := newTestService().Monthly(context.Background(), q)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}

	if len(view.Diagnostics) != 1 || view.Diagnostics[0].Column != "Etapa" {
		t.Fatalf("expected a stage diagnostic, got %v", view.Diagnostics)
	}
	values := view.Tables["values"]
	if values.Len() != 2 {
		t.Fatalf("expected one month in two types, got %d rows", values.Len())
	}
	if !values.Rows[0].Value.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("unexpected forecast total %s", values.Rows[0].Value)
	}
}

func TestTickets_IgnoresStageCriterion(t *testing.T) {
	q := Query{Selection: report.Selection{Year: report.Year(2025)}, Criteria: report.Criteria{Stage: true, Year: true}}

	view, err := newTestService().Tickets(context.Background(), q)
	if err != nil {
		t.Fatalf("Tickets failed: %v", err)
	}
	if len(view.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", view.Diagnostics)
	}
	tickets := view.Tables["tickets"]
	if tickets.Len() != 1 || !tickets.Rows[0].Value.Equal(decimal.NewFromInt(110)) {
		t.Errorf("unexpected tickets %+v", tickets)
	}
}

func TestGuests_StartsAtGuestsFromYear(t *testing.T) {
	view, err := newTestService().Guests(context.Background())
	if err != nil {
		t.Fatalf("Guests failed: %v", err)
	}
	for _, row := range view.Tables["by_year"].Rows {
		if row.Key[0] < "2025" {
			t.Errorf("unexpected year %v", row.Key)
		}
	}
}

func TestStatsAndDetails(t *testing.T) {
	svc := newTestService()

	stats, err := svc.Stats(context.Background(), 2026)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	thai := stats.Venues[string(models.VenueThaiHouse)]
	if len(thai) != len(report.SummaryMetrics) || thai[0].Count != 2 {
		t.Errorf("unexpected Thai house stats %+v", thai)
	}

	details, err := svc.Details(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(details.Tables) != len(models.DeclaredStages) {
		t.Fatalf("expected one table per stage, got %d", len(details.Tables))
	}
	realized := details.Tables[string(models.StageRealized)]
	if realized.Columns[len(realized.Columns)-1] != "Valor total realizado" || len(realized.Rows) != 4 {
		t.Errorf("unexpected realized table %v", realized)
	}
}

func TestMonthlySummary(t *testing.T) {
	got, err := newTestService().MonthlySummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}

	if got.Year != 2026 || got.Month != 9 || got.MonthLabel != "Setembro" || got.RunID != "run-1" {
		t.Fatalf("unexpected period %+v", got)
	}
	if len(got.StageCounts) != 3 || got.StageCounts[0].Stage != string(models.StageNegotiation) || got.StageCounts[0].Venue != "River" {
		t.Errorf("unexpected stage counts %+v", got.StageCounts)
	}
	for _, want := range []string{"Setembro/2026", "Thai house", "River", "R$", "Etapas: Negociação 1, Fechado 1, Realizado 1"} {
		if !strings.Contains(got.Summary, want) {
			t.Errorf("summary missing %q:\n%s", want, got.Summary)
		}
	}
	if !got.CreatedAt.Equal(fixedNow) {
		t.Errorf("unexpected creation time %v", got.CreatedAt)
	}
}

func TestMonthlySummary_EmptyMonth(t *testing.T) {
	got, err := newTestService().MonthlySummary(context.Background(), 3)
	if err != nil {
		t.Fatalf("MonthlySummary failed: %v", err)
	}
	if !strings.Contains(got.Summary, "Nenhum evento") {
		t.Errorf("unexpected summary %q", got.Summary)
	}
}

func TestDatasetErrorsPropagate(t *testing.T) {
	svc := NewService(staticProvider{err: etl.ErrSourceUnavailable}, nil, nil)
	if _, err := svc.Filters(context.Background()); !errors.Is(err, etl.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
