package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/report"
)

// GuestsFromYear is the first event year included in the guest views.
const GuestsFromYear = 2025

// DatasetProvider hands out the current clean dataset.
type DatasetProvider interface {
	Current(ctx context.Context) (*etl.Dataset, error)
}

// Query selects the records a view is computed from.
type Query struct {
	Selection report.Selection
	Criteria  report.Criteria
}

// TablesView groups the report tables of one dashboard view.
type TablesView struct {
	RunID       string                        `json:"run_id"`
	Selection   string                        `json:"selection,omitempty"`
	Tables      map[string]models.ReportTable `json:"tables"`
	Diagnostics []models.Diagnostic           `json:"diagnostics,omitempty"`
}

// EventsView is the filtered clean dataset.
type EventsView struct {
	RunID       string              `json:"run_id"`
	Selection   string              `json:"selection"`
	Events      models.Table        `json:"events"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

// StatsView holds descriptive statistics per venue.
type StatsView struct {
	RunID  string                          `json:"run_id"`
	Year   int                             `json:"year"`
	Venues map[string][]report.ColumnStats `json:"venues"`
}

// DetailsView holds one detail table per stage.
type DetailsView struct {
	RunID       string                  `json:"run_id"`
	Selection   string                  `json:"selection"`
	Tables      map[string]models.Table `json:"tables"`
	Diagnostics []models.Diagnostic     `json:"diagnostics,omitempty"`
}

// Service exposes the dashboard views computed from the cached dataset.
type Service struct {
	datasets DatasetProvider
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(datasets DatasetProvider, now func() time.Time, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{datasets: datasets, now: now, logger: logger}
}

func (s *Service) filtered(ctx context.Context, q Query) (*etl.Dataset, []models.EventRecord, []models.Diagnostic, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	records, diags := q.Selection.Apply(ds.Records, q.Criteria)
	for _, d := range diags {
		s.logger.Warn("filter criterion ignored",
			zap.String("run_id", ds.RunID),
			zap.String("column", d.Column),
			zap.String("message", d.Message))
	}
	return ds, records, diags, nil
}

// Events returns the filtered dataset with display column names.
func (s *Service) Events(ctx context.Context, q Query) (EventsView, error) {
	ds, records, diags, err := s.filtered(ctx, q)
	if err != nil {
		return EventsView{}, err
	}
	view := etl.Dataset{Records: records}
	return EventsView{
		RunID:       ds.RunID,
		Selection:   q.Selection.String(),
		Events:      view.Table(),
		Diagnostics: diags,
	}, nil
}

// Filters lists the values each filter can take.
func (s *Service) Filters(ctx context.Context) (report.Options, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return report.Options{}, fmt.Errorf("load dataset: %w", err)
	}
	return report.FilterOptions(ds.Records), nil
}

// Monthly reports value and volume by month and venue for the selection.
func (s *Service) Monthly(ctx context.Context, q Query) (TablesView, error) {
	ds, records, diags, err := s.filtered(ctx, q)
	if err != nil {
		return TablesView{}, err
	}
	return TablesView{
		RunID:     ds.RunID,
		Selection: q.Selection.String(),
		Tables: map[string]models.ReportTable{
			"values": report.MeltValue(report.SumByVenueMonth(records)),
			"counts": report.CountBy(records, "", report.ByMonth, report.ByVenue),
		},
		Diagnostics: diags,
	}, nil
}

// Yearly reports value and volume by year and venue over every record.
func (s *Service) Yearly(ctx context.Context) (TablesView, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return TablesView{}, fmt.Errorf("load dataset: %w", err)
	}
	return TablesView{
		RunID: ds.RunID,
		Tables: map[string]models.ReportTable{
			"values": report.MeltValue(report.SumByVenueYear(ds.Records)),
			"counts": report.CountBy(ds.Records, "", report.ByYear, report.ByVenue),
		},
	}, nil
}

// Guests compares forecast and present guests by year and by month, from
// GuestsFromYear on.
func (s *Service) Guests(ctx context.Context) (TablesView, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return TablesView{}, fmt.Errorf("load dataset: %w", err)
	}
	recent := report.FromYear(ds.Records, GuestsFromYear)
	return TablesView{
		RunID: ds.RunID,
		Tables: map[string]models.ReportTable{
			"by_year":  report.MeltGuests(report.SumBy(recent, report.ByYear, report.ByVenue)),
			"by_month": report.MeltGuests(report.SumBy(recent, report.ByMonth, report.ByVenue)),
		},
	}, nil
}

// Counts reports event volume per venue for each requested dimension.
// Without dimensions it covers month, weekday, stage and menu.
func (s *Service) Counts(ctx context.Context, q Query, dims ...report.Dimension) (TablesView, error) {
	if len(dims) == 0 {
		dims = []report.Dimension{report.ByMonth, report.ByWeekday, report.ByStage, report.ByMenu}
	}
	ds, records, diags, err := s.filtered(ctx, q)
	if err != nil {
		return TablesView{}, err
	}
	tables := make(map[string]models.ReportTable, len(dims))
	for _, d := range dims {
		tables[d.Name] = report.CountBy(records, "", report.ByVenue, d)
	}
	return TablesView{RunID: ds.RunID, Selection: q.Selection.String(), Tables: tables, Diagnostics: diags}, nil
}

// Stats describes closed and realized events of each venue in a year.
func (s *Service) Stats(ctx context.Context, year int) (StatsView, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return StatsView{}, fmt.Errorf("load dataset: %w", err)
	}
	view := StatsView{RunID: ds.RunID, Year: year, Venues: make(map[string][]report.ColumnStats)}
	for _, venue := range report.Venues(ds.Records) {
		sel := report.Selection{
			Venues: []models.Venue{venue},
			Stages: []models.Stage{models.StageRealized, models.StageClosed},
			Year:   report.Year(year),
		}
		records, _ := sel.Apply(ds.Records, report.AllCriteria)
		view.Venues[string(venue)] = report.Describe(records)
	}
	return view, nil
}

// Tickets reports the average ticket per venue and year. Stage selection
// does not apply.
func (s *Service) Tickets(ctx context.Context, q Query) (TablesView, error) {
	q.Criteria.Stage = false
	ds, records, diags, err := s.filtered(ctx, q)
	if err != nil {
		return TablesView{}, err
	}
	return TablesView{
		RunID:       ds.RunID,
		Selection:   q.Selection.String(),
		Tables:      map[string]models.ReportTable{"tickets": report.TicketAverage(records)},
		Diagnostics: diags,
	}, nil
}

// Distribution spreads the realized events of a venue over guest ranges.
func (s *Service) Distribution(ctx context.Context, venue models.Venue, year, bins int) (report.Distribution, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return report.Distribution{}, fmt.Errorf("load dataset: %w", err)
	}
	return report.GuestDistribution(ds.Records, venue, year, bins), nil
}

// Details lists the selected events of each declared stage. Realized
// events show realized values, the others forecast values.
func (s *Service) Details(ctx context.Context, q Query) (DetailsView, error) {
	ds, records, diags, err := s.filtered(ctx, q)
	if err != nil {
		return DetailsView{}, err
	}
	tables := make(map[string]models.Table, len(models.DeclaredStages))
	for _, stage := range models.DeclaredStages {
		tables[string(stage)] = report.DetailTable(records, stage, stage != models.StageRealized, ds.Formatting)
	}
	return DetailsView{RunID: ds.RunID, Selection: q.Selection.String(), Tables: tables, Diagnostics: diags}, nil
}

// Panel returns the monthly performance panel monthsBack months ago.
func (s *Service) Panel(ctx context.Context, monthsBack int) (report.Panel, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load dataset: %w", err)
	}
	return report.MonthlyPanel(ds.Records, s.now(), monthsBack, ds.Formatting), nil
}

// MonthlySummary builds the archived snapshot and message text of the
// month monthsBack months ago.
func (s *Service) MonthlySummary(ctx context.Context, monthsBack int) (models.MonthlyReport, error) {
	ds, err := s.datasets.Current(ctx)
	if err != nil {
		return models.MonthlyReport{}, fmt.Errorf("load dataset: %w", err)
	}
	now := s.now()
	panel := report.MonthlyPanel(ds.Records, now, monthsBack, ds.Formatting)

	return models.MonthlyReport{
		RunID:       ds.RunID,
		Year:        panel.Year,
		Month:       int(panel.Month),
		MonthLabel:  panel.MonthLabel,
		Values:      archive(panel.Values, 0, 1),
		Guests:      archive(panel.Guests, 0, 1),
		StageCounts: archive(panel.StageCounts, 1, 0),
		Summary:     summaryText(ds, panel),
		CreatedAt:   now,
	}, nil
}

func archive(t models.ReportTable, venueKey, stageKey int) []models.ArchivedRow {
	rows := make([]models.ArchivedRow, 0, t.Len())
	for _, r := range t.Rows {
		rows = append(rows, models.ArchivedRow{
			Venue: r.Key[venueKey],
			Stage: r.Key[stageKey],
			Type:  r.Type,
			Value: r.Value.InexactFloat64(),
		})
	}
	return rows
}

func summaryText(ds *etl.Dataset, panel report.Panel) string {
	f := ds.Formatting
	var b strings.Builder
	fmt.Fprintf(&b, "Resumo de eventos - %s/%d\n", panel.MonthLabel, panel.Year)

	month := report.InMonth(ds.Records, panel.Year, int(panel.Month))
	if len(month) == 0 {
		b.WriteString("Nenhum evento registrado no período.")
		return b.String()
	}

	for _, g := range report.SumBy(month, report.ByVenue).Groups {
		fmt.Fprintf(&b, "%s: %s eventos | Previsto %s | Realizado %s | Convidados %s/%s\n",
			g.Key[0],
			f.FormatInt(int64(g.Events)),
			f.FormatMoney(g.ForecastValue),
			f.FormatMoney(g.RealizedValue),
			f.FormatInt(int64(g.ForecastGuests)),
			f.FormatInt(int64(g.PresentGuests)))
	}

	counts := report.CountBy(month, "", report.ByStage)
	parts := make([]string, 0, counts.Len())
	for _, r := range counts.Rows {
		parts = append(parts, fmt.Sprintf("%s %s", r.Key[0], r.Value.String()))
	}
	fmt.Fprintf(&b, "Etapas: %s", strings.Join(parts, ", "))
	return b.String()
}
