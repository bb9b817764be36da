package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/locale"
	"github.com/mamadbah2/eventdash/internal/server/handlers"
	"github.com/mamadbah2/eventdash/internal/service/reporting"
)

type provider struct {
	ds       *etl.Dataset
	err      error
	loadedAt time.Time
}

func (p *provider) Current(context.Context) (*etl.Dataset, error) { return p.ds, p.err }

func (p *provider) Refresh(context.Context) (*etl.Dataset, error) { return p.ds, p.err }

func (p *provider) LoadedAt() time.Time { return p.loadedAt }

type archive struct {
	reports []models.MonthlyReport
	limit   int64
}

func (a *archive) ListMonthlyReports(_ context.Context, limit int64) ([]models.MonthlyReport, error) {
	a.limit = limit
	if int64(len(a.reports)) > limit {
		return a.reports[:limit], nil
	}
	return a.reports, nil
}

func testDataset() *etl.Dataset {
	f := locale.Resolve("pt-BR")
	d := time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC)
	rec := func(venue models.Venue, stage models.Stage) models.EventRecord {
		return models.EventRecord{
			Venue:               venue,
			Stage:               stage,
			EventDate:           d,
			ContactDate:         d,
			TotalForecastGuests: 30,
			ForecastValue:       decimal.NewFromInt(3000),
			RealizedValue:       decimal.Zero,
			Year:                d.Year(),
			MonthNumber:         int(d.Month()),
			Month:               f.MonthAbbrev(d.Month()),
			Weekday:             f.Weekday(d.Weekday()),
			StageCode:           models.StageCodes(nil)[stage],
		}
	}
	return &etl.Dataset{
		RunID:      "run-42",
		Formatting: f,
		Records: []models.EventRecord{
			rec(models.VenueThaiHouse, models.StageClosed),
			rec(models.VenueRiver, models.StageNegotiation),
		},
	}
}

func newEngine(p *provider) http.Handler {
	return newEngineWithArchive(p, nil)
}

func newEngineWithArchive(p *provider, a handlers.ArchiveReader) http.Handler {
	svc := reporting.NewService(p, func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }, nil)
	return New(handlers.NewReportHandler(svc, p, a, nil), nil)
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s %s: invalid json %q: %v", method, target, rec.Body.String(), err)
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, newEngine(&provider{ds: testDataset()}), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || body["status"] != "ok" || body["dataset_loaded_at"] != nil {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}

	loaded := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	_, body = do(t, newEngine(&provider{ds: testDataset(), loadedAt: loaded}), http.MethodGet, "/healthz")
	if body["dataset_loaded_at"] != "2026-10-19T08:30:00Z" {
		t.Errorf("dataset_loaded_at = %v", body["dataset_loaded_at"])
	}
}

func TestArchive(t *testing.T) {
	p := &provider{ds: testDataset()}

	if rec, _ := do(t, newEngine(p), http.MethodGet, "/api/reports/archive"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without an archive, got %d", rec.Code)
	}

	a := &archive{reports: []models.MonthlyReport{
		{Year: 2026, Month: 9, MonthLabel: "Setembro"},
		{Year: 2026, Month: 8, MonthLabel: "Agosto"},
	}}
	h := newEngineWithArchive(p, a)

	rec, body := do(t, h, http.MethodGet, "/api/reports/archive?limit=1")
	if rec.Code != http.StatusOK || a.limit != 1 {
		t.Fatalf("unexpected response %d %v (limit %d)", rec.Code, body, a.limit)
	}
	reports, _ := body["reports"].([]any)
	if len(reports) != 1 || reports[0].(map[string]any)["month_label"] != "Setembro" {
		t.Errorf("unexpected reports %v", body["reports"])
	}

	do(t, h, http.MethodGet, "/api/reports/archive")
	if a.limit != handlers.DefaultArchiveLimit {
		t.Errorf("default limit = %d, want %d", a.limit, handlers.DefaultArchiveLimit)
	}
	for _, target := range []string{"/api/reports/archive?limit=0", "/api/reports/archive?limit=1000"} {
		if rec, _ := do(t, h, http.MethodGet, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestMonthlyReportsNoOpFilter(t *testing.T) {
	rec, body := do(t, newEngine(&provider{ds: testDataset()}), http.MethodGet, "/api/reports/monthly?venue=Thai+house&stage=")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %v", rec.Code, body)
	}
	diags, ok := body["diagnostics"].([]any)
	if !ok || len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", body["diagnostics"])
	}
	if diags[0].(map[string]any)["column"] != "Etapa" {
		t.Errorf("unexpected diagnostic %v", diags[0])
	}
	if body["run_id"] != "run-42" {
		t.Errorf("unexpected run id %v", body["run_id"])
	}
}

func TestEventsAndFilters(t *testing.T) {
	h := newEngine(&provider{ds: testDataset()})

	rec, body := do(t, h, http.MethodGet, "/api/events?venue=River")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	events := body["events"].(map[string]any)
	if rows := events["rows"].([]any); len(rows) != 1 {
		t.Errorf("expected one River event, got %d", len(rows))
	}

	rec, body = do(t, h, http.MethodGet, "/api/filters")
	if rec.Code != http.StatusOK || len(body["venues"].([]any)) != 2 {
		t.Errorf("unexpected filters %d %v", rec.Code, body)
	}
}

func TestBadRequests(t *testing.T) {
	h := newEngine(&provider{ds: testDataset()})
	for _, target := range []string{
		"/api/reports/monthly?year=soon",
		"/api/reports/stats?year=x",
		"/api/reports/distribution",
		"/api/reports/counts?dim=valor",
		"/api/reports/panel?months_back=-1",
		"/api/reports/distribution?venue=River&bins=1125899906842624",
		"/api/reports/distribution?venue=River&bins=101",
		"/api/reports/distribution?venue=River&bins=0",
	} {
		if rec, _ := do(t, h, http.MethodGet, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestDatasetErrors(t *testing.T) {
	schema := &provider{err: &etl.SchemaError{Source: models.SourceCurrent, Missing: []string{"local"}}}
	rec, body := do(t, newEngine(schema), http.MethodGet, "/api/reports/yearly")
	if rec.Code != http.StatusBadGateway || body["missing"] == nil {
		t.Errorf("expected 502 with missing columns, got %d %v", rec.Code, body)
	}

	down := &provider{err: etl.ErrSourceUnavailable}
	if rec, _ := do(t, newEngine(down), http.MethodPost, "/api/refresh"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	rec, body := do(t, newEngine(&provider{ds: testDataset()}), http.MethodPost, "/api/refresh")
	if rec.Code != http.StatusOK || body["run_id"] != "run-42" || body["records"] != float64(2) {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestPanelAndDistribution(t *testing.T) {
	h := newEngine(&provider{ds: testDataset()})

	rec, body := do(t, h, http.MethodGet, "/api/reports/panel")
	if rec.Code != http.StatusOK || body["month_label"] != "Setembro" {
		t.Errorf("unexpected panel %d %v", rec.Code, body)
	}

	rec, body = do(t, h, http.MethodGet, "/api/reports/distribution?venue=River&year=2026")
	if rec.Code != http.StatusOK || body["events"] != float64(0) {
		t.Errorf("unexpected distribution %d %v", rec.Code, body)
	}
}
