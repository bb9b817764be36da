package dataset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
)

type fakeBuilder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeBuilder) Build(_ context.Context, _, _ etl.TableSource) (*etl.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &etl.Dataset{
		RunID: "run",
		Records: []models.EventRecord{
			{Venue: models.VenueRiver, Year: 2021},
			{Venue: models.VenueRiver, Year: 2022},
			{Venue: models.VenueThaiHouse, Year: 2025},
		},
		Diagnostics: []models.Diagnostic{
			{Kind: models.ParseWarning, Source: models.SourceCurrent, Row: 2, Column: "preço", Value: "abc", Message: "invalid number"},
		},
	}, nil
}

func (f *fakeBuilder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newService(b Builder, c *clock, logger *zap.Logger) *Service {
	return NewService(b, Options{MinYear: 2022, TTL: 10 * time.Minute, Now: c.Now}, logger)
}

func TestCurrent_CachesWithinTTL(t *testing.T) {
	b := &fakeBuilder{}
	c := &clock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	svc := newService(b, c, nil)

	ds, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected records from 2022 on, got %d", len(ds.Records))
	}

	c.t = c.t.Add(5 * time.Minute)
	if _, err := svc.Current(context.Background()); err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if b.Calls() != 1 {
		t.Errorf("expected one build within the TTL, got %d", b.Calls())
	}

	c.t = c.t.Add(6 * time.Minute)
	if _, err := svc.Current(context.Background()); err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if b.Calls() != 2 {
		t.Errorf("expected a rebuild after the TTL, got %d builds", b.Calls())
	}
}

func TestCurrent_ServesStaleOnSourceFailure(t *testing.T) {
	b := &fakeBuilder{}
	c := &clock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	svc := newService(b, c, nil)

	if _, err := svc.Current(context.Background()); err != nil {
		t.Fatalf("Current failed: %v", err)
	}

	b.err = etl.ErrSourceUnavailable
	c.t = c.t.Add(time.Hour)
	ds, err := svc.Current(context.Background())
	if err != nil || ds == nil {
		t.Fatalf("expected the stale dataset, got %v", err)
	}

	b.err = &etl.SchemaError{Source: models.SourceCurrent, Missing: []string{"local"}}
	if _, err := svc.Current(context.Background()); err == nil {
		t.Fatal("expected schema errors to surface")
	}
}

func TestRefresh_FirstFailureIsReturned(t *testing.T) {
	b := &fakeBuilder{err: etl.ErrSourceUnavailable}
	svc := newService(b, &clock{t: time.Now()}, nil)

	_, err := svc.Current(context.Background())
	if !errors.Is(err, etl.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestRefresh_LogsDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := newService(&fakeBuilder{}, &clock{t: time.Now()}, zap.New(core))

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	entries := logs.FilterMessage("dataset diagnostic").All()
	if len(entries) != 1 {
		t.Fatalf("expected one diagnostic log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["column"]; got != "preço" {
		t.Errorf("unexpected column field %v", got)
	}
}

func TestCurrent_Concurrent(t *testing.T) {
	b := &fakeBuilder{}
	svc := newService(b, &clock{t: time.Now()}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Current(context.Background()); err != nil {
				t.Errorf("Current failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if b.Calls() != 1 {
		t.Fatalf("expected a single build, got %d", b.Calls())
	}
}
