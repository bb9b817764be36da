// Package dataset owns the in-memory event dataset shared by the HTTP API
// and the scheduler.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/report"
)

// Builder runs the ETL pipeline over two sources.
type Builder interface {
	Build(ctx context.Context, current, legacy etl.TableSource) (*etl.Dataset, error)
}

// Options configures a Service.
type Options struct {
	Current etl.TableSource
	Legacy  etl.TableSource
	MinYear int
	TTL     time.Duration
	Now     func() time.Time
}

// Service caches the latest dataset and rebuilds it once it is older than
// the TTL. Datasets are replaced whole and never modified after publication.
type Service struct {
	builder Builder
	current etl.TableSource
	legacy  etl.TableSource
	minYear int
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu       sync.RWMutex
	dataset  *etl.Dataset
	loadedAt time.Time

	refreshMu sync.Mutex
}

// NewService wires a dataset service.
func NewService(builder Builder, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		builder: builder,
		current: opts.Current,
		legacy:  opts.Legacy,
		minYear: opts.MinYear,
		ttl:     opts.TTL,
		now:     now,
		logger:  logger,
	}
}

// Current returns the cached dataset, rebuilding it first when it is
// missing or stale. When a rebuild fails and an older dataset exists, the
// older dataset is served.
func (s *Service) Current(ctx context.Context) (*etl.Dataset, error) {
	if ds, fresh := s.cached(); fresh {
		return ds, nil
	}

	ds, err := s.refresh(ctx, false)
	if err == nil {
		return ds, nil
	}
	if stale, _ := s.cached(); stale != nil && !isFatal(err) {
		s.logger.Warn("serving stale dataset", zap.String("run_id", stale.RunID), zap.Error(err))
		return stale, nil
	}
	return nil, err
}

func (s *Service) cached() (*etl.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, false
	}
	return s.dataset, s.ttl <= 0 || s.now().Sub(s.loadedAt) < s.ttl
}

// Refresh rebuilds the dataset unconditionally and publishes it.
func (s *Service) Refresh(ctx context.Context) (*etl.Dataset, error) {
	return s.refresh(ctx, true)
}

func (s *Service) refresh(ctx context.Context, force bool) (*etl.Dataset, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have rebuilt while this one waited.
	if ds, fresh := s.cached(); fresh && !force {
		return ds, nil
	}

	start := s.now()
	built, err := s.builder.Build(ctx, s.current, s.legacy)
	if err != nil {
		s.logger.Error("dataset refresh failed", zap.Error(err))
		return nil, fmt.Errorf("refresh dataset: %w", err)
	}

	ds := *built
	ds.Records = report.FromYear(built.Records, s.minYear)
	s.logDiagnostics(ds.RunID, ds.Diagnostics)

	s.mu.Lock()
	s.dataset = &ds
	s.loadedAt = s.now()
	s.mu.Unlock()

	s.logger.Info("dataset refreshed",
		zap.String("run_id", ds.RunID),
		zap.Int("records", len(built.Records)),
		zap.Int("published", len(ds.Records)),
		zap.Int("min_year", s.minYear),
		zap.Duration("elapsed", s.now().Sub(start)))
	return &ds, nil
}

func (s *Service) logDiagnostics(runID string, diags []models.Diagnostic) {
	for _, d := range diags {
		s.logger.Warn("dataset diagnostic",
			zap.String("run_id", runID),
			zap.String("kind", string(d.Kind)),
			zap.String("source", string(d.Source)),
			zap.Int("row", d.Row),
			zap.String("column", d.Column),
			zap.String("value", d.Value),
			zap.String("message", d.Message))
	}
}

// LoadedAt returns when the cached dataset was published.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// isFatal tells schema problems apart from transient source failures;
// a stale dataset must not hide a broken sheet layout.
func isFatal(err error) bool {
	var schemaErr *etl.SchemaError
	return errors.As(err, &schemaErr)
}
