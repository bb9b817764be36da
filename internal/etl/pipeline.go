package etl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/locale"
)

// TableSource delivers one raw sheet.
type TableSource interface {
	Fetch(ctx context.Context) (models.RawTable, error)
}

// Options configures a Pipeline. Zero values select the defaults.
type Options struct {
	LegacyVenue string
	DatePolicy  DatePolicy
	Vocabulary  *MenuVocabulary
	Formatting  *locale.Formatting
	Now         func() time.Time
}

// Pipeline runs every transformation stage over one pair of sheets.
type Pipeline struct {
	normalizer    *Normalizer
	reconciler    *Reconciler
	canonicalizer *Canonicalizer
	enricher      *Enricher
	format        locale.Formatting
	now           func() time.Time
	logger        *zap.Logger
}

// NewPipeline wires the stages.
func NewPipeline(opts Options, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	vocab := opts.Vocabulary
	if vocab == nil {
		v, err := DefaultMenuVocabulary()
		if err != nil {
			return nil, err
		}
		vocab = &v
	}

	format := locale.Resolve(locale.DefaultChain...)
	if opts.Formatting != nil {
		format = *opts.Formatting
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	policy := opts.DatePolicy
	if policy == nil {
		policy = FutureOffset{Days: 20, Now: now}
	}

	return &Pipeline{
		normalizer:    NewNormalizer(),
		reconciler:    NewReconciler(opts.LegacyVenue, policy),
		canonicalizer: NewCanonicalizer(*vocab),
		enricher:      NewEnricher(format),
		format:        format,
		now:           now,
		logger:        logger,
	}, nil
}

// Dataset is the clean, enriched output of one pipeline run.
type Dataset struct {
	RunID       string
	BuiltAt     time.Time
	Records     []models.EventRecord
	Diagnostics []models.Diagnostic
	Formatting  locale.Formatting
}

// Build fetches both sheets and runs the pipeline. The current sheet is
// mandatory; a failing legacy source is replaced by an empty table and
// reported as SourceUnavailable. A nil legacy source is simply skipped.
func (p *Pipeline) Build(ctx context.Context, current, legacy TableSource) (*Dataset, error) {
	if current == nil {
		return nil, fmt.Errorf("current source: %w", ErrSourceUnavailable)
	}
	cur, err := current.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch current sheet: %w", err)
	}

	var (
		leg   models.RawTable
		diags []models.Diagnostic
	)
	if legacy != nil {
		leg, err = legacy.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("fetch legacy sheet: %w", ctx.Err())
			}
			p.logger.Warn("legacy sheet unavailable, continuing with current period only", zap.Error(err))
			leg = models.RawTable{}
			diags = append(diags, models.Diagnostic{
				Kind:    models.SourceUnavailable,
				Source:  models.SourceLegacy,
				Message: err.Error(),
			})
		} else if leg.IsEmpty() {
			p.logger.Warn("legacy sheet is empty")
		}
	}

	ds, err := p.Run(cur, leg)
	if err != nil {
		return nil, err
	}
	ds.Diagnostics = append(diags, ds.Diagnostics...)
	return ds, nil
}

// Run transforms already fetched sheets into a Dataset.
func (p *Pipeline) Run(current, legacy models.RawTable) (*Dataset, error) {
	cur, diags, err := p.normalizer.Normalize(current)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			p.logger.Error("current sheet rejected", zap.Strings("missing", schemaErr.Missing))
		}
		return nil, err
	}

	leg, legDiags := p.reconciler.Legacy(legacy)
	diags = append(legDiags, diags...)

	records := Merge(leg, cur)
	records = p.reconciler.ResolveDates(records)
	records = DeriveAll(records)
	records = p.canonicalizer.Apply(records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EventDate.Before(records[j].EventDate)
	})
	records = p.enricher.Apply(records)

	ds := &Dataset{
		RunID:       uuid.NewString(),
		BuiltAt:     p.now(),
		Records:     records,
		Diagnostics: diags,
		Formatting:  p.format,
	}

	p.logger.Info("dataset built",
		zap.String("run_id", ds.RunID),
		zap.Int("legacy_rows", len(leg)),
		zap.Int("current_rows", len(cur)),
		zap.Int("parse_warnings", models.CountKind(diags, models.ParseWarning)))

	return ds, nil
}

// Table exports the dataset with display column names.
func (d *Dataset) Table() models.Table {
	cols := make([]string, len(OutputColumns))
	for i, c := range OutputColumns {
		cols[i] = DisplayColumn(c)
	}

	rows := make([][]any, 0, len(d.Records))
	for _, r := range d.Records {
		var start any
		if r.StartTime != nil {
			start = r.StartTime.String()
		}
		rows = append(rows, []any{
			string(r.Venue), r.Responsible, r.Company, r.Contact, r.Phone, r.Email,
			r.ContactDate.Format(time.DateOnly), r.EventDate.Format(time.DateOnly), start,
			string(r.Stage), r.Status, r.Kind, r.Menu, r.PaymentMethod, r.Observation,
			r.ForecastGuests, r.ForecastKids, r.PresentGuests, r.PresentKids,
			r.Price.InexactFloat64(), r.KidPrice.InexactFloat64(), r.Deposit.InexactFloat64(), r.ExtraCharges.InexactFloat64(),
			r.RetainForecast,
			r.TotalForecastGuests, r.ForecastValue.InexactFloat64(), r.PresentTotalGuests, r.RealizedValue.InexactFloat64(),
			r.StageCode, r.Year, r.Month, r.Weekday,
		})
	}
	return models.Table{Columns: cols, Rows: rows}
}
