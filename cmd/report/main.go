// Command report runs the event pipeline over exported CSV sheets and prints
// the dashboard report tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/locale"
	"github.com/mamadbah2/eventdash/internal/report"
	"github.com/mamadbah2/eventdash/internal/repository/csvfile"
	"github.com/mamadbah2/eventdash/internal/repository/httpcsv"
	"github.com/mamadbah2/eventdash/internal/service/dataset"
	"github.com/mamadbah2/eventdash/internal/service/reporting"
	"github.com/mamadbah2/eventdash/pkg/logger"
)

var views = []string{"monthly", "yearly", "guests", "counts", "stats", "tickets", "distribution", "details", "panel"}

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	current         string
	legacy          string
	legacyURL       string
	locale          string
	legacyVenue     string
	vocabulary      string
	placeholderDays int
	minYear         int
	monthsBack      int
	bins            int
	year            int
	venues          listFlag
	stages          listFlag
	views           listFlag
	logLevel        string
}

func main() {
	var opts options
	flag.StringVar(&opts.current, "current", "", "CSV export of the current-period sheet (required)")
	flag.StringVar(&opts.legacy, "legacy", "", "CSV export of the legacy sheet")
	flag.StringVar(&opts.legacyURL, "legacy-url", "", "published CSV URL of the legacy sheet")
	flag.StringVar(&opts.locale, "locale", strings.Join(locale.DefaultChain, ","), "comma separated locale fallback chain")
	flag.StringVar(&opts.legacyVenue, "legacy-venue", etl.DefaultLegacyVenue, "venue assigned to legacy rows")
	flag.StringVar(&opts.vocabulary, "vocabulary", "", "menu vocabulary YAML overriding the embedded one")
	flag.IntVar(&opts.placeholderDays, "placeholder-days", 20, "days from today used for events without a date")
	flag.IntVar(&opts.minYear, "min-year", 2022, "first event year reported")
	flag.IntVar(&opts.monthsBack, "months-back", 1, "months back of the panel view")
	flag.IntVar(&opts.bins, "bins", report.DefaultBins, "guest ranges of the distribution view")
	flag.IntVar(&opts.year, "year", 0, "year filter (0 keeps every year)")
	flag.Var(&opts.venues, "venue", "venue filter, repeatable")
	flag.Var(&opts.stages, "stage", "stage filter, repeatable")
	flag.Var(&opts.views, "view", "view to print, repeatable: "+strings.Join(views, ", "))
	flag.StringVar(&opts.logLevel, "log-level", "error", "log level")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.current == "" {
		return fmt.Errorf("-current is required")
	}

	log, err := logger.NewWithLevel(opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	format := locale.Resolve(strings.Split(opts.locale, ",")...)
	now := time.Now

	pipeOpts := etl.Options{
		LegacyVenue: opts.legacyVenue,
		DatePolicy:  etl.FutureOffset{Days: opts.placeholderDays, Now: now},
		Formatting:  &format,
		Now:         now,
	}
	if opts.vocabulary != "" {
		vocab, err := etl.LoadMenuVocabulary(opts.vocabulary)
		if err != nil {
			return err
		}
		pipeOpts.Vocabulary = &vocab
	}
	pipeline, err := etl.NewPipeline(pipeOpts, logger.Named(log, "etl"))
	if err != nil {
		return err
	}

	var legacy etl.TableSource
	switch {
	case opts.legacy != "":
		legacy = csvfile.Source{Path: opts.legacy}
	case opts.legacyURL != "":
		legacy = httpcsv.NewSource(opts.legacyURL, 30*time.Second, logger.Named(log, "repo.httpcsv"))
	}

	datasets := dataset.NewService(pipeline, dataset.Options{
		Current: csvfile.Source{Path: opts.current},
		Legacy:  legacy,
		MinYear: opts.minYear,
	}, logger.Named(log, "svc.dataset"))

	ds, err := datasets.Current(ctx)
	if err != nil {
		return err
	}
	for _, d := range ds.Diagnostics {
		if d.Kind != models.ParseWarning {
			fmt.Fprintln(os.Stderr, "warning:", d)
		}
	}
	if n := models.CountKind(ds.Diagnostics, models.ParseWarning); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d cells could not be parsed and were defaulted\n", n)
	}

	svc := reporting.NewService(datasets, now, logger.Named(log, "svc.reporting"))
	r := renderer{f: format, out: os.Stdout}

	selected := []string(opts.views)
	if len(selected) == 0 {
		selected = views
	}
	for _, view := range selected {
		if err := printView(ctx, svc, r, view, opts); err != nil {
			return fmt.Errorf("%s: %w", view, err)
		}
	}
	return nil
}

func query(opts options) reporting.Query {
	var q reporting.Query
	if len(opts.venues) > 0 {
		q.Criteria.Venue = true
		for _, v := range opts.venues {
			q.Selection.Venues = append(q.Selection.Venues, models.Venue(v))
		}
	}
	if len(opts.stages) > 0 {
		q.Criteria.Stage = true
		for _, s := range opts.stages {
			q.Selection.Stages = append(q.Selection.Stages, models.Stage(s))
		}
	}
	if opts.year != 0 {
		q.Criteria.Year = true
		q.Selection.Year = report.Year(opts.year)
	}
	return q
}

func printView(ctx context.Context, svc *reporting.Service, r renderer, view string, opts options) error {
	q := query(opts)
	year := opts.year
	if year == 0 {
		year = time.Now().Year()
	}

	switch view {
	case "monthly":
		v, err := svc.Monthly(ctx, q)
		if err != nil {
			return err
		}
		return r.tables("Mensal "+v.Selection, v.Tables)
	case "yearly":
		v, err := svc.Yearly(ctx)
		if err != nil {
			return err
		}
		return r.tables("Anual", v.Tables)
	case "guests":
		v, err := svc.Guests(ctx)
		if err != nil {
			return err
		}
		return r.tables("Convidados", v.Tables)
	case "counts":
		v, err := svc.Counts(ctx, q)
		if err != nil {
			return err
		}
		return r.tables("Contagens "+v.Selection, v.Tables)
	case "stats":
		v, err := svc.Stats(ctx, year)
		if err != nil {
			return err
		}
		return r.stats(v)
	case "tickets":
		v, err := svc.Tickets(ctx, q)
		if err != nil {
			return err
		}
		return r.tables("Ticket médio", v.Tables)
	case "distribution":
		venues, err := opts.venuesOrAll(ctx, svc)
		if err != nil {
			return err
		}
		for _, venue := range venues {
			d, err := svc.Distribution(ctx, venue, year, opts.bins)
			if err != nil {
				return err
			}
			if err := r.distribution(d); err != nil {
				return err
			}
		}
		return nil
	case "details":
		v, err := svc.Details(ctx, q)
		if err != nil {
			return err
		}
		return r.details(v)
	case "panel":
		p, err := svc.Panel(ctx, opts.monthsBack)
		if err != nil {
			return err
		}
		return r.panel(p)
	default:
		return fmt.Errorf("unknown view %q", view)
	}
}

func (o options) venuesOrAll(ctx context.Context, svc *reporting.Service) ([]models.Venue, error) {
	if len(o.venues) > 0 {
		out := make([]models.Venue, len(o.venues))
		for i, v := range o.venues {
			out[i] = models.Venue(v)
		}
		return out, nil
	}
	filters, err := svc.Filters(ctx)
	if err != nil {
		return nil, err
	}
	return filters.Venues, nil
}
