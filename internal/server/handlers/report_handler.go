package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/report"
	"github.com/mamadbah2/eventdash/internal/service/reporting"
)

// Refresher forces a dataset rebuild and tells when the cached one was
// published.
type Refresher interface {
	Refresh(ctx context.Context) (*etl.Dataset, error)
	LoadedAt() time.Time
}

// ArchiveReader lists archived monthly summaries, newest first.
type ArchiveReader interface {
	ListMonthlyReports(ctx context.Context, limit int64) ([]models.MonthlyReport, error)
}

// Archive listing bounds.
const (
	DefaultArchiveLimit = 12
	MaxArchiveLimit     = 120
)

// ReportHandler serves the dashboard report views.
type ReportHandler struct {
	svc       *reporting.Service
	refresher Refresher
	archive   ArchiveReader
	now       func() time.Time
	logger    *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter. archive may be nil
// when no archive is configured.
func NewReportHandler(svc *reporting.Service, refresher Refresher, archive ArchiveReader, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, refresher: refresher, archive: archive, now: time.Now, logger: logger}
}

// Health reports liveness and the age of the cached dataset.
func (h *ReportHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "dataset_loaded_at": nil}
	if at := h.refresher.LoadedAt(); !at.IsZero() {
		body["dataset_loaded_at"] = at
	}
	c.JSON(http.StatusOK, body)
}

// parseQuery reads the venue, stage and year filters. A filter is active
// when its parameter is present, even without a value.
func parseQuery(values url.Values) (reporting.Query, error) {
	var q reporting.Query

	if raw, ok := values["venue"]; ok {
		q.Criteria.Venue = true
		for _, v := range nonEmpty(raw) {
			q.Selection.Venues = append(q.Selection.Venues, models.Venue(v))
		}
	}
	if raw, ok := values["stage"]; ok {
		q.Criteria.Stage = true
		for _, v := range nonEmpty(raw) {
			q.Selection.Stages = append(q.Selection.Stages, models.Stage(v))
		}
	}
	if _, ok := values["year"]; ok {
		q.Criteria.Year = true
		if raw := strings.TrimSpace(values.Get("year")); raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil {
				return q, fmt.Errorf("invalid year %q", raw)
			}
			q.Selection.Year = report.Year(year)
		}
	}
	return q, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func (h *ReportHandler) badRequest(c *gin.Context, err error) {
	h.logger.Warn("invalid report request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail maps dataset errors to responses. Schema problems and unavailable
// sources are blocking and reported as such.
func (h *ReportHandler) fail(c *gin.Context, err error) {
	var schemaErr *etl.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		h.logger.Error("dataset schema error", zap.Strings("missing", schemaErr.Missing))
		c.JSON(http.StatusBadGateway, gin.H{"error": schemaErr.Error(), "missing": schemaErr.Missing})
	case errors.Is(err, etl.ErrSourceUnavailable):
		h.logger.Error("dataset source unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event sheet unavailable"})
	default:
		h.logger.Error("report failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
	}
}

func (h *ReportHandler) withQuery(c *gin.Context, build func(reporting.Query) (any, error)) {
	q, err := parseQuery(c.Request.URL.Query())
	if err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := build(q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Events lists the filtered clean dataset.
func (h *ReportHandler) Events(c *gin.Context) {
	h.withQuery(c, func(q reporting.Query) (any, error) { return h.svc.Events(c.Request.Context(), q) })
}

// Filters lists the available filter values.
func (h *ReportHandler) Filters(c *gin.Context) {
	opts, err := h.svc.Filters(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// Monthly serves value and volume per month.
func (h *ReportHandler) Monthly(c *gin.Context) {
	h.withQuery(c, func(q reporting.Query) (any, error) { return h.svc.Monthly(c.Request.Context(), q) })
}

// Yearly serves value and volume per year.
func (h *ReportHandler) Yearly(c *gin.Context) {
	view, err := h.svc.Yearly(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Guests serves forecast versus present guests.
func (h *ReportHandler) Guests(c *gin.Context) {
	view, err := h.svc.Guests(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Counts serves event volume per dimension, chosen with repeatable dim
// parameters.
func (h *ReportHandler) Counts(c *gin.Context) {
	var dims []report.Dimension
	for _, name := range nonEmpty(c.QueryArray("dim")) {
		d, ok := report.DimensionByName(name)
		if !ok {
			h.badRequest(c, fmt.Errorf("unknown dimension %q", name))
			return
		}
		dims = append(dims, d)
	}
	h.withQuery(c, func(q reporting.Query) (any, error) { return h.svc.Counts(c.Request.Context(), q, dims...) })
}

// Stats serves descriptive statistics for a year, the current one by default.
func (h *ReportHandler) Stats(c *gin.Context) {
	year, err := intParam(c, "year", h.now().Year())
	if err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.svc.Stats(c.Request.Context(), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Tickets serves the average ticket.
func (h *ReportHandler) Tickets(c *gin.Context) {
	h.withQuery(c, func(q reporting.Query) (any, error) { return h.svc.Tickets(c.Request.Context(), q) })
}

// Distribution serves the guest distribution of one venue.
func (h *ReportHandler) Distribution(c *gin.Context) {
	venue := strings.TrimSpace(c.Query("venue"))
	if venue == "" {
		h.badRequest(c, errors.New("venue is required"))
		return
	}
	year, err := intParam(c, "year", h.now().Year())
	if err != nil {
		h.badRequest(c, err)
		return
	}
	bins, err := intParam(c, "bins", report.DefaultBins)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if bins < 1 || bins > report.MaxBins {
		h.badRequest(c, fmt.Errorf("bins must be between 1 and %d", report.MaxBins))
		return
	}
	view, err := h.svc.Distribution(c.Request.Context(), models.Venue(venue), year, bins)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Details serves the per-stage detail tables.
func (h *ReportHandler) Details(c *gin.Context) {
	h.withQuery(c, func(q reporting.Query) (any, error) { return h.svc.Details(c.Request.Context(), q) })
}

// Panel serves the monthly performance panel.
func (h *ReportHandler) Panel(c *gin.Context) {
	back, err := intParam(c, "months_back", 1)
	if err != nil || back < 0 {
		h.badRequest(c, fmt.Errorf("invalid months_back %q", c.Query("months_back")))
		return
	}
	view, err := h.svc.Panel(c.Request.Context(), back)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Archive lists the archived monthly summaries.
func (h *ReportHandler) Archive(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "monthly report archive is not configured"})
		return
	}
	limit, err := intParam(c, "limit", DefaultArchiveLimit)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if limit < 1 || limit > MaxArchiveLimit {
		h.badRequest(c, fmt.Errorf("limit must be between 1 and %d", MaxArchiveLimit))
		return
	}

	reports, err := h.archive.ListMonthlyReports(c.Request.Context(), int64(limit))
	if err != nil {
		h.logger.Error("failed to list monthly reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list monthly reports"})
		return
	}
	if reports == nil {
		reports = []models.MonthlyReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Refresh rebuilds the dataset now.
func (h *ReportHandler) Refresh(c *gin.Context) {
	ds, err := h.refresher.Refresh(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"loaded_at":   h.refresher.LoadedAt(),
		"run_id":      ds.RunID,
		"built_at":    ds.BuiltAt,
		"records":     len(ds.Records),
		"diagnostics": ds.Diagnostics,
	})
}
