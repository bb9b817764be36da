// Package httpcsv downloads event sheets published as CSV.
package httpcsv

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
	"github.com/mamadbah2/eventdash/internal/repository/csvfile"
)

// Source fetches a CSV document over HTTP.
type Source struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

// NewSource builds a Source for a published CSV URL.
func NewSource(url string, timeout time.Duration, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "text/csv")

	return &Source{httpClient: restyClient, url: url, logger: logger}
}

// Fetch downloads and parses the document. Transport failures and error
// statuses are reported as etl.ErrSourceUnavailable.
func (s *Source) Fetch(ctx context.Context) (models.RawTable, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("download csv: %w: %w", etl.ErrSourceUnavailable, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return models.RawTable{}, fmt.Errorf("download csv: %w: status %d", etl.ErrSourceUnavailable, resp.StatusCode())
	}

	table, err := csvfile.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return models.RawTable{}, err
	}

	s.logger.Debug("csv downloaded",
		zap.Int("rows", table.Len()),
		zap.Duration("elapsed", resp.Time()))
	return table, nil
}
