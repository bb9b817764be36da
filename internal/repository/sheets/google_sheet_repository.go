package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
)

// Repository defines the read operations supported by the Google Sheets adapter.
type Repository interface {
	ReadTable(ctx context.Context, spreadsheetID, sheetRange string) (models.RawTable, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service *sheetsapi.Service
	logger  *zap.Logger
}

// NewGoogleSheetRepository builds a read-only Google Sheets client from a
// service account credentials file.
func NewGoogleSheetRepository(ctx context.Context, credentialsPath string, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{service: service, logger: logger}, nil
}

// ReadTable fetches a range and returns its first row as the header. Cells
// are read as formatted strings; rows shortened by the API are padded.
func (r *GoogleSheetRepository) ReadTable(ctx context.Context, spreadsheetID, sheetRange string) (models.RawTable, error) {
	if sheetRange == "" {
		return models.RawTable{}, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return models.RawTable{}, fmt.Errorf("read range %s: %w: %w", sheetRange, etl.ErrSourceUnavailable, err)
	}

	table := TableFromValues(resp.Values)
	r.logger.Debug("sheet range read",
		zap.String("range", sheetRange),
		zap.Int("rows", table.Len()))
	return table, nil
}

// TableFromValues converts API cell values into a RawTable. Every row is
// padded or truncated to the header width.
func TableFromValues(values [][]interface{}) models.RawTable {
	if len(values) == 0 {
		return models.RawTable{}
	}

	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = fmt.Sprint(v)
	}

	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make([]string, len(header))
		for i := 0; i < len(raw) && i < len(header); i++ {
			if raw[i] != nil {
				row[i] = fmt.Sprint(raw[i])
			}
		}
		rows = append(rows, row)
	}
	return models.RawTable{Header: header, Rows: rows}
}

// Source binds a spreadsheet range to the etl.TableSource contract.
type Source struct {
	Repo          Repository
	SpreadsheetID string
	Range         string
}

// Fetch reads the bound range.
func (s Source) Fetch(ctx context.Context) (models.RawTable, error) {
	return s.Repo.ReadTable(ctx, s.SpreadsheetID, s.Range)
}
