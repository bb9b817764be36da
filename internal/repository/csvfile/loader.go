// Package csvfile reads event sheets exported as CSV files.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/etl"
)

// Parse reads a CSV document whose first record is the header. Rows may
// have fewer or more fields than the header; they are padded or truncated.
func Parse(r io.Reader) (models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return models.RawTable{}, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(header))
		copy(row, record)
		rows = append(rows, row)
	}
	return models.RawTable{Header: header, Rows: rows}, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

// Source is an etl.TableSource backed by a file path.
type Source struct {
	Path string
}

// Fetch opens and parses the file. A missing or unreadable file is reported
// as etl.ErrSourceUnavailable.
func (s Source) Fetch(_ context.Context) (models.RawTable, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to open %s: %w: %w", s.Path, etl.ErrSourceUnavailable, err)
	}
	defer file.Close()

	return Parse(file)
}
