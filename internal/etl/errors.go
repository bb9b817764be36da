package etl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// ErrSourceUnavailable is wrapped by sources that could not deliver a table.
var ErrSourceUnavailable = errors.New("source unavailable")

// SchemaError reports mandatory columns missing from a source sheet.
type SchemaError struct {
	Source  models.RecordSource
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s sheet is missing mandatory columns: %s", e.Source, strings.Join(e.Missing, ", "))
}
