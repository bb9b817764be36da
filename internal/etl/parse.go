package etl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Day-first layouts of the current-period sheet.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2006-1-2",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Legacy exports carry ISO dates or month-first dates. Day-first layouts
// come last and only match when the first field cannot be a month.
var legacyDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
	"1/2/2006 15:04:05",
	"2/1/2006",
	"2/1/06",
	"2/1/2006 15:04:05",
}

const defaultStartTime = "00:00"

var errEmpty = fmt.Errorf("empty value")

func parseDate(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmpty
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseDecimal accepts decimal-comma strings ("1500,50").
func parseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errEmpty
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", value)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", value)
	}
	return d, nil
}

// parseCount parses a head count, truncating any fractional part.
func parseCount(value string) (int, error) {
	d, err := parseDecimal(value)
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

func parseStartTime(value string) (*models.TimeOfDay, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = defaultStartTime
	}
	value = strings.ReplaceAll(value, ";", ":")

	hh, mm, ok := strings.Cut(value, ":")
	if !ok {
		return nil, fmt.Errorf("unrecognized time %q", value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 || len(hh) > 2 {
		return nil, fmt.Errorf("unrecognized time %q", value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 || len(mm) > 2 {
		return nil, fmt.Errorf("unrecognized time %q", value)
	}
	return &models.TimeOfDay{Hour: hour, Minute: minute}, nil
}

// parseRetainFlag treats only a literal "FALSE" as false.
func parseRetainFlag(value string) bool {
	return strings.TrimSpace(value) != "FALSE"
}
