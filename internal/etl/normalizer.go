package etl

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Normalizer turns the raw current-period sheet into typed records.
type Normalizer struct {
	required []string
	layouts  []string
}

// NewNormalizer returns a Normalizer enforcing RequiredColumns.
func NewNormalizer() *Normalizer {
	return &Normalizer{required: RequiredColumns, layouts: dayFirstLayouts}
}

// Normalize validates the header and decodes every row. Cells that fail to
// parse are replaced by their default and reported as ParseWarning; rows are
// never dropped. A missing mandatory column aborts with *SchemaError.
func (n *Normalizer) Normalize(raw models.RawTable) ([]models.EventRecord, []models.Diagnostic, error) {
	index := headerIndex(raw.Header, nil)

	var missing []string
	for _, col := range n.required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{Source: models.SourceCurrent, Missing: missing}
	}

	dec := &rowDecoder{source: models.SourceCurrent, index: index, layouts: n.layouts}
	records := make([]models.EventRecord, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		records = append(records, dec.decode(i+1, row))
	}
	return records, dec.diags, nil
}

// headerIndex maps canonical column names to cell positions. The first
// occurrence of a duplicated header wins.
func headerIndex(header []string, renames map[string]string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		col := NormalizeHeader(h)
		if to, ok := renames[col]; ok {
			col = to
		}
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	return index
}

type rowDecoder struct {
	source  models.RecordSource
	index   map[string]int
	layouts []string
	row     int
	diags   []models.Diagnostic
}

func (d *rowDecoder) cell(cells []string, col string) (string, bool) {
	i, ok := d.index[col]
	if !ok {
		return "", false
	}
	if i >= len(cells) {
		return "", true
	}
	return cells[i], true
}

func (d *rowDecoder) warn(col, value string, err error) {
	d.diags = append(d.diags, models.Diagnostic{
		Kind:    models.ParseWarning,
		Source:  d.source,
		Row:     d.row,
		Column:  col,
		Value:   value,
		Message: err.Error(),
	})
}

func (d *rowDecoder) text(cells []string, col string) string {
	v, _ := d.cell(cells, col)
	return cleanText(v)
}

func (d *rowDecoder) count(cells []string, col string) int {
	v, _ := d.cell(cells, col)
	n, err := parseCount(v)
	if err != nil && !errors.Is(err, errEmpty) {
		d.warn(col, v, err)
	}
	return n
}

func (d *rowDecoder) money(cells []string, col string) decimal.Decimal {
	v, _ := d.cell(cells, col)
	amount, err := parseDecimal(v)
	if err != nil && !errors.Is(err, errEmpty) {
		d.warn(col, v, err)
	}
	return amount
}

func (d *rowDecoder) date(cells []string, col string) time.Time {
	v, _ := d.cell(cells, col)
	t, err := parseDate(v, d.layouts)
	if err != nil && !errors.Is(err, errEmpty) {
		d.warn(col, v, err)
	}
	return t
}

func (d *rowDecoder) decode(rowNum int, cells []string) models.EventRecord {
	d.row = rowNum

	rec := models.EventRecord{
		Source:        d.source,
		Venue:         models.Venue(d.text(cells, ColVenue)),
		Responsible:   d.text(cells, ColResponsible),
		Company:       d.text(cells, ColCompany),
		Stage:         models.Stage(d.text(cells, ColStage)),
		Status:        d.text(cells, ColStatus),
		Kind:          d.text(cells, ColKind),
		Menu:          d.text(cells, ColMenu),
		PaymentMethod: d.text(cells, ColPaymentMethod),
		Observation:   d.text(cells, ColObservation),

		ForecastGuests: d.count(cells, ColForecastGuests),
		ForecastKids:   d.count(cells, ColForecastKids),
		PresentGuests:  d.count(cells, ColPresentGuests),
		PresentKids:    d.count(cells, ColPresentKids),

		Price:        d.money(cells, ColPrice),
		KidPrice:     d.money(cells, ColKidPrice),
		Deposit:      d.money(cells, ColDeposit),
		ExtraCharges: d.money(cells, ColExtraCharges),

		ContactDate: d.date(cells, ColContactDate),
		EventDate:   d.date(cells, ColEventDate),
	}

	contact, _ := d.cell(cells, ColContact)
	rec.Contact = cleanContact(contact)

	phone, _ := d.cell(cells, ColPhone)
	rec.Phone = trimmedOr(phone, NotInformed)

	email, _ := d.cell(cells, ColEmail)
	rec.Email = trimmedOr(strings.ToLower(email), NotInformed)

	start, _ := d.cell(cells, ColStartTime)
	tod, err := parseStartTime(start)
	if err != nil {
		d.warn(ColStartTime, start, err)
	}
	rec.StartTime = tod

	flag, present := d.cell(cells, ColRetainForecast)
	rec.RetainForecast = !present || parseRetainFlag(flag)

	return rec
}
