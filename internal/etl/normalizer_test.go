package etl

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{" Preço Kids ", "preço_kids"},
		{"Data Evento", "data_evento"},
		{"FORMA DE PAGAMENTO", "forma_de_pagamento"},
		{"horário_início", "horário_início"},
		{"Manter Total Previsto", "manter_total_previsto"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_MissingColumnsIsSchemaError(t *testing.T) {
	raw := sheet(booking("River", "Fechado", "10/05/2024"))
	raw.Header[0] = "something else"
	raw.Header[len(raw.Header)-1] = ""

	_, _, err := NewNormalizer().Normalize(raw)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 2 || schemaErr.Missing[0] != RequiredColumns[0] || schemaErr.Missing[1] != ColRetainForecast {
		t.Errorf("unexpected missing columns: %v", schemaErr.Missing)
	}
}

func TestNormalize_TypedFields(t *testing.T) {
	row := booking("  thai   HOUSE ", "realizado", "05/03/2024")
	row[ColPrice] = "150,50"
	row[ColKidPrice] = "75,25"
	row[ColForecastKids] = "3,0"
	row[ColStartTime] = "19;30"
	row[ColContact] = "joão!!  da-silva"
	row[ColEmail] = " Joao@Example.COM "
	row[ColRetainForecast] = "FALSE"

	records, diags, err := NewNormalizer().Normalize(sheet(row))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	r := records[0]

	if r.Venue != models.VenueThaiHouse {
		t.Errorf("Venue = %q, want %q", r.Venue, models.VenueThaiHouse)
	}
	if r.Stage != models.StageRealized {
		t.Errorf("Stage = %q, want %q", r.Stage, models.StageRealized)
	}
	if !r.Price.Equal(decimal.RequireFromString("150.50")) || !r.KidPrice.Equal(decimal.RequireFromString("75.25")) {
		t.Errorf("prices = %s / %s", r.Price, r.KidPrice)
	}
	if r.ForecastKids != 3 || r.ForecastGuests != 10 {
		t.Errorf("counts = %d / %d", r.ForecastGuests, r.ForecastKids)
	}
	if want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC); !r.EventDate.Equal(want) {
		t.Errorf("EventDate = %v, want day-first %v", r.EventDate, want)
	}
	if r.StartTime == nil || r.StartTime.String() != "19:30" {
		t.Errorf("StartTime = %v, want 19:30", r.StartTime)
	}
	if r.Contact != "João da silva" {
		t.Errorf("Contact = %q", r.Contact)
	}
	if r.Email != "joao@example.com" {
		t.Errorf("Email = %q", r.Email)
	}
	if r.RetainForecast {
		t.Error("RetainForecast should be false for literal FALSE")
	}
	if r.Company != NotInformed || r.Menu != NotInformed {
		t.Errorf("empty text should become %q, got %q / %q", NotInformed, r.Company, r.Menu)
	}
}

func TestNormalize_RetainFlagDefaultsTrue(t *testing.T) {
	values := []string{"TRUE", "", "false", "0", "sim"}
	for _, v := range values {
		row := booking("River", "Fechado", "01/01/2024")
		row[ColRetainForecast] = v
		records, _, err := NewNormalizer().Normalize(sheet(row))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if !records[0].RetainForecast {
			t.Errorf("flag %q should be treated as true", v)
		}
	}
}

func TestNormalize_BadCellsBecomeWarnings(t *testing.T) {
	row := booking("River", "Fechado", "31/02/2024")
	row[ColPrice] = "abc"
	row[ColForecastGuests] = "-4"
	row[ColStartTime] = "tarde"
	row[ColContactDate] = ""

	records, diags, err := NewNormalizer().Normalize(sheet(row, booking("River", "Fechado", "01/01/2024")))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows must never be dropped, got %d", len(records))
	}

	r := records[0]
	if !r.EventDate.IsZero() {
		t.Errorf("invalid date should be null, got %v", r.EventDate)
	}
	if !r.Price.IsZero() || r.ForecastGuests != 0 {
		t.Errorf("invalid numbers should default to 0, got %s / %d", r.Price, r.ForecastGuests)
	}
	if r.StartTime != nil {
		t.Errorf("invalid start time should be nil, got %v", r.StartTime)
	}

	if got := models.CountKind(diags, models.ParseWarning); got != 4 {
		t.Fatalf("expected 4 parse warnings, got %d: %v", got, diags)
	}
	for _, d := range diags {
		if d.Row != 1 || d.Source != models.SourceCurrent {
			t.Errorf("unexpected diagnostic location: %+v", d)
		}
	}
}

func TestNormalize_ShortRowsArePadded(t *testing.T) {
	raw := sheet(booking("River", "Fechado", "01/01/2024"))
	raw.Rows[0] = raw.Rows[0][:3]

	records, _, err := NewNormalizer().Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if records[0].StartTime == nil || records[0].StartTime.String() != "00:00" {
		t.Errorf("missing start time should default to 00:00, got %v", records[0].StartTime)
	}
	if !records[0].RetainForecast {
		t.Error("missing flag should be true")
	}
}
