package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Venue identifies where an event takes place.
type Venue string

const (
	VenueThaiHouse Venue = "Thai house"
	VenueRiver     Venue = "River"
)

// Stage is the lifecycle state of a booking.
type Stage string

const (
	StageNegotiation Stage = "Negociação"
	StageClosed      Stage = "Fechado"
	StageRealized    Stage = "Realizado"
)

// DeclaredStages lists the known stages in their canonical order.
var DeclaredStages = []Stage{StageNegotiation, StageClosed, StageRealized}

// StageCodes assigns a stable integer to each stage in stages. Declared stages
// keep their canonical position; unknown stages follow in lexical order.
func StageCodes(stages []Stage) map[Stage]int {
	codes := make(map[Stage]int, len(DeclaredStages))
	for i, s := range DeclaredStages {
		codes[s] = i
	}

	var unknown []string
	seen := make(map[Stage]bool)
	for _, s := range stages {
		if _, ok := codes[s]; ok || seen[s] {
			continue
		}
		seen[s] = true
		unknown = append(unknown, string(s))
	}
	sort.Strings(unknown)
	for i, s := range unknown {
		codes[Stage(s)] = len(DeclaredStages) + i
	}
	return codes
}

// RecordSource tells which spreadsheet a record came from.
type RecordSource string

const (
	SourceCurrent RecordSource = "current"
	SourceLegacy  RecordSource = "legacy"
)

// TimeOfDay is a wall-clock start time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// EventRecord is one booking row after the pipeline has run.
type EventRecord struct {
	Source RecordSource

	Venue       Venue
	Responsible string
	Company     string
	Contact     string
	Phone       string
	Email       string

	ContactDate time.Time
	EventDate   time.Time
	StartTime   *TimeOfDay

	// EventDateDefaulted is set when EventDate came from the default-date
	// policy instead of the source row.
	EventDateDefaulted bool

	Stage         Stage
	Status        string
	Kind          string
	Menu          string
	MenuGroup     string
	PaymentMethod string
	Observation   string

	ForecastGuests int
	ForecastKids   int
	PresentGuests  int
	PresentKids    int

	Price        decimal.Decimal
	KidPrice     decimal.Decimal
	Deposit      decimal.Decimal
	ExtraCharges decimal.Decimal

	RetainForecast bool

	TotalForecastGuests int
	ForecastValue       decimal.Decimal
	PresentTotalGuests  int
	RealizedValue       decimal.Decimal

	Year        int
	MonthNumber int
	Month       string
	Weekday     string
	StageCode   int
}
