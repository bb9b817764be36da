package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Display labels for the type discriminator of long-format report tables.
const (
	TypeForecast = "Previsto"
	TypeRealized = "Realizado"
	TypePresent  = "Presente"
)

// ReportTable is a grouped or melted projection of the dataset.
type ReportTable struct {
	Keys   []string    `json:"keys"`
	Metric string      `json:"metric"`
	Rows   []ReportRow `json:"rows"`
}

// ReportRow holds the key values (aligned with ReportTable.Keys), the type
// discriminator (empty for counts) and the metric value.
type ReportRow struct {
	Key   []string        `json:"key"`
	Type  string          `json:"type,omitempty"`
	Value decimal.Decimal `json:"value"`
}

// Len returns the number of rows.
func (t ReportTable) Len() int {
	return len(t.Rows)
}

// MonthlyReport is the archived snapshot of a monthly panel.
type MonthlyReport struct {
	RunID       string        `bson:"run_id" json:"run_id"`
	Year        int           `bson:"year" json:"year"`
	Month       int           `bson:"month" json:"month"`
	MonthLabel  string        `bson:"month_label" json:"month_label"`
	Values      []ArchivedRow `bson:"values" json:"values"`
	Guests      []ArchivedRow `bson:"guests" json:"guests"`
	StageCounts []ArchivedRow `bson:"stage_counts" json:"stage_counts"`
	Summary     string        `bson:"summary" json:"summary"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}

// ArchivedRow flattens a ReportRow for storage.
type ArchivedRow struct {
	Venue string  `bson:"venue" json:"venue"`
	Stage string  `bson:"stage" json:"stage"`
	Type  string  `bson:"type,omitempty" json:"type,omitempty"`
	Value float64 `bson:"value" json:"value"`
}
