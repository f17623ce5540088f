package model

import "github.com/shopspring/decimal"

// AlertSeverity is a discrete alert level derived from comparing spending
// to a budget limit.
type AlertSeverity string

const (
	// SeverityWarning indicates spend approaching the budget limit.
	SeverityWarning AlertSeverity = "WARNING"
	// SeverityOverspend indicates spend at or beyond the budget limit.
	SeverityOverspend AlertSeverity = "OVERSPEND"
)

// AlertEvent records a budget threshold crossing. Events are transient
// values handed to the presentation layer, never persisted.
type AlertEvent struct {
	Category string          `json:"category"`
	Month    Month           `json:"month"`
	Amount   decimal.Decimal `json:"amount"`
	Limit    decimal.Decimal `json:"limit"`
	Severity AlertSeverity   `json:"severity"`

	// Forecast is true when Amount is a predicted value rather than
	// actual recorded spend.
	Forecast bool `json:"forecast,omitempty"`
}
