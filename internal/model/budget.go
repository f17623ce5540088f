package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-category monthly spending limit set by the user.
type Budget struct {
	UpdatedAt time.Time       `json:"updated_at"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
}

// CategoryTotal is the summed spend for one category in one month.
// Totals are derived from expenses on demand, never stored.
type CategoryTotal struct {
	Category string          `json:"category"`
	Month    Month           `json:"month"`
	Total    decimal.Decimal `json:"total"`
}
