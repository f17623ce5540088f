package model

import "github.com/shopspring/decimal"

// ForecastResult holds a spending prediction for a single future month.
type ForecastResult struct {
	Category  string          `json:"category,omitempty"` // empty for the overall series
	Month     Month           `json:"month"`
	Predicted decimal.Decimal `json:"predicted"`
	StdError  float64         `json:"std_error"` // residual standard error of the fit

	// Insufficient is set when fewer than two data points were available
	// and the prediction fell back to the last known value.
	Insufficient bool `json:"insufficient,omitempty"`
}
