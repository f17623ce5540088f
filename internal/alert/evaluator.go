// Package alert evaluates spending against budget thresholds.
package alert

import (
	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/model"
)

// Threshold maps a fraction of the budget limit to a severity. Crossing
// 0.90 of the limit is a warning by default; reaching the limit is an
// overspend.
type Threshold struct {
	Fraction decimal.Decimal
	Severity model.AlertSeverity
}

// DefaultThresholds returns the standard threshold table.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Fraction: decimal.RequireFromString("0.9"), Severity: model.SeverityWarning},
		{Fraction: decimal.RequireFromString("1.0"), Severity: model.SeverityOverspend},
	}
}

// Evaluator holds an ordered threshold table. Evaluation is deterministic:
// the highest crossed threshold always wins.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates an evaluator, sorting thresholds descending by
// fraction. With no thresholds given the defaults apply.
func NewEvaluator(thresholds ...Threshold) *Evaluator {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds()
	}

	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)
	for i := 0; i < len(sorted)-1; i++ {
		for j := 0; j < len(sorted)-i-1; j++ {
			if sorted[j].Fraction.LessThan(sorted[j+1].Fraction) {
				sorted[j], sorted[j+1] = sorted[j+1], sorted[j]
			}
		}
	}

	return &Evaluator{thresholds: sorted}
}

// Evaluate compares an actual or forecast amount against a budget limit.
// Returns nil when the amount stays under every threshold, or when the
// limit is not positive (no limit set).
func (e *Evaluator) Evaluate(category string, month model.Month, amount, limit decimal.Decimal, forecast bool) *model.AlertEvent {
	if !limit.IsPositive() {
		return nil
	}

	for _, th := range e.thresholds {
		if amount.GreaterThanOrEqual(limit.Mul(th.Fraction)) {
			return &model.AlertEvent{
				Category: category,
				Month:    month,
				Amount:   amount,
				Limit:    limit,
				Severity: th.Severity,
				Forecast: forecast,
			}
		}
	}
	return nil
}
