package alert

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpilot/ppp/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluator_Evaluate(t *testing.T) {
	eval := NewEvaluator()
	month := model.Month("2024-05")

	tests := []struct {
		name         string
		amount       string
		limit        string
		wantSeverity model.AlertSeverity
		wantNil      bool
	}{
		{"well under budget", "50", "100", "", true},
		{"just under warning threshold", "89.99", "100", "", true},
		{"at warning threshold", "90", "100", model.SeverityWarning, false},
		{"between thresholds", "95", "100", model.SeverityWarning, false},
		{"at the limit", "100", "100", model.SeverityOverspend, false},
		{"over the limit", "150", "100", model.SeverityOverspend, false},
		{"no limit set", "500", "0", "", true},
		{"negative limit treated as unset", "500", "-10", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval.Evaluate("Food", month, dec(tt.amount), dec(tt.limit), false)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantSeverity, got.Severity)
			assert.Equal(t, "Food", got.Category)
			assert.Equal(t, month, got.Month)
		})
	}
}

func TestEvaluator_Deterministic(t *testing.T) {
	eval := NewEvaluator()
	month := model.Month("2024-05")

	first := eval.Evaluate("Food", month, dec("95"), dec("100"), true)
	second := eval.Evaluate("Food", month, dec("95"), dec("100"), true)
	assert.Equal(t, first, second)
}

func TestEvaluator_CustomThresholds(t *testing.T) {
	// Given out of order; the evaluator must sort them itself.
	eval := NewEvaluator(
		Threshold{Fraction: dec("0.5"), Severity: model.SeverityWarning},
		Threshold{Fraction: dec("1.2"), Severity: model.SeverityOverspend},
	)

	got := eval.Evaluate("Rent", "2024-06", dec("60"), dec("100"), false)
	require.NotNil(t, got)
	assert.Equal(t, model.SeverityWarning, got.Severity)

	got = eval.Evaluate("Rent", "2024-06", dec("120"), dec("100"), false)
	require.NotNil(t, got)
	assert.Equal(t, model.SeverityOverspend, got.Severity)
}

func TestEvaluator_ForecastFlagCarries(t *testing.T) {
	eval := NewEvaluator()

	got := eval.Evaluate("Food", "2024-07", dec("200"), dec("100"), true)
	require.NotNil(t, got)
	assert.True(t, got.Forecast)
}
