package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pocketpilot/ppp/internal/model"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		max  int
	}{
		{name: "short stays", in: "Food", max: 10, want: "Food"},
		{name: "exact stays", in: "Groceries", max: 9, want: "Groceries"},
		{name: "long clipped", in: "Entertainment", max: 6, want: "Enter…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.max))
		})
	}
}

func TestRenderExpenseTable(t *testing.T) {
	expenses := []model.Expense{
		model.NewExpense(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			decimal.RequireFromString("12.50"), "Blue Bottle", "coffee"),
	}
	expenses[0].Category = "Food"

	out := renderExpenseTable(expenses)
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "Blue Bottle")
	assert.Contains(t, out, "Food")
}

func TestRenderExpenseTable_EmptyCategoryFallsBack(t *testing.T) {
	expenses := []model.Expense{
		model.NewExpense(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			decimal.RequireFromString("5.00"), "Mystery", ""),
	}

	out := renderExpenseTable(expenses)
	assert.Contains(t, out, model.Uncategorized)
}

func TestKnownCategories(t *testing.T) {
	rules := []model.Rule{
		{Pattern: "starbucks", Category: "Food"},
		{Pattern: "uber", Category: "Transport"},
		{Pattern: "cafe", Category: "Food"},
	}

	assert.Equal(t, []string{"Food", "Transport"}, knownCategories(rules))
}

func TestFormatAlert(t *testing.T) {
	warning := model.AlertEvent{
		Category: "Food",
		Month:    "2024-03",
		Amount:   decimal.RequireFromString("95"),
		Limit:    decimal.RequireFromString("100"),
		Severity: model.SeverityWarning,
	}
	out := formatAlert(warning)
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "spent")

	overspend := warning
	overspend.Severity = model.SeverityOverspend
	overspend.Forecast = true
	out = formatAlert(overspend)
	assert.Contains(t, out, "OVERSPEND")
	assert.Contains(t, out, "forecast")
}
