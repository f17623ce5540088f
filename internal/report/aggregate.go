// Package report derives totals, trend series, and dashboard summaries
// from stored expenses.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/forecast"
	"github.com/pocketpilot/ppp/internal/model"
)

// MonthlyTotals buckets expenses into an overall per-month series,
// ascending by month.
func MonthlyTotals(expenses []model.Expense) []forecast.Point {
	byMonth := make(map[model.Month]decimal.Decimal)
	for _, e := range expenses {
		m := e.Month()
		byMonth[m] = byMonth[m].Add(e.Amount)
	}
	return sortedPoints(byMonth)
}

// CategoryMonthlyTotals buckets expenses into a per-category, per-month
// series. Expenses without a category fall under the sentinel.
func CategoryMonthlyTotals(expenses []model.Expense) map[string][]forecast.Point {
	byCat := make(map[string]map[model.Month]decimal.Decimal)
	for _, e := range expenses {
		cat := e.Category
		if cat == "" {
			cat = model.Uncategorized
		}
		if byCat[cat] == nil {
			byCat[cat] = make(map[model.Month]decimal.Decimal)
		}
		m := e.Month()
		byCat[cat][m] = byCat[cat][m].Add(e.Amount)
	}

	out := make(map[string][]forecast.Point, len(byCat))
	for cat, months := range byCat {
		out[cat] = sortedPoints(months)
	}
	return out
}

// TotalsByCategory sums all expenses per category, descending by total.
func TotalsByCategory(expenses []model.Expense) []model.CategoryTotal {
	byCat := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		cat := e.Category
		if cat == "" {
			cat = model.Uncategorized
		}
		byCat[cat] = byCat[cat].Add(e.Amount)
	}

	out := make([]model.CategoryTotal, 0, len(byCat))
	for cat, total := range byCat {
		out = append(out, model.CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthTotal sums the spend of one category in one month.
func MonthTotal(expenses []model.Expense, category string, month model.Month) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Category == category && e.Month() == month {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func sortedPoints(byMonth map[model.Month]decimal.Decimal) []forecast.Point {
	out := make([]forecast.Point, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, forecast.Point{Month: m, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
