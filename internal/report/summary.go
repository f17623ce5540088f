package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketpilot/ppp/internal/alert"
	"github.com/pocketpilot/ppp/internal/forecast"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/service"
)

// recentLimit caps the recent-expense list in a summary.
const recentLimit = 50

// Summary is the full dashboard payload handed to the presentation layer.
type Summary struct {
	TotalsByCategory []model.CategoryTotal
	MonthSeries      []forecast.Point
	Recent           []model.Expense
	Budgets          []model.Budget
	Forecasts        []model.ForecastResult
	Alerts           []model.AlertEvent
}

// Builder assembles summaries from storage.
type Builder struct {
	storage   service.Storage
	evaluator *alert.Evaluator
	now       func() time.Time
}

// NewBuilder creates a summary builder.
func NewBuilder(storage service.Storage, evaluator *alert.Evaluator) *Builder {
	return &Builder{
		storage:   storage,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// Build loads all expenses and budgets and derives the summary: all-time
// category totals, the overall month series, next-month forecasts per
// category, and budget alerts for both the current month's actual spend and
// the predicted next month.
func (b *Builder) Build(ctx context.Context) (*Summary, error) {
	expenses, err := b.storage.GetExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	budgets, err := b.storage.GetBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}
	limits := make(map[string]model.Budget, len(budgets))
	for _, budget := range budgets {
		limits[budget.Category] = budget
	}

	summary := &Summary{
		TotalsByCategory: TotalsByCategory(expenses),
		MonthSeries:      MonthlyTotals(expenses),
		Budgets:          budgets,
		Recent:           recent(expenses),
	}

	currentMonth := model.MonthOf(b.now())

	for category, series := range CategoryMonthlyTotals(expenses) {
		results, err := forecast.Predict(series, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to forecast %s: %w", category, err)
		}
		next := results[0]
		next.Category = category
		summary.Forecasts = append(summary.Forecasts, next)

		budget, ok := limits[category]
		if !ok {
			continue
		}

		// Actual spend so far this month.
		actual := MonthTotal(expenses, category, currentMonth)
		if event := b.evaluator.Evaluate(category, currentMonth, actual, budget.Limit, false); event != nil {
			summary.Alerts = append(summary.Alerts, *event)
		}

		// Predicted spend next month.
		if event := b.evaluator.Evaluate(category, next.Month, next.Predicted, budget.Limit, true); event != nil {
			summary.Alerts = append(summary.Alerts, *event)
		}
	}

	sortForecasts(summary.Forecasts)
	sortAlerts(summary.Alerts)

	slog.Debug("built summary",
		"expenses", len(expenses),
		"categories", len(summary.TotalsByCategory),
		"alerts", len(summary.Alerts))
	return summary, nil
}

// PredictCategories produces horizon-month forecasts for every category
// with any spending history.
func (b *Builder) PredictCategories(ctx context.Context, horizon int) (map[string][]model.ForecastResult, error) {
	expenses, err := b.storage.GetExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	out := make(map[string][]model.ForecastResult)
	for category, series := range CategoryMonthlyTotals(expenses) {
		results, err := forecast.Predict(series, horizon)
		if err != nil {
			return nil, fmt.Errorf("failed to forecast %s: %w", category, err)
		}
		for i := range results {
			results[i].Category = category
		}
		out[category] = results
	}
	return out, nil
}

func recent(expenses []model.Expense) []model.Expense {
	if len(expenses) <= recentLimit {
		return expenses
	}
	return expenses[:recentLimit]
}

func sortForecasts(forecasts []model.ForecastResult) {
	for i := 0; i < len(forecasts)-1; i++ {
		for j := 0; j < len(forecasts)-i-1; j++ {
			if forecasts[j].Category > forecasts[j+1].Category {
				forecasts[j], forecasts[j+1] = forecasts[j+1], forecasts[j]
			}
		}
	}
}

func sortAlerts(alerts []model.AlertEvent) {
	for i := 0; i < len(alerts)-1; i++ {
		for j := 0; j < len(alerts)-i-1; j++ {
			a, b := alerts[j], alerts[j+1]
			if a.Category > b.Category || (a.Category == b.Category && a.Month > b.Month) {
				alerts[j], alerts[j+1] = alerts[j+1], alerts[j]
			}
		}
	}
}
