package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/report"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the full spending dashboard",
		Long: `Render the dashboard: totals per category, the monthly spend series,
next-month forecasts, budgets, and any active alerts.`,
		RunE: runSummary,
	}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builder := report.NewBuilder(store, newEvaluator())
	summary, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}

	fmt.Println(renderSummary(summary))
	return nil
}

func renderSummary(s *report.Summary) string {
	var b strings.Builder

	if len(s.TotalsByCategory) == 0 {
		return cli.FormatWarning("No expenses recorded yet. Try 'ppp add' or 'ppp import'.")
	}

	var totals strings.Builder
	for _, t := range s.TotalsByCategory {
		totals.WriteString(fmt.Sprintf("%-20s %12s\n", truncate(t.Category, 20), t.Total.StringFixed(2)))
	}
	b.WriteString(cli.RenderBox("Spending by Category", totals.String()))
	b.WriteString("\n")

	if len(s.MonthSeries) > 0 {
		var months strings.Builder
		for _, p := range s.MonthSeries {
			months.WriteString(fmt.Sprintf("%-10s %12s\n", p.Month, p.Total.StringFixed(2)))
		}
		b.WriteString(cli.RenderBox("Monthly Totals", months.String()))
		b.WriteString("\n")
	}

	if len(s.Forecasts) > 0 {
		var forecasts strings.Builder
		for _, f := range s.Forecasts {
			marker := ""
			if f.Insufficient {
				marker = "  (low history)"
			}
			forecasts.WriteString(fmt.Sprintf("%-20s %-10s %12s%s\n",
				truncate(f.Category, 20), f.Month, f.Predicted.StringFixed(2), marker))
		}
		b.WriteString(cli.RenderBox("Next Month Forecast", forecasts.String()))
		b.WriteString("\n")
	}

	if len(s.Alerts) > 0 {
		for _, a := range s.Alerts {
			b.WriteString(formatAlert(a))
			b.WriteString("\n")
		}
	} else if len(s.Budgets) > 0 {
		b.WriteString(cli.FormatSuccess("All budgets healthy"))
		b.WriteString("\n")
	}

	return b.String()
}
