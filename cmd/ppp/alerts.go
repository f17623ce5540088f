package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/report"
)

func alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show budget alerts for actual and forecast spend",
		Long: `Check every budget against this month's actual spend and next
month's forecast. Spend at 90% of a limit raises a warning; at or
past the limit it's an overspend.`,
		RunE: runAlerts,
	}
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builder := report.NewBuilder(store, newEvaluator())
	summary, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to evaluate budgets: %w", err)
	}

	if len(summary.Alerts) == 0 {
		slog.Info(cli.FormatSuccess("All budgets healthy"))
		return nil
	}

	for _, a := range summary.Alerts {
		fmt.Println(formatAlert(a))
	}
	return nil
}

func formatAlert(a model.AlertEvent) string {
	kind := "spent"
	if a.Forecast {
		kind = "forecast"
	}
	line := fmt.Sprintf("%s %s: $%s %s of $%s limit",
		a.Category, a.Month, a.Amount.StringFixed(2), kind, a.Limit.StringFixed(2))

	if a.Severity == model.SeverityOverspend {
		return cli.FormatError("OVERSPEND  " + line)
	}
	return cli.FormatWarning("WARNING    " + line)
}
