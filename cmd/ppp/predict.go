package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/report"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast next months' spend per category",
		Long: `Predict upcoming monthly spend for each category by fitting a trend
to the category's monthly totals. Categories with fewer than two
months of history repeat their last known total and are marked.

Examples:
  ppp predict
  ppp predict --horizon 3
  ppp predict --category Food`,
		RunE: runPredict,
	}

	cmd.Flags().IntP("horizon", "m", 1, "number of months to predict")
	cmd.Flags().StringP("category", "c", "", "only predict this category")

	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	horizon, _ := cmd.Flags().GetInt("horizon")
	category, _ := cmd.Flags().GetString("category")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builder := report.NewBuilder(store, newEvaluator())
	forecasts, err := builder.PredictCategories(ctx, horizon)
	if err != nil {
		return fmt.Errorf("failed to predict: %w", err)
	}

	if category != "" {
		results, ok := forecasts[category]
		if !ok {
			slog.Info(cli.FormatWarning(fmt.Sprintf("No spending history for category %q", category)))
			return nil
		}
		forecasts = map[string][]model.ForecastResult{category: results}
	}

	if len(forecasts) == 0 {
		slog.Info(cli.FormatWarning("No spending history to predict from"))
		return nil
	}

	fmt.Println(renderForecastTable(forecasts))
	return nil
}

func renderForecastTable(forecasts map[string][]model.ForecastResult) string {
	var flat []model.ForecastResult
	for _, results := range forecasts {
		flat = append(flat, results...)
	}

	// Order by category, then month
	for i := 0; i < len(flat); i++ {
		for j := i + 1; j < len(flat); j++ {
			if flat[j].Category < flat[i].Category ||
				(flat[j].Category == flat[i].Category && flat[j].Month < flat[i].Month) {
				flat[i], flat[j] = flat[j], flat[i]
			}
		}
	}

	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-20s %-10s %12s %10s",
		"CATEGORY", "MONTH", "PREDICTED", "STDERR")))
	b.WriteString("\n")
	for _, f := range flat {
		marker := ""
		if f.Insufficient {
			marker = "  (low history)"
		}
		b.WriteString(fmt.Sprintf("%-20s %-10s %12s %10.2f%s\n",
			truncate(f.Category, 20),
			f.Month,
			f.Predicted.StringFixed(2),
			f.StdError,
			marker))
	}

	return b.String()
}
