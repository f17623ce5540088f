package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/report"
	"github.com/pocketpilot/ppp/internal/service"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage per-category monthly budgets",
	}

	cmd.AddCommand(budgetsSetCmd())
	cmd.AddCommand(budgetsListCmd())

	return cmd
}

func budgetsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set CATEGORY LIMIT",
		Short: "Set or update the monthly limit for a category",
		Long: `Set the monthly spending limit for a category. Setting a new limit
for an existing category replaces the old one.

Examples:
  ppp budgets set Food 400
  ppp budgets set "Dining Out" 150.50`,
		Args: cobra.ExactArgs(2),
		RunE: runBudgetsSet,
	}
}

func runBudgetsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category := strings.TrimSpace(args[0])
	limit, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid limit %q: %w", args[1], err)
	}
	if limit.Sign() <= 0 {
		return fmt.Errorf("limit must be positive, got %s", limit)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	budget := &model.Budget{
		Category:  category,
		Limit:     limit,
		UpdatedAt: time.Now(),
	}
	if err := store.SetBudget(ctx, budget); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Budget for %s set to $%s/month",
		category, limit.StringFixed(2))))

	return nil
}

func budgetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with this month's spend against each",
		RunE:  runBudgetsList,
	}
}

func runBudgetsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	budgets, err := store.GetBudgets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load budgets: %w", err)
	}

	if len(budgets) == 0 {
		slog.Info(cli.FormatWarning("No budgets set. Use 'ppp budgets set CATEGORY LIMIT' first."))
		return nil
	}

	expenses, err := store.GetExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	month := model.MonthOf(time.Now())

	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-20s %12s %12s %8s",
		"CATEGORY", "LIMIT", "SPENT", "USED")))
	b.WriteString("\n")

	for _, budget := range budgets {
		spent := report.MonthTotal(expenses, budget.Category, month)
		used := "-"
		if budget.Limit.Sign() > 0 {
			pct := spent.Div(budget.Limit).Mul(decimal.NewFromInt(100))
			used = pct.StringFixed(0) + "%"
		}
		b.WriteString(fmt.Sprintf("%-20s %12s %12s %8s\n",
			truncate(budget.Category, 20),
			budget.Limit.StringFixed(2),
			spent.StringFixed(2),
			used))
	}

	fmt.Println(b.String())
	return nil
}
