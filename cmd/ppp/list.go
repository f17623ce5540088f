package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/service"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded expenses",
		Long: `List expenses from the database, newest first.

Examples:
  ppp list
  ppp list --category Food --limit 10
  ppp list --uncategorized`,
		RunE: runList,
	}

	cmd.Flags().StringP("category", "c", "", "only show expenses in this category")
	cmd.Flags().IntP("limit", "n", 25, "maximum number of expenses to show (0 for all)")
	cmd.Flags().BoolP("uncategorized", "u", false, "only show expenses without a learned category")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	uncategorized, _ := cmd.Flags().GetBool("uncategorized")

	var expenses []model.Expense
	if uncategorized {
		expenses, err = store.GetUncategorizedExpenses(ctx)
		if err == nil && limit > 0 && len(expenses) > limit {
			expenses = expenses[:limit]
		}
	} else {
		expenses, err = store.GetExpenses(ctx, service.ExpenseFilter{Category: category, Limit: limit})
	}
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	if len(expenses) == 0 {
		slog.Info(cli.FormatWarning("No expenses found"))
		return nil
	}

	fmt.Println(renderExpenseTable(expenses))
	return nil
}

func renderExpenseTable(expenses []model.Expense) string {
	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-12s %10s  %-28s %-16s %s",
		"DATE", "AMOUNT", "MERCHANT", "CATEGORY", "NOTE")))
	b.WriteString("\n")

	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = model.Uncategorized
		}
		b.WriteString(fmt.Sprintf("%-12s %10s  %-28s %-16s %s\n",
			e.Date.Format("2006-01-02"),
			e.Amount.StringFixed(2),
			truncate(e.Merchant, 28),
			truncate(category, 16),
			truncate(e.Note, 30)))
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
