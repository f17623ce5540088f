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
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add AMOUNT MERCHANT [NOTE...]",
		Short: "Record a single expense",
		Long: `Record one expense by hand. The expense is categorized immediately
using the current keyword rules; unmatched expenses land in ` + model.Uncategorized + `.

Examples:
  ppp add 12.50 "Blue Bottle" morning coffee
  ppp add 89.99 Amazon --date 2024-03-15
  ppp add 45.00 Shell --category Transport`,
		Args: cobra.MinimumNArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringP("date", "d", "", "expense date (format: 2006-01-02, default: today)")
	cmd.Flags().StringP("category", "c", "", "assign a category directly, skipping the rules")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}

	date := time.Now()
	if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid date format: %w", err)
		}
	}

	merchant := args[1]
	note := strings.Join(args[2:], " ")

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	expense := model.NewExpense(date, amount, merchant, note)
	if category, _ := cmd.Flags().GetString("category"); category != "" {
		expense.Category = category
		if _, err := store.SaveExpenses(ctx, []model.Expense{expense}); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
	} else {
		if _, err := eng.Ingest(ctx, []model.Expense{expense}); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		expense.Category = eng.Categorize(expense)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Recorded $%s at %s → %s",
		amount.StringFixed(2), merchant, expense.Category)))

	return nil
}
