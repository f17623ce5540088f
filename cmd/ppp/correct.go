package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
)

func correctCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct EXPENSE_ID CATEGORY",
		Short: "Correct an expense's category and learn from it",
		Long: `Reassign an expense to the given category and learn a feedback rule
from the most distinctive keyword in its description, so future
expenses from the same merchant are categorized correctly.

Example:
  ppp correct 3f2a9c1e-... Groceries`,
		Args: cobra.ExactArgs(2),
		RunE: runCorrect,
	}
}

func runCorrect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rule, err := eng.Correct(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to apply correction: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Learned: %q → %s", rule.Pattern, rule.Category)))
	return nil
}
