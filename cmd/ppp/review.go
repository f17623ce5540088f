package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively categorize expenses without a category",
		Long: `Walk through every uncategorized expense and assign categories.
Each answer teaches a feedback rule, so similar expenses are
categorized automatically next time. Press Enter to skip an expense,
Ctrl+C to stop.`,
		RunE: runReview,
	}

	cmd.Flags().IntP("limit", "n", 0, "review at most this many expenses (0 for all)")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	pending, err := store.GetUncategorizedExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load uncategorized expenses: %w", err)
	}
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	if len(pending) == 0 {
		slog.Info(cli.FormatSuccess("Nothing to review, every expense is categorized"))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Reviewing %d uncategorized expenses", len(pending))))

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	bar := cli.NewProgressBar(len(pending), "Reviewing expenses...", os.Stderr)

	var categorized, skipped int
	for _, expense := range pending {
		category, err := prompter.AskCategory(ctx, expense, knownCategories(eng.Rules().Rules()))
		if err != nil {
			if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, context.Canceled) {
				break
			}
			return fmt.Errorf("failed to read answer: %w", err)
		}

		if category == "" {
			skipped++
		} else {
			if _, err := eng.Correct(ctx, expense.ID, category); err != nil {
				if !errors.Is(err, common.ErrNoKeyword) {
					return fmt.Errorf("failed to apply correction: %w", err)
				}
				// No keyword to learn from, just relabel this one expense.
				if err := store.UpdateExpenseCategory(ctx, expense.ID, category); err != nil {
					return fmt.Errorf("failed to update expense: %w", err)
				}
			}
			categorized++
		}

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	slog.Info(cli.RenderBox("Review Complete", fmt.Sprintf(`Categorized: %d
Skipped: %d
Remaining: %d
`, categorized, skipped, len(pending)-categorized-skipped)))

	return nil
}

// knownCategories collects the distinct categories rules point at, in
// first-seen order.
func knownCategories(rules []model.Rule) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, r := range rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	return categories
}
