package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rules",
		Long: `Inspect and edit the keyword rules that map expense descriptions
to categories. Patterns match case-insensitively as substrings.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesRemoveCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categorization rules",
		RunE:  runRulesList,
	}
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rules := eng.Rules().Rules()
	if len(rules) == 0 {
		slog.Info(cli.FormatWarning("No rules defined"))
		return nil
	}

	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-24s %-18s %-10s %6s",
		"PATTERN", "CATEGORY", "SOURCE", "WEIGHT")))
	b.WriteString("\n")
	for _, r := range rules {
		b.WriteString(fmt.Sprintf("%-24s %-18s %-10s %6d\n",
			truncate(r.Pattern, 24),
			truncate(r.Category, 18),
			r.Source,
			r.Weight))
	}

	fmt.Println(b.String())
	return nil
}

func rulesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add PATTERN CATEGORY",
		Short: "Add a keyword rule",
		Long: `Add a rule mapping a keyword to a category. Adding a rule with an
existing pattern replaces it.

Examples:
  ppp rules add starbucks Food
  ppp rules add "whole foods" Groceries`,
		Args: cobra.ExactArgs(2),
		RunE: runRulesAdd,
	}
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rule, err := eng.AddRule(ctx, args[0], args[1], model.RuleSourceManual)
	if err != nil {
		return fmt.Errorf("failed to add rule: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Rule added: %q → %s", rule.Pattern, rule.Category)))
	return nil
}

func rulesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove PATTERN",
		Short: "Remove a keyword rule",
		Args:  cobra.ExactArgs(1),
		RunE:  runRulesRemove,
	}
}

func runRulesRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := eng.RemoveRule(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to remove rule: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Rule %q removed", args[0])))
	return nil
}
