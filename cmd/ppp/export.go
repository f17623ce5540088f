package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/export"
	"github.com/pocketpilot/ppp/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses, rules and budgets",
		Long: `Dump the full database for backup or spreadsheet work.

JSON format writes a single snapshot file (stdout by default).
CSV format writes expenses.csv, rules.csv and budgets.csv into a directory.

Examples:
  ppp export > backup.json
  ppp export --format json --out backup.json
  ppp export --format csv --out ./backup/`,
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "json", "output format (json, csv)")
	cmd.Flags().StringP("out", "o", "", "output file (json) or directory (csv)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	expenses, err := store.GetExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	rules, err := store.GetRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	budgets, err := store.GetBudgets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load budgets: %w", err)
	}

	snapshot := &export.Snapshot{Expenses: expenses, Rules: rules, Budgets: budgets}

	switch format {
	case "json":
		return exportJSON(snapshot, out)
	case "csv":
		return exportCSV(snapshot, out)
	default:
		return fmt.Errorf("unknown format %q (expected json or csv)", format)
	}
}

func exportJSON(snapshot *export.Snapshot, out string) error {
	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := export.WriteJSON(w, snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if out != "" {
		slog.Info(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses, %d rules, %d budgets to %s",
			len(snapshot.Expenses), len(snapshot.Rules), len(snapshot.Budgets), out)))
	}
	return nil
}

func exportCSV(snapshot *export.Snapshot, out string) error {
	if out == "" {
		out = "."
	}
	if err := os.MkdirAll(out, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", out, err)
	}

	writers := []struct {
		write func(io.Writer) error
		name  string
	}{
		{name: "expenses.csv", write: func(w io.Writer) error { return export.WriteExpensesCSV(w, snapshot.Expenses) }},
		{name: "rules.csv", write: func(w io.Writer) error { return export.WriteRulesCSV(w, snapshot.Rules) }},
		{name: "budgets.csv", write: func(w io.Writer) error { return export.WriteBudgetsCSV(w, snapshot.Budgets) }},
	}

	for _, file := range writers {
		path := filepath.Join(out, file.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		err = file.write(f)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses, %d rules, %d budgets to %s",
		len(snapshot.Expenses), len(snapshot.Rules), len(snapshot.Budgets), out)))
	return nil
}

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Load a JSON snapshot back into the database",
		Long: `Restore expenses, rules and budgets from a snapshot produced by
'ppp export'. Existing expenses with the same date, amount and
merchant are skipped; rules and budgets are replaced by key.`,
		Args: cobra.ExactArgs(1),
		RunE: runLoad,
	}

	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	snapshot, err := export.ReadJSON(f)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var inserted int
	if len(snapshot.Expenses) > 0 {
		inserted, err = store.SaveExpenses(ctx, snapshot.Expenses)
		if err != nil {
			return fmt.Errorf("failed to save expenses: %w", err)
		}
	}

	for i := range snapshot.Rules {
		rule := snapshot.Rules[i]
		if err := store.SaveRule(ctx, &rule); err != nil {
			return fmt.Errorf("failed to save rule %q: %w", rule.Pattern, err)
		}
	}

	for i := range snapshot.Budgets {
		budget := snapshot.Budgets[i]
		if err := store.SetBudget(ctx, &budget); err != nil {
			return fmt.Errorf("failed to save budget %q: %w", budget.Category, err)
		}
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Loaded %d new expenses (%d duplicates), %d rules, %d budgets",
		inserted, len(snapshot.Expenses)-inserted, len(snapshot.Rules), len(snapshot.Budgets))))

	return nil
}
