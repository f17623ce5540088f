package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/importer"
	"github.com/pocketpilot/ppp/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import expenses from CSV files",
		Long: `Import expenses from CSV exports. Column headers are matched
case-insensitively and common aliases are recognized (date/posted,
amount/value, merchant/description/payee, note/memo).

Rows that fail to parse are reported and skipped; the rest import.
Duplicates are detected by date, amount and merchant and ignored.

Examples:
  ppp import ~/Downloads/statement.csv
  ppp import ~/Downloads/*.csv --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportCSV,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")

	return cmd
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("💸 Importing CSV files...", "file_count", len(files), "dry_run", dryRun)

	var all []model.Expense
	var rejected int

	bar := cli.NewProgressBar(len(files), "Parsing files...", os.Stderr)
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}

		result, err := importer.Parse(f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse CSV file", "file", filepath.Base(path), "error", err)
			continue
		}

		for _, rowErr := range result.Rejected {
			slog.Warn("Skipping malformed row",
				"file", filepath.Base(path),
				"line", rowErr.Line,
				"error", rowErr.Err)
		}
		rejected += len(result.Rejected)
		all = append(all, result.Expenses...)

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	if len(all) == 0 {
		slog.Info(cli.FormatWarning("No expenses found in the given files"))
		return nil
	}

	if dryRun {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		displayImportSummary(all, rejected, len(all))
		return nil
	}

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	inserted, err := eng.Ingest(ctx, all)
	if err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}

	slog.Info(cli.FormatSuccess("Import complete!"))
	displayImportSummary(all, rejected, inserted)

	return nil
}

func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			files = append(files, matches...)
		}
	}
	return files, nil
}

func displayImportSummary(expenses []model.Expense, rejected, inserted int) {
	total := decimal.Zero
	merchants := make(map[string]int)
	for _, e := range expenses {
		total = total.Add(e.Amount)
		merchants[e.Merchant]++
	}

	content := fmt.Sprintf(`Parsed: %d
Inserted: %d (duplicates skipped: %d)
Rejected rows: %d
Total amount: $%s
Unique merchants: %d
`, len(expenses), inserted, len(expenses)-inserted, rejected, total.StringFixed(2), len(merchants))

	slog.Info(cli.RenderBox("Import Summary", content))
}
