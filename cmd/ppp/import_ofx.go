package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pocketpilot/ppp/internal/cli"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX files",
		Long: `Import expenses from OFX or QFX (Quicken) files exported from your bank.
Only debits become expenses; credits such as payroll deposits are skipped.

Examples:
  ppp import-ofx ~/Downloads/chase_jan_2024.qfx
  ppp import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("💸 Importing OFX files...", "file_count", len(files), "dry_run", dryRun)

	parser := ofx.NewParser()

	var all []model.Expense
	seen := make(map[string]bool)

	bar := cli.NewProgressBar(len(files), "Parsing files...", os.Stderr)
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}

		expenses, err := parser.ParseFile(f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filepath.Base(path), "error", err)
			continue
		}

		added := 0
		for _, e := range expenses {
			if !seen[e.Hash] {
				seen[e.Hash] = true
				all = append(all, e)
				added++
			}
		}
		slog.Info("Processed file", "file", filepath.Base(path), "expenses", added)

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
		displayImportSummary(all, 0, len(all))
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
	displayImportSummary(all, 0, inserted)

	return nil
}
