package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/code-annotator/internal/ledger"
	"github.com/jonathan/code-annotator/internal/observability"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "List recent annotation runs recorded in the ledger",
	RunE:  runHistoryCmd,
}

var (
	historyLedgerPath string
	historyLimit      int
	historyRunID      string
)

func init() {
	historyCommand.Flags().StringVar(&historyLedgerPath, "ledger", "", "Path to the SQLite run ledger")
	historyCommand.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to show")
	historyCommand.Flags().StringVar(&historyRunID, "run", "", "Show per-file details for one run (ID or unique prefix)")

	rootCmd.AddCommand(historyCommand)
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLedgerPath == "" {
		return fmt.Errorf("--ledger is required")
	}

	led, err := ledger.Open(historyLedgerPath)
	if err != nil {
		return err
	}
	defer func() { _ = led.Close() }()

	printer := observability.NewPrinter(os.Stdout)

	if historyRunID != "" {
		return printRunDetails(cmd.Context(), led, printer, historyRunID)
	}

	runs, err := led.RecentRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		printer.Stepf("No runs recorded.")
		return nil
	}

	for _, run := range runs {
		printer.Stepf("%s  %s  root=%s policy=%s model=%s matched=%d annotated=%d skipped=%d failed=%d",
			run.StartedAt.Local().Format("2006-01-02 15:04"), shortID(run.ID),
			run.Root, run.Policy, run.Model, run.Matched, run.Annotated, run.Skipped, run.Failed)
	}
	return nil
}

// printRunDetails resolves a run by ID prefix and lists its per-file outcomes.
func printRunDetails(ctx context.Context, led *ledger.Ledger, printer *observability.Printer, idPrefix string) error {
	run, err := led.FindRun(ctx, idPrefix)
	if err != nil {
		return err
	}

	files, err := led.RunFiles(ctx, run.ID)
	if err != nil {
		return err
	}

	printer.Stepf("Run %s  started=%s root=%s policy=%s model=%s",
		run.ID, run.StartedAt.Local().Format("2006-01-02 15:04"), run.Root, run.Policy, run.Model)
	printer.Stepf("matched=%d annotated=%d skipped=%d ignored=%d failed=%d",
		run.Matched, run.Annotated, run.Skipped, run.Ignored, run.Failed)

	for _, file := range files {
		if file.Error != "" {
			printer.Stepf("  %-10s %s (%s)", file.Status, file.Path, file.Error)
			continue
		}
		printer.Stepf("  %-10s %s", file.Status, file.Path)
	}
	return nil
}

// shortID truncates a run UUID for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
