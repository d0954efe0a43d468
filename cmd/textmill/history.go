package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textmill/internal/ledger"
	"github.com/pdiddy/textmill/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded batch runs",
	Long: `History lists recent batch runs from the run ledger, newest first.
With --run it prints the per-document outcomes of one run instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("ledger", "textmill.db", "run-ledger database path")
	historyCmd.Flags().Int("limit", 10, "maximum number of runs to show")
	historyCmd.Flags().Int64("run", 0, "show outcomes for this run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetInt64("run")

	store, err := ledger.Open(ledgerPath)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer store.Close()

	if runID > 0 {
		return printOutcomes(store, runID)
	}

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return fmt.Errorf("reading runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "no recorded runs")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "run %d  %s  %d converted, %d skipped, %d failed\n",
			r.ID, r.FinishedAt.Format(time.RFC3339), r.Converted, r.Skipped, r.Failed)
	}
	return nil
}

func printOutcomes(store *ledger.Store, runID int64) error {
	outcomes, err := store.Outcomes(runID)
	if err != nil {
		return fmt.Errorf("reading outcomes: %w", err)
	}
	if len(outcomes) == 0 {
		fmt.Fprintf(os.Stdout, "no outcomes for run %d\n", runID)
		return nil
	}

	for _, o := range outcomes {
		if o.Method == types.MethodFailed {
			fmt.Fprintf(os.Stdout, "%-12s %s (%s)\n", o.Method, o.Document.Name, o.Error)
			continue
		}
		fmt.Fprintf(os.Stdout, "%-12s %s -> %s\n", o.Method, o.Document.Name, o.TextPath)
	}
	return nil
}
