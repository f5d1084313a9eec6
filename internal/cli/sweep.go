package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agnilab/gluesweep/internal/executor"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <sweep.yaml>",
	Short: "Dispatch a hyperparameter sweep",
	Long: `Expand the configured parameter grid and dispatch one trainer invocation
per combination, bounded by max_parallel. A failing run is recorded and the
sweep continues; runs never fed to a worker after an interrupt are counted
as skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	result, err := executor.RunFromConfig(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\nSweep: %s\n", result.SweepName)
	fmt.Printf("Job ID: %s\n", result.JobID)
	fmt.Printf("Total runs: %d\n", result.TotalRuns)
	fmt.Printf("Completed: %d\n", result.CompletedRuns)
	fmt.Printf("Failed: %d\n", result.FailedRuns)
	fmt.Printf("Skipped: %d\n", result.SkippedRuns)
	fmt.Printf("Duration: %.2fs\n", result.TotalDurationSec)

	if result.Cancelled {
		return fmt.Errorf("sweep cancelled with %d run(s) not dispatched", result.SkippedRuns)
	}
	if result.FailedRuns > 0 {
		return fmt.Errorf("sweep finished with %d failed run(s)", result.FailedRuns)
	}
	return nil
}
