package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fact-check many claims from a file in parallel",
	Long: `Batch checks every claim in a file concurrently:
- One claim per line; blank lines and lines starting with # are skipped
- Duplicate claims are checked once
- Every successful check is added to history

Example:
  truthcheck batch claims.txt
  truthcheck batch claims.txt --concurrency 8 --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	workers := concurrency
	if workers <= 0 {
		workers = a.config.Concurrency.Workers
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  TruthCheck Batch\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Input file:   %s\n", file)
	fmt.Fprintf(errOut, "  Workers:      %d\n", workers)
	fmt.Fprintf(errOut, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(errOut, "\n")

	results, err := a.pipeline.Batch(workers).ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	out := cmd.OutOrStdout()
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if err := result.GetError(); err != nil {
			failureCount++
			fmt.Fprintf(out, "✗ %s: %v\n", result.Claim, err)
			continue
		}
		successCount++
		fmt.Fprintf(out, "✓ %s: %s\n", result.Claim, result.Result.AnalysisText)
	}

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Total:     %d claims\n", len(results))
	fmt.Fprintf(errOut, "  Success:   %d\n", successCount)
	fmt.Fprintf(errOut, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(errOut, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d claims failed", failureCount, len(results))
	}
	return nil
}
