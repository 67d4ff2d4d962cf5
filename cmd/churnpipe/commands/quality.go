package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
	"github.com/spanishgas/churnpipe/pkg/redis"
)

// qualityCmd represents the quality command
var qualityCmd = &cobra.Command{
	Use:   "quality [run_id]",
	Short: "Show the quality reports of a run",
	Long: `Prints the per-layer quality reports of a run from the run
cache. Without an argument the latest run is used.

Example:
  go run ./cmd/churnpipe quality
  go run ./cmd/churnpipe quality run-20250101-030000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuality,
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}

func runQuality(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	ctx := context.Background()

	redisClient, cache, err := connectCache(cfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if cache == nil {
		return fmt.Errorf("redis is disabled, no run cache to query")
	}

	runID := ""
	if len(args) == 1 {
		runID = args[0]
	} else {
		var manifest contracts.RunManifest
		found, err := cache.Get(ctx, redis.LatestRunKey(), &manifest)
		if err != nil {
			return fmt.Errorf("read run cache: %w", err)
		}
		if !found {
			fmt.Println("No pipeline runs recorded yet")
			return nil
		}
		runID = manifest.RunID
	}

	for _, layer := range []string{"raw", "bronze", "silver", "gold"} {
		var report contracts.QualityReport
		found, err := cache.Get(ctx, redis.QualityKey(runID, layer), &report)
		if err != nil {
			return fmt.Errorf("read quality report: %w", err)
		}
		if !found {
			continue
		}
		printReport(report)
	}
	return nil
}

func printReport(report contracts.QualityReport) {
	verdict := "passed"
	if !report.Passed {
		verdict = "ISSUES"
	}
	fmt.Printf("%s: %d rows, %d columns, %d duplicate keys — %s\n",
		report.Layer, report.RowCount, report.ColumnCount, report.DuplicateKeys, verdict)
	for _, issue := range report.Issues {
		fmt.Printf("  - %s\n", issue)
	}

	// Worst null rates first
	type colRate struct {
		col  string
		rate float64
	}
	rates := make([]colRate, 0, len(report.NullRates))
	for col, rate := range report.NullRates {
		if rate > 0 {
			rates = append(rates, colRate{col, rate})
		}
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].rate > rates[j].rate })
	for i, cr := range rates {
		if i == 5 {
			break
		}
		fmt.Printf("    %-30s %.1f%% null\n", cr.col, cr.rate*100)
	}
}
