package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spanishgas/churnpipe/internal/pipeline"
	"github.com/spanishgas/churnpipe/internal/store"
	"github.com/spanishgas/churnpipe/pkg/database"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the feature pipeline once",
	Long: `Runs one full bronze/silver/gold rebuild from the raw extracts.

This command:
- Loads the raw CRM, contract, price, and consumption extracts
- Enriches interaction notes with intent and sentiment
- Builds the bronze, silver, and gold layer files
- Runs the data-quality gates between layers
- Writes the gold master and the model-ready training set

Example:
  go run ./cmd/churnpipe run
  go run ./cmd/churnpipe run --as-of 2025-01-01 --data-dir ./data`,
	RunE: runPipeline,
}

var runWithDB bool

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runWithDB, "db", false, "also upsert silver and gold rows into PostgreSQL")
}

func runPipeline(cmd *cobra.Command, args []string) error {
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

	runner := pipeline.NewRunner(cfg, log)
	if cache != nil {
		runner = runner.WithCache(cache)
	}

	if runWithDB {
		pool, err := database.NewPool(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		runner = runner.WithRepositories(pipeline.Repositories{
			Customers: store.NewCustomerRepository(pool),
			Months:    store.NewCustomerMonthRepository(pool),
			Gold:      store.NewGoldRepository(pool),
		})
	}

	manifest, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run %s failed: %w", manifest.RunID, err)
	}

	fmt.Printf("Run %s finished in %s\n", manifest.RunID, manifest.FinishedAt.Sub(manifest.StartedAt))
	for _, layer := range manifest.Layers {
		fmt.Printf("  %-7s %6d rows  %s\n", layer.Layer, layer.Rows, layer.Duration)
	}
	return nil
}
