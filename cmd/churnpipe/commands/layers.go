package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spanishgas/churnpipe/internal/pipeline"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// Partial rebuilds: bronze and silver stop the run after their layer,
// gold is the full chain (it needs fresh silver inputs anyway).

var bronzeCmd = &cobra.Command{
	Use:   "bronze",
	Short: "Rebuild the bronze layer only",
	Long: `Loads the raw extracts and writes the bronze customer and
customer-month files, stopping before silver.

Example:
  go run ./cmd/churnpipe bronze --as-of 2025-01-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayers("bronze")
	},
}

var silverCmd = &cobra.Command{
	Use:   "silver",
	Short: "Rebuild the bronze and silver layers",
	Long: `Rebuilds bronze and silver (imputation, margins), stopping
before gold.

Example:
  go run ./cmd/churnpipe silver`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayers("silver")
	},
}

var goldCmd = &cobra.Command{
	Use:   "gold",
	Short: "Rebuild all layers through the gold master",
	Long: `Runs the full chain and writes the gold master and training
set. Equivalent to "run" without database sinks.

Example:
  go run ./cmd/churnpipe gold`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayers("")
	},
}

func init() {
	rootCmd.AddCommand(bronzeCmd)
	rootCmd.AddCommand(silverCmd)
	rootCmd.AddCommand(goldCmd)
}

func runLayers(stopAfter string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	redisClient, cache, err := connectCache(cfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	runner := pipeline.NewRunner(cfg, log)
	if cache != nil {
		runner = runner.WithCache(cache)
	}
	if stopAfter != "" {
		runner = runner.StopAfter(stopAfter)
	}

	manifest, err := runner.Run(context.Background())
	if err != nil {
		return fmt.Errorf("pipeline run %s failed: %w", manifest.RunID, err)
	}

	fmt.Printf("Run %s finished in %s\n", manifest.RunID, manifest.FinishedAt.Sub(manifest.StartedAt))
	for _, layer := range manifest.Layers {
		fmt.Printf("  %-7s %6d rows  %s\n", layer.Layer, layer.Rows, layer.Duration)
	}
	return nil
}
