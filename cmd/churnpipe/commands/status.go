package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
	"github.com/spanishgas/churnpipe/pkg/redis"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest pipeline run",
	Long: `Prints the manifest of the most recent pipeline run from the
run cache.

Example:
  go run ./cmd/churnpipe status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	if cache == nil {
		return fmt.Errorf("redis is disabled, no run cache to query")
	}

	var manifest contracts.RunManifest
	found, err := cache.Get(context.Background(), redis.LatestRunKey(), &manifest)
	if err != nil {
		return fmt.Errorf("read run cache: %w", err)
	}
	if !found {
		fmt.Println("No pipeline runs recorded yet")
		return nil
	}

	status := "succeeded"
	if !manifest.Succeeded {
		status = fmt.Sprintf("failed: %s", manifest.Error)
	}

	fmt.Printf("Run %s (%s)\n", manifest.RunID, status)
	fmt.Printf("  as of:    %s\n", manifest.AsOfDate.Format("2006-01-02"))
	fmt.Printf("  started:  %s\n", manifest.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  finished: %s\n", manifest.FinishedAt.Format("2006-01-02 15:04:05"))
	for _, layer := range manifest.Layers {
		mark := "ok"
		if !layer.Succeeded {
			mark = "FAILED"
		}
		fmt.Printf("  %-7s %6d rows  %-10s %s\n", layer.Layer, layer.Rows, layer.Duration, mark)
	}
	return nil
}
