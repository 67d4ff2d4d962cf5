package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spanishgas/churnpipe/internal/api"
	"github.com/spanishgas/churnpipe/internal/api/handlers"
	"github.com/spanishgas/churnpipe/internal/store"
	"github.com/spanishgas/churnpipe/pkg/database"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /health                                  - Health check
  GET /api/runs/latest                         - Latest run manifest
  GET /api/runs/{run_id}                       - Run manifest
  GET /api/runs/{run_id}/quality/{layer}       - Layer quality report
  GET /api/customers/{customer_id}/features    - Gold feature row

Example:
  go run ./cmd/churnpipe api
  go run ./cmd/churnpipe api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides API_PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.APIPort = apiPort
	}

	log := logger.New(cfg)
	ctx := context.Background()

	redisClient, cache, err := connectCache(cfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Gold feature lookups need the database; serve manifests alone if
	// it is unreachable.
	var features handlers.FeatureReader
	pool, err := database.NewPool(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Warn("Database unavailable, feature endpoints disabled")
	} else {
		defer pool.Close()
		features = store.NewGoldRepository(pool)
	}

	runHandler := handlers.NewRunHandler(cache, features, log)
	router := api.NewRouter(runHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.APIPort)

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
