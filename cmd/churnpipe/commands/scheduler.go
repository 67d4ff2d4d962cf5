package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spanishgas/churnpipe/internal/pipeline"
	"github.com/spanishgas/churnpipe/internal/scheduler"
	"github.com/spanishgas/churnpipe/internal/scheduler/jobs"
	"github.com/spanishgas/churnpipe/internal/store"
	"github.com/spanishgas/churnpipe/pkg/database"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the pipeline scheduler",
	Long: `Starts the scheduler daemon.

Registered jobs:
- feature_pipeline: full bronze/silver/gold rebuild (PIPELINE_CRON,
  default every day at 3 AM)

Example:
  go run ./cmd/churnpipe scheduler
  go run ./cmd/churnpipe scheduler --now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "trigger the pipeline job immediately on startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
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

	// Scheduled runs upsert into PostgreSQL when it is reachable.
	if pool, err := database.NewPool(ctx, cfg, log); err != nil {
		log.WithError(err).Warn("Database unavailable, scheduled runs write parquet only")
	} else {
		defer pool.Close()
		runner = runner.WithRepositories(pipeline.Repositories{
			Customers: store.NewCustomerRepository(pool),
			Months:    store.NewCustomerMonthRepository(pool),
			Gold:      store.NewGoldRepository(pool),
		})
	}

	sched := scheduler.New(log)
	job := jobs.NewPipelineJob(runner, cfg.PipelineCron, log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register pipeline job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("Scheduler running, pipeline scheduled at %q\n", cfg.PipelineCron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return nil
}
