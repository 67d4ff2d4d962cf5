package jobs

import (
	"context"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// PipelineRunner is the subset of the pipeline runner the job needs.
type PipelineRunner interface {
	Run(ctx context.Context) (*contracts.RunManifest, error)
}

// PipelineJob runs the full bronze→silver→gold rebuild on a cron
// schedule, typically nightly after the raw extracts land.
type PipelineJob struct {
	runner   PipelineRunner
	schedule string
	logger   *logger.Logger
}

// NewPipelineJob creates the scheduled pipeline job.
func NewPipelineJob(runner PipelineRunner, schedule string, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *PipelineJob) Name() string {
	return "feature_pipeline"
}

// Schedule returns the cron schedule.
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes one pipeline run.
func (j *PipelineJob) Run(ctx context.Context) error {
	manifest, err := j.runner.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":    manifest.RunID,
		"succeeded": manifest.Succeeded,
		"layers":    len(manifest.Layers),
	}).Info("Scheduled pipeline run finished")

	return nil
}
