package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spanishgas/churnpipe/internal/aggregate"
	"github.com/spanishgas/churnpipe/internal/bronze"
	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/internal/external/nlp"
	"github.com/spanishgas/churnpipe/internal/gold"
	"github.com/spanishgas/churnpipe/internal/ingest"
	"github.com/spanishgas/churnpipe/internal/quality"
	"github.com/spanishgas/churnpipe/internal/silver"
	"github.com/spanishgas/churnpipe/internal/store"
	"github.com/spanishgas/churnpipe/internal/tariff"
	"github.com/spanishgas/churnpipe/pkg/config"
	"github.com/spanishgas/churnpipe/pkg/logger"
	"github.com/spanishgas/churnpipe/pkg/redis"
)

// Repositories bundles the optional Postgres sinks. Nil members are skipped:
// a run without a database still produces every parquet layer file.
type Repositories struct {
	Customers *store.CustomerRepository
	Months    *store.CustomerMonthRepository
	Gold      *store.GoldRepository
}

// Runner executes one bronze→silver→gold run end to end: raw loading, NLP
// enrichment, chunked consumption aggregation, the three layer builders,
// quality gates between layers, and persistence of every boundary.
type Runner struct {
	cfg    *config.Config
	logger *logger.Logger

	loader      *ingest.Loader
	consumption *ingest.ConsumptionReader
	enricher    *nlp.Enricher
	parquet     *store.ParquetStore
	gate        *quality.Gate

	bronzeBuilder *bronze.Builder
	silverBuilder *silver.Builder
	goldBuilder   *gold.Builder

	cache     *redis.Cache
	repos     Repositories
	stopAfter string
}

// NewRunner wires a runner from config. Sentiment enrichment is attached
// only when the NLP service is enabled.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	var scorer nlp.SentimentScorer
	if cfg.NLP.Enabled {
		scorer = nlp.NewSentimentClient(cfg.NLP, log)
	}

	return &Runner{
		cfg:           cfg,
		logger:        log,
		loader:        ingest.NewLoader(cfg.DataDir, log),
		consumption:   ingest.NewConsumptionReader(cfg.ConsumptionChunkSize, log),
		enricher:      nlp.NewEnricher(scorer, log),
		parquet:       store.NewParquetStore(cfg.ParquetDir, log),
		gate:          quality.NewGate(quality.DefaultConfig(), log),
		bronzeBuilder: bronze.NewBuilder(log),
		silverBuilder: silver.NewBuilder(silver.NewChannelNormalizer(silver.DefaultChannelMap), silver.NewImputer(log), log),
		goldBuilder:   gold.NewBuilder(log),
	}
}

// WithCache attaches the run-manifest cache.
func (r *Runner) WithCache(cache *redis.Cache) *Runner {
	r.cache = cache
	return r
}

// WithRepositories attaches the Postgres sinks.
func (r *Runner) WithRepositories(repos Repositories) *Runner {
	r.repos = repos
	return r
}

// StopAfter truncates the run after the named layer ("bronze" or
// "silver"), for partial rebuilds from the CLI.
func (r *Runner) StopAfter(layer string) *Runner {
	r.stopAfter = layer
	return r
}

// Run executes the full pipeline. The returned manifest is always non-nil
// and already persisted to the cache, failed or not.
func (r *Runner) Run(ctx context.Context) (*contracts.RunManifest, error) {
	started := time.Now().UTC()
	manifest := &contracts.RunManifest{
		RunID:     "run-" + started.Format("20060102-150405"),
		StartedAt: started,
	}

	asOf, err := r.cfg.AsOf()
	if err != nil {
		return r.fail(ctx, manifest, fmt.Errorf("resolve as-of date: %w", err))
	}
	manifest.AsOfDate = asOf

	r.logger.WithFields(map[string]interface{}{
		"run_id": manifest.RunID,
		"as_of":  asOf.Format("2006-01-02"),
	}).Info("pipeline run started")

	// Raw
	raw, monthly, err := r.loadRaw(ctx, manifest)
	if err != nil {
		return r.fail(ctx, manifest, err)
	}

	// Bronze
	bronzeCustomer, bronzeMonths, err := r.runBronze(ctx, manifest, raw, monthly)
	if err != nil {
		return r.fail(ctx, manifest, err)
	}
	if r.stopAfter == "bronze" {
		return r.finish(ctx, manifest), nil
	}

	// Silver
	silverCustomer, silverMonths, err := r.runSilver(ctx, manifest, bronzeCustomer, bronzeMonths)
	if err != nil {
		return r.fail(ctx, manifest, err)
	}
	if r.stopAfter == "silver" {
		return r.finish(ctx, manifest), nil
	}

	// Gold
	if err := r.runGold(ctx, manifest, silverCustomer, silverMonths, asOf); err != nil {
		return r.fail(ctx, manifest, err)
	}

	return r.finish(ctx, manifest), nil
}

func (r *Runner) finish(ctx context.Context, manifest *contracts.RunManifest) *contracts.RunManifest {
	manifest.Succeed(time.Now().UTC())
	r.persistManifest(ctx, manifest)

	r.logger.WithFields(map[string]interface{}{
		"run_id":   manifest.RunID,
		"duration": manifest.FinishedAt.Sub(manifest.StartedAt),
	}).Info("pipeline run finished")
	return manifest
}

// loadRaw loads the reference tables, enriches interactions, and folds the
// consumption stream into customer-month aggregates chunk by chunk.
func (r *Runner) loadRaw(ctx context.Context, manifest *contracts.RunManifest) (*contracts.RawTables, []contracts.CustomerMonth, error) {
	start := time.Now()

	raw, err := r.loader.LoadAll()
	if err != nil {
		r.addLayer(manifest, "raw", 0, start, err, "")
		return nil, nil, err
	}

	raw.Interactions = r.enricher.EnrichInteractions(ctx, raw.Interactions)

	agg := aggregate.New(tariff.NewAssigner(tariff.SpanishCalendar()))
	consumptionPath := filepath.Join(r.cfg.DataDir, ingest.ConsumptionFile)
	err = r.consumption.Stream(consumptionPath, func(chunk []contracts.Reading) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		agg.Add(chunk)
		return nil
	})
	if err != nil {
		r.addLayer(manifest, "raw", 0, start, err, "")
		return nil, nil, err
	}
	monthly := agg.Rows()

	r.cacheReport(ctx, manifest.RunID, r.gate.CheckCustomerMonths(quality.LayerRaw, monthly))
	r.addLayer(manifest, "raw", len(monthly), start, nil, "")
	return raw, monthly, nil
}

func (r *Runner) runBronze(ctx context.Context, manifest *contracts.RunManifest, raw *contracts.RawTables, monthly []contracts.CustomerMonth) ([]contracts.Customer, []contracts.CustomerMonth, error) {
	start := time.Now()

	customers, err := r.bronzeBuilder.BuildCustomer(raw)
	if err != nil {
		r.addLayer(manifest, "bronze", 0, start, err, "")
		return nil, nil, err
	}
	months := r.bronzeBuilder.BuildCustomerMonth(monthly, raw.Prices, raw.ProvinceCosts, raw.ProvinceLookup)

	r.cacheReport(ctx, manifest.RunID, r.gate.CheckCustomers(quality.LayerBronze, customers))

	if err := store.WriteRows(r.parquet, store.BronzeCustomerFile, customers); err != nil {
		r.addLayer(manifest, "bronze", len(customers), start, err, "")
		return nil, nil, err
	}
	if err := store.WriteRows(r.parquet, store.BronzeCustomerMonthFile, months); err != nil {
		r.addLayer(manifest, "bronze", len(months), start, err, "")
		return nil, nil, err
	}

	r.addLayer(manifest, "bronze", len(customers), start, nil, r.parquet.Path(store.BronzeCustomerFile))
	return customers, months, nil
}

func (r *Runner) runSilver(ctx context.Context, manifest *contracts.RunManifest, customers []contracts.Customer, months []contracts.CustomerMonth) ([]contracts.Customer, []contracts.CustomerMonth, error) {
	start := time.Now()

	silverCustomer, silverMonths := r.silverBuilder.Build(customers, months)

	r.cacheReport(ctx, manifest.RunID, r.gate.CheckCustomers(quality.LayerSilver, silverCustomer))

	if err := store.WriteRows(r.parquet, store.SilverCustomerFile, silverCustomer); err != nil {
		r.addLayer(manifest, "silver", len(silverCustomer), start, err, "")
		return nil, nil, err
	}
	if err := store.WriteRows(r.parquet, store.SilverCustomerMonthFile, silverMonths); err != nil {
		r.addLayer(manifest, "silver", len(silverMonths), start, err, "")
		return nil, nil, err
	}

	if r.repos.Customers != nil {
		if err := r.repos.Customers.SaveBatch(ctx, silverCustomer); err != nil {
			r.addLayer(manifest, "silver", len(silverCustomer), start, err, "")
			return nil, nil, err
		}
	}
	if r.repos.Months != nil {
		if err := r.repos.Months.SaveBatch(ctx, silverMonths); err != nil {
			r.addLayer(manifest, "silver", len(silverMonths), start, err, "")
			return nil, nil, err
		}
	}

	r.addLayer(manifest, "silver", len(silverCustomer), start, nil, r.parquet.Path(store.SilverCustomerFile))
	return silverCustomer, silverMonths, nil
}

func (r *Runner) runGold(ctx context.Context, manifest *contracts.RunManifest, customers []contracts.Customer, months []contracts.CustomerMonth, asOf time.Time) error {
	start := time.Now()

	rows, err := r.goldBuilder.Build(customers, months, asOf)
	if err != nil {
		r.addLayer(manifest, "gold", 0, start, err, "")
		return err
	}

	r.cacheReport(ctx, manifest.RunID, r.gate.CheckGold(rows))

	if err := store.WriteRows(r.parquet, store.GoldMasterFile, rows); err != nil {
		r.addLayer(manifest, "gold", len(rows), start, err, "")
		return err
	}

	// Model handoff: same rows with structural nulls closed.
	training := make([]contracts.GoldRow, len(rows))
	copy(training, rows)
	gold.ApplyModelFills(training)
	if err := store.WriteRows(r.parquet, store.TrainingSetFile, training); err != nil {
		r.addLayer(manifest, "gold", len(rows), start, err, "")
		return err
	}

	if r.repos.Gold != nil {
		if err := r.repos.Gold.SaveBatch(ctx, manifest.RunID, rows); err != nil {
			r.addLayer(manifest, "gold", len(rows), start, err, "")
			return err
		}
	}

	r.addLayer(manifest, "gold", len(rows), start, nil, r.parquet.Path(store.GoldMasterFile))
	return nil
}

func (r *Runner) addLayer(manifest *contracts.RunManifest, layer string, rows int, start time.Time, err error, outputPath string) {
	status := contracts.LayerStatus{
		Layer:      layer,
		Rows:       rows,
		StartedAt:  start.UTC(),
		Duration:   time.Since(start),
		Succeeded:  err == nil,
		OutputPath: outputPath,
	}
	if err != nil {
		status.Error = err.Error()
	}
	manifest.Layers = append(manifest.Layers, status)
}

func (r *Runner) fail(ctx context.Context, manifest *contracts.RunManifest, err error) (*contracts.RunManifest, error) {
	manifest.Fail(time.Now().UTC(), err)
	r.persistManifest(ctx, manifest)
	r.logger.WithError(err).WithField("run_id", manifest.RunID).Error("pipeline run failed")
	return manifest, err
}

func (r *Runner) persistManifest(ctx context.Context, manifest *contracts.RunManifest) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, redis.RunKey(manifest.RunID), manifest, redis.TTLRun); err != nil {
		r.logger.WithError(err).Warn("failed to cache run manifest")
	}
	if err := r.cache.Set(ctx, redis.LatestRunKey(), manifest, redis.TTLRun); err != nil {
		r.logger.WithError(err).Warn("failed to cache latest run pointer")
	}
}

func (r *Runner) cacheReport(ctx context.Context, runID string, report contracts.QualityReport) {
	if !report.Passed {
		r.logger.WithFields(map[string]interface{}{
			"layer":  report.Layer,
			"issues": report.Issues,
		}).Warn("quality issues detected")
	}
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, redis.QualityKey(runID, report.Layer), report, redis.TTLReport); err != nil {
		r.logger.WithError(err).Warn("failed to cache quality report")
	}
}
