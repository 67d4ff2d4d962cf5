package commands

import (
	"fmt"

	"github.com/spanishgas/churnpipe/pkg/config"
	"github.com/spanishgas/churnpipe/pkg/logger"
	"github.com/spanishgas/churnpipe/pkg/redis"
)

// loadConfig reads the environment configuration and applies the
// global CLI flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if parquetDir != "" {
		cfg.ParquetDir = parquetDir
	}
	if asOfDate != "" {
		cfg.AsOfDate = asOfDate
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// connectCache connects to redis when enabled. Returns a nil cache when
// redis is disabled; callers treat nil as "no run cache".
func connectCache(cfg *config.Config, log *logger.Logger) (*redis.Client, *redis.Cache, error) {
	client, err := redis.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	if !client.Enabled() {
		return client, nil, nil
	}
	log.Info("Connected to redis")
	return client, redis.NewCache(client, "churnpipe"), nil
}
