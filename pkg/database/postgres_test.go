package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/pkg/config"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

func TestNewPoolRejectsBadConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.URL = "not-a-connection-string"

	_, err := NewPool(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}

func TestNewPoolUnreachableHostFails(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = "1" // nothing listens here
	cfg.Database.Name = "churnpipe"
	cfg.Database.User = "churnpipe"
	cfg.Database.Password = "x"
	cfg.Database.MaxConns = 2
	cfg.Database.MinConns = 0
	cfg.Database.MaxConnLifetime = time.Minute
	cfg.Database.MaxConnIdleTime = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewPool(ctx, cfg, logger.Nop())
	require.Error(t, err)
}
