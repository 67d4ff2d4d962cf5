package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

func TestParquetGoldRoundTrip(t *testing.T) {
	s := NewParquetStore(t.TempDir(), logger.Nop())

	rows := []contracts.GoldRow{
		{
			CustomerID: "C1",
			LifecycleFeatures: contracts.LifecycleFeatures{
				TenureMonths:  contracts.F64(36),
				RenewalBucket: contracts.Str("0-3m"),
				IsDualFuel:    contracts.I64(1),
			},
			MarketCoreFeatures: contracts.MarketCoreFeatures{
				TotalElecKWh: contracts.F64(260),
			},
			Churn: contracts.I64(1),
		},
		{CustomerID: "C2"},
	}

	require.NoError(t, WriteRows(s, GoldMasterFile, rows))

	back, err := ReadRows[contracts.GoldRow](s, GoldMasterFile)
	require.NoError(t, err)
	require.Len(t, back, 2)

	assert.Equal(t, "C1", back[0].CustomerID)
	assert.Equal(t, 36.0, *back[0].TenureMonths)
	assert.Equal(t, "0-3m", *back[0].RenewalBucket)
	assert.Equal(t, int64(1), *back[0].Churn)

	// Nulls survive the trip as nulls.
	assert.Nil(t, back[1].TenureMonths)
	assert.Nil(t, back[1].Churn)
}

func TestParquetMissingFileFails(t *testing.T) {
	s := NewParquetStore(t.TempDir(), logger.Nop())

	_, err := ReadRows[contracts.GoldRow](s, GoldMasterFile)
	require.Error(t, err)
}
