package silver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

func month(cid string, m contracts.Month, elecPeak float64, price *float64) contracts.CustomerMonth {
	return contracts.CustomerMonth{
		CustomerID:  cid,
		Month:       m,
		ElecKWh:     elecPeak,
		ElecKWhPeak: elecPeak,
		PriceTier1:  price,
	}
}

func TestImputeLevel1CustomerFill(t *testing.T) {
	im := NewImputer(logger.Nop())

	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, contracts.F64(0.15)),
		month("C1", "2024-02", 100, nil), // forward-filled from January
		month("C1", "2024-03", 100, contracts.F64(0.16)),
	}

	out := im.Impute(rows, nil)
	require.Len(t, out, 3)
	assert.Equal(t, 0.15, *out[1].PriceTier1)
	// Existing values untouched.
	assert.Equal(t, 0.15, *out[0].PriceTier1)
	assert.Equal(t, 0.16, *out[2].PriceTier1)
}

func TestImputeLevel1BackFill(t *testing.T) {
	im := NewImputer(logger.Nop())

	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, nil), // back-filled from February
		month("C1", "2024-02", 100, contracts.F64(0.20)),
	}

	out := im.Impute(rows, nil)
	assert.Equal(t, 0.20, *out[0].PriceTier1)
}

func TestImputeLevel2SegmentMonthMedian(t *testing.T) {
	im := NewImputer(logger.Nop())

	// C3 has no price anywhere, so level 1 cannot help; its segment peers
	// in the same month have 0.10 and 0.20 → median 0.15.
	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, contracts.F64(0.10)),
		month("C2", "2024-01", 100, contracts.F64(0.20)),
		month("C3", "2024-01", 100, nil),
		// Different segment, same month: must not contaminate the median.
		month("C4", "2024-01", 100, contracts.F64(9.99)),
	}
	segments := map[string]string{"C1": "Residential", "C2": "Residential", "C3": "Residential", "C4": "SME"}

	out := im.Impute(rows, segments)
	assert.InDelta(t, 0.15, *out[2].PriceTier1, 1e-9)
}

func TestImputeLevel3NationalMonthMedian(t *testing.T) {
	im := NewImputer(logger.Nop())

	// C3 is the only member of its segment, so level 2 has no median for
	// it; the national month median over all imputable rows applies.
	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, contracts.F64(0.10)),
		month("C2", "2024-01", 100, contracts.F64(0.30)),
		month("C3", "2024-01", 100, nil),
	}
	segments := map[string]string{"C1": "Residential", "C2": "Residential", "C3": "Corporate"}

	out := im.Impute(rows, segments)
	assert.InDelta(t, 0.20, *out[2].PriceTier1, 1e-9)
}

func TestImputeZeroPriceTreatedAsMissing(t *testing.T) {
	im := NewImputer(logger.Nop())

	// A price of exactly 0 is a data error, not a free month.
	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, contracts.F64(0.15)),
		month("C1", "2024-02", 100, contracts.F64(0)),
	}

	out := im.Impute(rows, nil)
	assert.Equal(t, 0.15, *out[1].PriceTier1)
}

func TestImputeZeroOnIdleMonthNeverSeedsFill(t *testing.T) {
	im := NewImputer(logger.Nop())

	// The zero kept on C1's idle January is still a data error: it must
	// not forward-fill into February, which the month's median repairs
	// instead.
	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 0, contracts.F64(0)), // zero consumption: zero price kept as-is
		month("C1", "2024-02", 100, nil),
		month("C2", "2024-02", 100, contracts.F64(0.20)),
		month("C3", "2024-02", 100, contracts.F64(0.20)),
	}
	segments := map[string]string{"C1": "Residential", "C2": "Residential", "C3": "Residential"}

	out := im.Impute(rows, segments)
	require.NotNil(t, out[0].PriceTier1)
	assert.Equal(t, 0.0, *out[0].PriceTier1)
	require.NotNil(t, out[1].PriceTier1)
	assert.Equal(t, 0.20, *out[1].PriceTier1)
}

func TestImputeZeroConsumptionNeverAltered(t *testing.T) {
	im := NewImputer(logger.Nop())

	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, contracts.F64(0.15)),
		month("C1", "2024-02", 0, nil),               // zero consumption: stays null
		month("C1", "2024-03", 0, contracts.F64(0)),  // zero consumption: zero price kept as-is
	}

	out := im.Impute(rows, nil)
	assert.Nil(t, out[1].PriceTier1)
	require.NotNil(t, out[2].PriceTier1)
	assert.Equal(t, 0.0, *out[2].PriceTier1)
}

func TestImputePositiveConsumptionNeverLeftNull(t *testing.T) {
	im := NewImputer(logger.Nop())

	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, contracts.F64(0.12)),
		month("C2", "2024-01", 50, nil),
		month("C2", "2024-02", 50, nil),
		month("C3", "2024-02", 80, contracts.F64(0.18)),
	}
	segments := map[string]string{"C1": "Residential", "C2": "SME", "C3": "Corporate"}

	out := im.Impute(rows, segments)
	for _, row := range out {
		if row.ElecKWhPeak > 0 {
			assert.NotNilf(t, row.PriceTier1, "customer %s month %s", row.CustomerID, row.Month)
		}
	}
	// No row dropped.
	assert.Len(t, out, len(rows))
}

func TestImputeAllSixColumns(t *testing.T) {
	im := NewImputer(logger.Nop())

	full := contracts.CustomerMonth{
		CustomerID:          "C1",
		Month:               "2024-01",
		ElecKWh:             300,
		ElecKWhPeak:         100,
		ElecKWhStandard:     100,
		ElecKWhOffPeak:      100,
		GasM3:               20,
		PriceTier1:          contracts.F64(0.18),
		PriceTier2:          contracts.F64(0.15),
		PriceTier3:          contracts.F64(0.10),
		GasPrice:            contracts.F64(0.06),
		ElecFixedFee:        contracts.F64(12),
		GasFixedRevenueYear: contracts.F64(60),
	}
	empty := full.Clone()
	empty.Month = "2024-02"
	empty.PriceTier1 = nil
	empty.PriceTier2 = nil
	empty.PriceTier3 = nil
	empty.GasPrice = nil
	empty.ElecFixedFee = nil
	empty.GasFixedRevenueYear = nil

	out := im.Impute([]contracts.CustomerMonth{full, empty}, nil)
	feb := out[1]
	assert.Equal(t, 0.18, *feb.PriceTier1)
	assert.Equal(t, 0.15, *feb.PriceTier2)
	assert.Equal(t, 0.10, *feb.PriceTier3)
	assert.Equal(t, 0.06, *feb.GasPrice)
	assert.Equal(t, 12.0, *feb.ElecFixedFee)
	assert.Equal(t, 60.0, *feb.GasFixedRevenueYear)
}

func TestImputeDoesNotMutateInput(t *testing.T) {
	im := NewImputer(logger.Nop())

	rows := []contracts.CustomerMonth{
		month("C1", "2024-01", 100, contracts.F64(0.15)),
		month("C1", "2024-02", 100, nil),
	}

	_ = im.Impute(rows, nil)
	assert.Nil(t, rows[1].PriceTier1)
}

func TestFfillBfill(t *testing.T) {
	v := func(f float64) *float64 { return &f }

	got := ffillBfill([]*float64{nil, v(1), nil, nil, v(2), nil})
	want := []float64{1, 1, 1, 1, 2, 2}
	require.Len(t, got, len(want))
	for i := range want {
		require.NotNil(t, got[i])
		assert.Equal(t, want[i], *got[i])
	}

	allNil := ffillBfill([]*float64{nil, nil})
	assert.Nil(t, allNil[0])
	assert.Nil(t, allNil[1])
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
}
