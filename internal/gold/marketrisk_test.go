package gold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

func TestMarketRiskPriceTrend(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", PriceTier1: contracts.F64(0.15)},
		{CustomerID: "C1", Month: "2024-06", PriceTier1: contracts.F64(0.16)},
	}

	out := NewMarketRiskCalculator().Build(customers, months)
	f := out["C1"]
	require.NotNil(t, f)

	// 0.15 -> 0.16 is a +6.67% relative move.
	assert.InDelta(t, 0.0667, *f.ElecPriceTrend12M, 1e-3)
	assert.Equal(t, int64(1), *f.IsPriceIncrease)
}

func TestMarketRiskTrendZeroWhenFirstZeroOrAbsent(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "zero"}, {CustomerID: "absent"}}
	months := []contracts.CustomerMonth{
		{CustomerID: "zero", Month: "2024-01", GasPrice: contracts.F64(0)},
		{CustomerID: "zero", Month: "2024-02", GasPrice: contracts.F64(0.05)},
		{CustomerID: "absent", Month: "2024-01"},
		{CustomerID: "absent", Month: "2024-02"},
	}

	out := NewMarketRiskCalculator().Build(customers, months)

	assert.Equal(t, 0.0, *out["zero"].GasPriceTrend12M)
	assert.Equal(t, 0.0, *out["absent"].ElecPriceTrend12M)
	assert.Equal(t, int64(0), *out["absent"].IsPriceIncrease)
}

func TestMarketRiskConsumptionVolatility(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", ElecKWh: 100},
		{CustomerID: "C1", Month: "2024-02", ElecKWh: 200},
		{CustomerID: "C1", Month: "2024-03", ElecKWh: 300},
	}

	out := NewMarketRiskCalculator().Build(customers, months)
	f := out["C1"]

	// sample std 100, mean 200
	assert.InDelta(t, 0.5, *f.ElecConsumptionVolatility, 1e-9)
	// all-zero gas: zero mean maps to zero, not NaN
	assert.Equal(t, 0.0, *f.GasConsumptionVolatility)
	assert.False(t, math.IsNaN(*f.GasConsumptionVolatility))
	assert.Equal(t, int64(3), *f.ActiveMonths)
}

func TestMarketRiskActiveMonthsCountsNonZeroOnly(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", ElecKWh: 100},
		{CustomerID: "C1", Month: "2024-02"},
		{CustomerID: "C1", Month: "2024-03", GasM3: 5},
	}

	out := NewMarketRiskCalculator().Build(customers, months)
	assert.Equal(t, int64(2), *out["C1"].ActiveMonths)
}

func TestMarketRiskMarginStability(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		marginRow("C1", "2024-01", 0, 0, 10, 0, 0),
		marginRow("C1", "2024-02", 0, 0, -5, 0, 0),
		marginRow("C1", "2024-03", 0, 0, 15, 0, 0),
	}

	out := NewMarketRiskCalculator().Build(customers, months)
	f := out["C1"]

	assert.Equal(t, -5.0, *f.MarginMin)
	assert.Equal(t, int64(1), *f.NegativeMarginMonths)
	require.NotNil(t, f.MarginVolatility)
	assert.Greater(t, *f.MarginVolatility, 0.0)
}

func TestMarketRiskMarginTrendRecentVsPrior(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	var months []contracts.CustomerMonth
	// prior window 10,10,10 then recent window 20,20,20
	vals := []float64{10, 10, 10, 20, 20, 20}
	for i, v := range vals {
		m := contracts.Month("2024-0" + string(rune('1'+i)))
		months = append(months, marginRow("C1", m, 0, 0, v, 0, 0))
	}

	out := NewMarketRiskCalculator().Build(customers, months)
	assert.InDelta(t, 10.0, *out["C1"].MarginTrend3M, 1e-9)
}

func TestMarketRiskMarginTrendFallsBackToRecentMean(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		marginRow("C1", "2024-01", 0, 0, 12, 0, 0),
		marginRow("C1", "2024-02", 0, 0, 18, 0, 0),
	}

	out := NewMarketRiskCalculator().Build(customers, months)
	assert.InDelta(t, 15.0, *out["C1"].MarginTrend3M, 1e-9)
}

func TestMarketRiskPriceVsCostSpread(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", PriceTier1: contracts.F64(0.15), ElecVarCost: contracts.F64(0.04)},
		{CustomerID: "C1", Month: "2024-02", PriceTier1: contracts.F64(0.17), ElecVarCost: contracts.F64(0.06)},
	}

	out := NewMarketRiskCalculator().Build(customers, months)
	f := out["C1"]

	// latest price 0.17 minus mean cost 0.05
	assert.InDelta(t, 0.12, *f.PriceVsCostSpread, 1e-9)
	assert.InDelta(t, 0.5, *f.ProvinceCostTrend, 1e-9)
}

func TestMarketRiskNoMonthsStaysNil(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}

	out := NewMarketRiskCalculator().Build(customers, nil)
	f := out["C1"]

	assert.Nil(t, f.ElecConsumptionVolatility)
	assert.Nil(t, f.ElecPriceTrend12M)
	assert.Nil(t, f.MarginTrend3M)
}
