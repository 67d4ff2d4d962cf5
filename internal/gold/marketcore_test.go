package gold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

func marginRow(id string, month contracts.Month, elec, gas, margin, revenue, gasRev float64) contracts.CustomerMonth {
	return contracts.CustomerMonth{
		CustomerID: id,
		Month:      month,
		ElecKWh:    elec,
		GasM3:      gas,
		Margins: &contracts.MarginBreakdown{
			TotalMargin:        margin,
			TotalRevenue:       revenue,
			GasRevenueVariable: gasRev,
		},
	}
}

func TestMarketCoreVolumesAndMargins(t *testing.T) {
	customers := []contracts.Customer{{
		CustomerID:   "C1",
		Segment:      contracts.Str(contracts.SegmentResidential),
		SalesChannel: contracts.Str("Own Website"),
	}}
	months := []contracts.CustomerMonth{
		marginRow("C1", "2024-01", 100, 10, 20, 50, 5),
		marginRow("C1", "2024-02", 200, 20, 30, 70, 7),
	}

	out := NewMarketCoreCalculator().Build(customers, months)
	f := out["C1"]
	require.NotNil(t, f)

	assert.Equal(t, 300.0, *f.TotalElecKWh)
	assert.Equal(t, 150.0, *f.AvgMonthlyElecKWh)
	assert.Equal(t, 30.0, *f.TotalGasM3)
	assert.Equal(t, 15.0, *f.AvgMonthlyGasM3)
	assert.Equal(t, 50.0, *f.TotalMargin)
	assert.Equal(t, 25.0, *f.AvgMonthlyMargin)
	assert.InDelta(t, 12.0/120.0, *f.GasShareOfRevenue, 1e-9)

	assert.Equal(t, int64(1), *f.IsDigitalChannel)
	assert.Equal(t, "Residential_DualFuel", *f.PortfolioType)
}

func TestMarketCoreNoMonthsStaysNil(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}

	out := NewMarketCoreCalculator().Build(customers, nil)
	f := out["C1"]
	require.NotNil(t, f)

	assert.Nil(t, f.TotalElecKWh)
	assert.Nil(t, f.AvgMonthlyMargin)
	assert.Nil(t, f.PortfolioType)
	assert.Nil(t, f.IsDigitalChannel)
}

func TestMarketCoreWithoutMarginsSkipsMarginFeatures(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1", Segment: contracts.Str(contracts.SegmentSME)}}
	months := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", ElecKWh: 100},
	}

	out := NewMarketCoreCalculator().Build(customers, months)
	f := out["C1"]

	assert.Equal(t, 100.0, *f.TotalElecKWh)
	assert.Nil(t, f.TotalMargin)
	assert.Nil(t, f.GasShareOfRevenue)
	assert.Equal(t, "SME_SingleFuel", *f.PortfolioType)
}

func TestMarketCoreZeroRevenueShareIsZero(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		marginRow("C1", "2024-01", 100, 0, 0, 0, 0),
	}

	out := NewMarketCoreCalculator().Build(customers, months)
	assert.Equal(t, 0.0, *out["C1"].GasShareOfRevenue)
}

func TestMarketCorePriceUpdateCount(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", PriceTier1: contracts.F64(0.15)},
		{CustomerID: "C1", Month: "2024-02", PriceTier1: contracts.F64(0.15)},
		{CustomerID: "C1", Month: "2024-03", PriceTier1: contracts.F64(0.16)},
		{CustomerID: "C1", Month: "2024-04", PriceTier1: nil},
		{CustomerID: "C1", Month: "2024-05", PriceTier1: contracts.F64(0.18)},
		{CustomerID: "C1", Month: "2024-06", PriceTier1: contracts.F64(0.1805)}, // below epsilon
	}

	out := NewMarketCoreCalculator().Build(customers, months)
	// 0.15->0.16 counts; the pair straddling the nil month does not.
	assert.Equal(t, int64(1), *out["C1"].PriceUpdateCount)
}

func TestMarketCoreProvinceCostAverages(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}}
	months := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", ElecVarCost: contracts.F64(0.04), GasVarCost: contracts.F64(0.02)},
		{CustomerID: "C1", Month: "2024-02", ElecVarCost: contracts.F64(0.06)},
		{CustomerID: "C1", Month: "2024-03"},
	}

	out := NewMarketCoreCalculator().Build(customers, months)
	f := out["C1"]

	assert.InDelta(t, 0.05, *f.ProvinceAvgElecCost, 1e-9)
	assert.InDelta(t, 0.02, *f.ProvinceAvgGasCost, 1e-9)
}
