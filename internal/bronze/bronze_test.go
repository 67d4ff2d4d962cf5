package bronze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildCustomerMergesAllTables(t *testing.T) {
	b := NewBuilder(logger.Nop())

	raw := &contracts.RawTables{
		Labels: []contracts.LabelRecord{
			{CustomerID: "C1", Churn: contracts.I64(1)},
			{CustomerID: "C2", Churn: contracts.I64(0)},
			{CustomerID: "C3"}, // unlabeled
		},
		Attributes: []contracts.AttributeRecord{
			{CustomerID: "C1", IsIndustrial: contracts.Bool(false), ContractedPowerKW: contracts.F64(4.6)},
			{CustomerID: "C2", IsIndustrial: contracts.Bool(true), ContractedPowerKW: contracts.F64(10)},
		},
		Contracts: []contracts.ContractRecord{
			{CustomerID: "C1", SalesChannel: contracts.Str("web_propia"), FirstActivationDate: date(2022, 1, 1)},
		},
		Interactions: []contracts.InteractionRecord{
			{CustomerID: "C2", Date: date(2024, 11, 5), Summary: contracts.Str("complaint about billing")},
		},
	}

	customers, err := b.BuildCustomer(raw)
	require.NoError(t, err)
	require.Len(t, customers, 3)

	byID := map[string]contracts.Customer{}
	for _, c := range customers {
		byID[c.CustomerID] = c
	}

	c1 := byID["C1"]
	assert.Equal(t, int64(1), *c1.Churn)
	assert.False(t, *c1.IsIndustrial)
	assert.Equal(t, "web_propia", *c1.SalesChannel)
	assert.False(t, c1.HasInteraction)

	c2 := byID["C2"]
	assert.True(t, c2.HasInteraction)
	assert.Equal(t, "complaint about billing", *c2.InteractionSummary)

	// C3: label only, everything else null.
	c3 := byID["C3"]
	assert.Nil(t, c3.Churn)
	assert.Nil(t, c3.IsIndustrial)
	assert.Nil(t, c3.SalesChannel)
}

func TestBuildCustomerDuplicateLabelsFail(t *testing.T) {
	b := NewBuilder(logger.Nop())

	raw := &contracts.RawTables{
		Labels: []contracts.LabelRecord{
			{CustomerID: "C1"},
			{CustomerID: "C1"},
		},
	}

	_, err := b.BuildCustomer(raw)
	require.ErrorIs(t, err, contracts.ErrGrainViolation)
}

func TestBuildCustomerSideTablesDedupeKeepFirst(t *testing.T) {
	b := NewBuilder(logger.Nop())

	raw := &contracts.RawTables{
		Labels: []contracts.LabelRecord{{CustomerID: "C1"}},
		Attributes: []contracts.AttributeRecord{
			{CustomerID: "C1", ContractedPowerKW: contracts.F64(3.3)},
			{CustomerID: "C1", ContractedPowerKW: contracts.F64(9.9)}, // ignored
		},
	}

	customers, err := b.BuildCustomer(raw)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, 3.3, *customers[0].ContractedPowerKW)
}

func TestBuildCustomerMonthJoinsPricesAndCosts(t *testing.T) {
	b := NewBuilder(logger.Nop())

	monthly := []contracts.CustomerMonth{
		{CustomerID: "C1", Month: "2024-01", ElecKWh: 100, GasM3: 10},
		{CustomerID: "C1", Month: "2024-02", ElecKWh: 90},
		{CustomerID: "", Month: "2024-01", ElecKWh: 5}, // dropped
	}
	prices := []contracts.PriceRecord{
		{
			CustomerID:  "C1",
			PricingDate: date(2024, 1, 15), // normalizes to 2024-01
			PriceTier1:  contracts.F64(0.15),
			GasPrice:    contracts.F64(0.06),
		},
	}
	costs := []contracts.ProvinceCostRecord{
		{ProvinceCode: "28", Month: "2024-01", ElecVarCost: contracts.F64(0.04)},
	}
	lookup := []contracts.ProvinceLookupRecord{
		{CustomerID: "C1", ProvinceCode: "28"},
	}

	rows := b.BuildCustomerMonth(monthly, prices, costs, lookup)
	require.Len(t, rows, 2)

	jan := rows[0]
	require.Equal(t, contracts.Month("2024-01"), jan.Month)
	assert.Equal(t, 0.15, *jan.PriceTier1)
	assert.Equal(t, 0.06, *jan.GasPrice)
	assert.Equal(t, "28", *jan.ProvinceCode)
	assert.Equal(t, 0.04, *jan.ElecVarCost)

	// February has no price history or cost row: nils, row kept.
	feb := rows[1]
	assert.Nil(t, feb.PriceTier1)
	assert.Nil(t, feb.ElecVarCost)
	assert.Equal(t, "28", *feb.ProvinceCode)
}

func TestBuildCustomerMonthLeavesInputUntouched(t *testing.T) {
	b := NewBuilder(logger.Nop())

	monthly := []contracts.CustomerMonth{{CustomerID: "C1", Month: "2024-01"}}
	prices := []contracts.PriceRecord{
		{CustomerID: "C1", PricingDate: date(2024, 1, 1), PriceTier1: contracts.F64(0.2)},
	}

	_ = b.BuildCustomerMonth(monthly, prices, nil, nil)
	assert.Nil(t, monthly[0].PriceTier1, "bronze input must not be mutated")
}

func TestBuildCustomerMonthPriceWithoutDateIgnored(t *testing.T) {
	b := NewBuilder(logger.Nop())

	monthly := []contracts.CustomerMonth{{CustomerID: "C1", Month: "2024-01"}}
	prices := []contracts.PriceRecord{
		{CustomerID: "C1", PriceTier1: contracts.F64(0.2)}, // no pricing date
	}

	rows := b.BuildCustomerMonth(monthly, prices, nil, nil)
	assert.Nil(t, rows[0].PriceTier1)
}
