package gold

import (
	"math"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/internal/silver"
)

// Portfolio shape labels.
const (
	PortfolioDualFuel   = "DualFuel"
	PortfolioSingleFuel = "SingleFuel"
)

// priceUpdateEpsilon separates real tier-1 price changes from float noise.
const priceUpdateEpsilon = 0.001

// MarketCoreCalculator derives consumption volume, margin totals, portfolio
// shape and province cost context per customer. Customers with no
// customer-month rows keep every field nil.
type MarketCoreCalculator struct{}

func NewMarketCoreCalculator() *MarketCoreCalculator { return &MarketCoreCalculator{} }

func (c *MarketCoreCalculator) Build(customers []contracts.Customer, months []contracts.CustomerMonth) map[string]*contracts.MarketCoreFeatures {
	byCustomer := monthsByCustomer(months)
	hasMargins := anyMargins(months)

	out := make(map[string]*contracts.MarketCoreFeatures, len(customers))
	for i := range customers {
		cust := &customers[i]
		f := &contracts.MarketCoreFeatures{}
		out[cust.CustomerID] = f

		series := byCustomer[cust.CustomerID]
		if len(series) == 0 {
			continue
		}
		n := float64(len(series))

		var elec, gas float64
		for _, row := range series {
			elec += row.ElecKWh
			gas += row.GasM3
		}
		f.TotalElecKWh = contracts.F64(elec)
		f.AvgMonthlyElecKWh = contracts.F64(elec / n)
		f.TotalGasM3 = contracts.F64(gas)
		f.AvgMonthlyGasM3 = contracts.F64(gas / n)

		if hasMargins {
			var margin, revenue, gasRevenue float64
			for _, row := range series {
				if row.Margins == nil {
					continue
				}
				margin += row.Margins.TotalMargin
				revenue += row.Margins.TotalRevenue
				gasRevenue += row.Margins.GasRevenueVariable
			}
			f.TotalMargin = contracts.F64(margin)
			f.AvgMonthlyMargin = contracts.F64(margin / n)
			if revenue > 0 {
				f.GasShareOfRevenue = contracts.F64(gasRevenue / revenue)
			} else {
				f.GasShareOfRevenue = contracts.F64(0)
			}
		}

		channel := ""
		if cust.SalesChannel != nil {
			channel = *cust.SalesChannel
		}
		f.IsDigitalChannel = boolFlag(channel == silver.ChannelComparisonWebsite || channel == silver.ChannelOwnWebsite)

		if cust.Segment != nil {
			shape := PortfolioSingleFuel
			if gas > 0 {
				shape = PortfolioDualFuel
			}
			f.PortfolioType = contracts.Str(*cust.Segment + "_" + shape)
		}

		if costs := observed(series, func(cm *contracts.CustomerMonth) *float64 { return cm.ElecVarCost }); len(costs) > 0 {
			f.ProvinceAvgElecCost = contracts.F64(mean(costs))
		}
		if costs := observed(series, func(cm *contracts.CustomerMonth) *float64 { return cm.GasVarCost }); len(costs) > 0 {
			f.ProvinceAvgGasCost = contracts.F64(mean(costs))
		}

		f.PriceUpdateCount = contracts.I64(priceUpdates(series))
	}
	return out
}

// priceUpdates counts month-over-month tier-1 price moves larger than the
// noise epsilon. Pairs with a missing side do not count.
func priceUpdates(series []contracts.CustomerMonth) int64 {
	var count int64
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].PriceTier1, series[i].PriceTier1
		if prev == nil || cur == nil {
			continue
		}
		if math.Abs(*cur-*prev) > priceUpdateEpsilon {
			count++
		}
	}
	return count
}

func anyMargins(rows []contracts.CustomerMonth) bool {
	for i := range rows {
		if rows[i].Margins != nil {
			return true
		}
	}
	return false
}
