package gold

import (
	"github.com/spanishgas/churnpipe/internal/contracts"
)

// marginTrendWindow is the rolling window for the recent-vs-prior margin
// comparison.
const marginTrendWindow = 3

// MarketRiskCalculator derives volatility and trend signals: consumption
// stability, margin erosion, and 12-month price trajectories. Customers with
// no customer-month rows keep every field nil.
type MarketRiskCalculator struct{}

func NewMarketRiskCalculator() *MarketRiskCalculator { return &MarketRiskCalculator{} }

func (c *MarketRiskCalculator) Build(customers []contracts.Customer, months []contracts.CustomerMonth) map[string]*contracts.MarketRiskFeatures {
	byCustomer := monthsByCustomer(months)
	hasMargins := anyMargins(months)

	out := make(map[string]*contracts.MarketRiskFeatures, len(customers))
	for i := range customers {
		cust := &customers[i]
		f := &contracts.MarketRiskFeatures{}
		out[cust.CustomerID] = f

		series := byCustomer[cust.CustomerID]
		if len(series) == 0 {
			continue
		}

		elec := make([]float64, 0, len(series))
		gas := make([]float64, 0, len(series))
		var active int64
		for _, row := range series {
			elec = append(elec, row.ElecKWh)
			gas = append(gas, row.GasM3)
			if row.ElecKWh > 0 || row.GasM3 > 0 {
				active++
			}
		}
		f.ElecConsumptionVolatility = contracts.F64(volatility(elec))
		f.GasConsumptionVolatility = contracts.F64(volatility(gas))
		f.ActiveMonths = contracts.I64(active)

		if hasMargins {
			var margins []float64
			for _, row := range series {
				if row.Margins != nil {
					margins = append(margins, row.Margins.TotalMargin)
				}
			}
			if len(margins) > 0 {
				f.MarginVolatility = contracts.F64(stddev(margins))
				f.MarginMin = contracts.F64(minOf(margins))
				var negative int64
				for _, m := range margins {
					if m < 0 {
						negative++
					}
				}
				f.NegativeMarginMonths = contracts.I64(negative)
				f.MarginTrend3M = contracts.F64(marginTrend(margins))
			}
		}

		prices := observed(series, func(cm *contracts.CustomerMonth) *float64 { return cm.PriceTier1 })
		elecTrend := relTrend(prices)
		f.ElecPriceTrend12M = contracts.F64(elecTrend)
		f.ElecPriceVolatility = contracts.F64(stddev(prices))
		f.IsPriceIncrease = boolFlag(elecTrend > 0)

		gasPrices := observed(series, func(cm *contracts.CustomerMonth) *float64 { return cm.GasPrice })
		f.GasPriceTrend12M = contracts.F64(relTrend(gasPrices))

		costs := observed(series, func(cm *contracts.CustomerMonth) *float64 { return cm.ElecVarCost })
		f.ProvinceCostTrend = contracts.F64(relTrend(costs))

		if len(prices) > 0 && len(costs) > 0 {
			f.PriceVsCostSpread = contracts.F64(prices[len(prices)-1] - mean(costs))
		}
	}
	return out
}

// volatility is the coefficient of variation; a zero or negative mean maps
// to zero rather than a blown-up ratio.
func volatility(vals []float64) float64 {
	m := mean(vals)
	if m <= 0 {
		return 0
	}
	return stddev(vals) / m
}

// marginTrend compares the mean of the most recent window months against
// the mean of the window before it. With fewer than a full prior window the
// recent mean itself is the trend.
func marginTrend(margins []float64) float64 {
	n := len(margins)
	recentStart := n - marginTrendWindow
	if recentStart < 0 {
		recentStart = 0
	}
	recent := mean(margins[recentStart:])

	priorStart := recentStart - marginTrendWindow
	if priorStart < 0 {
		return recent
	}
	return recent - mean(margins[priorStart:recentStart])
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
