package silver

import (
	"github.com/spanishgas/churnpipe/internal/contracts"
)

// ComputeMargins returns a copy of rows with the margin breakdown filled
// in. Pure per-row arithmetic; every missing numeric input contributes
// zero. That policy is deliberate: an unknown price or cost component
// silently zeroes that revenue/cost leg rather than poisoning the row.
func ComputeMargins(rows []contracts.CustomerMonth) []contracts.CustomerMonth {
	out := make([]contracts.CustomerMonth, len(rows))
	for i, r := range rows {
		cm := r.Clone()
		cm.Margins = marginsFor(&cm)
		out[i] = cm
	}
	return out
}

func marginsFor(cm *contracts.CustomerMonth) *contracts.MarginBreakdown {
	m := &contracts.MarginBreakdown{}

	// Electricity P&L
	m.ElecRevenueVariable = cm.ElecKWhPeak*contracts.F64OrZero(cm.PriceTier1) +
		cm.ElecKWhStandard*contracts.F64OrZero(cm.PriceTier2) +
		cm.ElecKWhOffPeak*contracts.F64OrZero(cm.PriceTier3)
	m.ElecRevenueFixed = contracts.F64OrZero(cm.ElecFixedFee)
	m.ElecCostVariable = cm.ElecKWh * (contracts.F64OrZero(cm.ElecVarCost) + contracts.F64OrZero(cm.ElecNetworkCost))
	m.ElecCostFixed = contracts.F64OrZero(cm.ElecFixedCost)
	m.ElecMargin = m.ElecRevenueVariable + m.ElecRevenueFixed - m.ElecCostVariable - m.ElecCostFixed

	// Gas P&L; annual fixed components spread over 12 months
	m.GasRevenueVariable = cm.GasM3 * contracts.F64OrZero(cm.GasPrice)
	m.GasRevenueFixed = contracts.F64OrZero(cm.GasFixedRevenueYear) / 12
	m.GasCostVariable = cm.GasM3 * contracts.F64OrZero(cm.GasVarCost)
	m.GasCostFixed = contracts.F64OrZero(cm.GasFixedCostYear) / 12
	m.GasMargin = m.GasRevenueVariable + m.GasRevenueFixed - m.GasCostVariable - m.GasCostFixed

	// Totals
	m.TotalRevenue = m.ElecRevenueVariable + m.ElecRevenueFixed + m.GasRevenueVariable + m.GasRevenueFixed
	m.TotalCost = m.ElecCostVariable + m.ElecCostFixed + m.GasCostVariable + m.GasCostFixed
	m.TotalMargin = m.TotalRevenue - m.TotalCost

	return m
}
