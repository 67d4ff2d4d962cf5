package contracts

// CustomerMonth is one row of the customer-month-grain table. Unique on
// (CustomerID, Month). Consumption totals are never negative and each
// tier split sums to its total within floating-point tolerance.
type CustomerMonth struct {
	CustomerID string
	Month      Month

	// Consumption totals
	ElecKWh float64
	GasM3   float64
	GasKWh  float64 // GasM3 × 11.0

	// Tier splits
	ElecKWhPeak     float64
	ElecKWhStandard float64
	ElecKWhOffPeak  float64
	GasM3Peak       float64
	GasM3Standard   float64
	GasM3OffPeak    float64
	GasKWhPeak      float64
	GasKWhStandard  float64
	GasKWhOffPeak   float64

	ProvinceCode *string

	// Per-unit prices (nullable until imputed; a consumption-zero month may
	// legitimately stay null forever)
	PriceTier1          *float64 // eur/kWh, peak
	PriceTier2          *float64 // eur/kWh, standard
	PriceTier3          *float64 // eur/kWh, off-peak
	GasPrice            *float64 // eur/m3
	ElecFixedFee        *float64 // eur/month
	GasFixedRevenueYear *float64 // eur/year

	// Province-level unit costs
	ElecVarCost      *float64 // eur/kWh
	ElecNetworkCost  *float64 // eur/kWh
	ElecFixedCost    *float64 // eur/month
	GasVarCost       *float64 // eur/m3
	GasFixedCostYear *float64 // eur/year

	// Computed by the silver margin calculator; nil on bronze rows.
	Margins *MarginBreakdown
}

// MarginBreakdown holds the revenue/cost/margin legs for one customer-month.
// Missing price or cost inputs contribute zero, never an error.
type MarginBreakdown struct {
	ElecRevenueVariable float64
	ElecRevenueFixed    float64
	ElecCostVariable    float64
	ElecCostFixed       float64
	ElecMargin          float64

	GasRevenueVariable float64
	GasRevenueFixed    float64
	GasCostVariable    float64
	GasCostFixed       float64
	GasMargin          float64

	TotalRevenue float64
	TotalCost    float64
	TotalMargin  float64
}

// TierConsumption returns the electricity kWh for a tier.
func (cm *CustomerMonth) TierConsumption(t Tier) float64 {
	switch t {
	case TierPeak:
		return cm.ElecKWhPeak
	case TierStandard:
		return cm.ElecKWhStandard
	case TierOffPeak:
		return cm.ElecKWhOffPeak
	}
	return 0
}

// Clone returns a shallow copy with its own MarginBreakdown.
func (cm CustomerMonth) Clone() CustomerMonth {
	out := cm
	if cm.Margins != nil {
		m := *cm.Margins
		out.Margins = &m
	}
	return out
}
