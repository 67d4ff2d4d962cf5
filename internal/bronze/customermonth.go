package bronze

import (
	"github.com/spanishgas/churnpipe/internal/contracts"
)

type priceKey struct {
	customer string
	month    contracts.Month
}

type costKey struct {
	province string
	month    contracts.Month
}

// BuildCustomerMonth enriches the aggregator's monthly rows with price
// history and province-level costs, producing the customer-month bronze
// table. Prices join on (customer, month) after normalizing the pricing
// date; costs join on (province, month) via the customer→province lookup.
// Rows with an empty customer id are dropped. Left joins only: a missing
// price or cost leaves nil cells for the imputer and margin calculator.
func (b *Builder) BuildCustomerMonth(
	monthly []contracts.CustomerMonth,
	prices []contracts.PriceRecord,
	costs []contracts.ProvinceCostRecord,
	lookup []contracts.ProvinceLookupRecord,
) []contracts.CustomerMonth {
	priceIdx := make(map[priceKey]contracts.PriceRecord, len(prices))
	for _, p := range prices {
		if p.PricingDate == nil {
			continue
		}
		k := priceKey{customer: p.CustomerID, month: contracts.MonthOf(*p.PricingDate)}
		if _, ok := priceIdx[k]; !ok {
			priceIdx[k] = p
		}
	}

	provinceByCustomer := make(map[string]string, len(lookup))
	for _, l := range lookup {
		if _, ok := provinceByCustomer[l.CustomerID]; !ok {
			provinceByCustomer[l.CustomerID] = l.ProvinceCode
		}
	}

	costIdx := make(map[costKey]contracts.ProvinceCostRecord, len(costs))
	for _, c := range costs {
		k := costKey{province: c.ProvinceCode, month: c.Month}
		if _, ok := costIdx[k]; !ok {
			costIdx[k] = c
		}
	}

	out := make([]contracts.CustomerMonth, 0, len(monthly))
	dropped := 0
	for _, row := range monthly {
		if row.CustomerID == "" {
			dropped++
			continue
		}
		cm := row.Clone()

		if p, ok := priceIdx[priceKey{customer: cm.CustomerID, month: cm.Month}]; ok {
			cm.PriceTier1 = p.PriceTier1
			cm.PriceTier2 = p.PriceTier2
			cm.PriceTier3 = p.PriceTier3
			cm.GasPrice = p.GasPrice
			cm.ElecFixedFee = p.ElecFixedFee
			cm.GasFixedRevenueYear = p.GasFixedRevenueYear
		}

		if prov, ok := provinceByCustomer[cm.CustomerID]; ok {
			cm.ProvinceCode = contracts.Str(prov)
			if c, ok := costIdx[costKey{province: prov, month: cm.Month}]; ok {
				cm.ElecVarCost = c.ElecVarCost
				cm.ElecNetworkCost = c.ElecNetworkCost
				cm.ElecFixedCost = c.ElecFixedCost
				cm.GasVarCost = c.GasVarCost
				cm.GasFixedCostYear = c.GasFixedCostYear
			}
		}

		out = append(out, cm)
	}

	b.logger.WithFields(map[string]interface{}{
		"rows":         len(out),
		"dropped_rows": dropped,
		"price_keys":   len(priceIdx),
		"cost_keys":    len(costIdx),
	}).Info("Built bronze customer-month table")

	return out
}
