package silver

import (
	"sort"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// pricePair binds a price column to the consumption column that decides
// whether the price is imputable: a customer with zero consumption for a
// fuel/tier in a month has no meaningful price to impute.
type pricePair struct {
	name string
	get  func(*contracts.CustomerMonth) *float64
	set  func(*contracts.CustomerMonth, *float64)
	cons func(*contracts.CustomerMonth) float64
}

var pricePairs = []pricePair{
	{
		name: "price_tier1",
		get:  func(cm *contracts.CustomerMonth) *float64 { return cm.PriceTier1 },
		set:  func(cm *contracts.CustomerMonth, v *float64) { cm.PriceTier1 = v },
		cons: func(cm *contracts.CustomerMonth) float64 { return cm.ElecKWhPeak },
	},
	{
		name: "price_tier2",
		get:  func(cm *contracts.CustomerMonth) *float64 { return cm.PriceTier2 },
		set:  func(cm *contracts.CustomerMonth, v *float64) { cm.PriceTier2 = v },
		cons: func(cm *contracts.CustomerMonth) float64 { return cm.ElecKWhStandard },
	},
	{
		name: "price_tier3",
		get:  func(cm *contracts.CustomerMonth) *float64 { return cm.PriceTier3 },
		set:  func(cm *contracts.CustomerMonth, v *float64) { cm.PriceTier3 = v },
		cons: func(cm *contracts.CustomerMonth) float64 { return cm.ElecKWhOffPeak },
	},
	{
		name: "gas_price",
		get:  func(cm *contracts.CustomerMonth) *float64 { return cm.GasPrice },
		set:  func(cm *contracts.CustomerMonth, v *float64) { cm.GasPrice = v },
		cons: func(cm *contracts.CustomerMonth) float64 { return cm.GasM3 },
	},
	{
		name: "elec_fixed_fee",
		get:  func(cm *contracts.CustomerMonth) *float64 { return cm.ElecFixedFee },
		set:  func(cm *contracts.CustomerMonth, v *float64) { cm.ElecFixedFee = v },
		cons: func(cm *contracts.CustomerMonth) float64 { return cm.ElecKWh },
	},
	{
		name: "gas_fixed_revenue",
		get:  func(cm *contracts.CustomerMonth) *float64 { return cm.GasFixedRevenueYear },
		set:  func(cm *contracts.CustomerMonth, v *float64) { cm.GasFixedRevenueYear = v },
		cons: func(cm *contracts.CustomerMonth) float64 { return cm.GasM3 },
	},
}

// Imputer fills missing prices through a 3-level fallback hierarchy:
//
//  1. customer-level forward-fill then back-fill over the time-ordered series
//  2. segment × month median of the imputable set
//  3. national month median
//
// Each level only touches rows still null after the prior level, and only
// rows whose corresponding consumption is positive. A literal zero price is
// a data error and becomes null before imputation. Rows with zero
// consumption are never altered; no row is ever dropped.
type Imputer struct {
	logger *logger.Logger
}

// NewImputer creates an Imputer.
func NewImputer(log *logger.Logger) *Imputer {
	return &Imputer{logger: log}
}

// Impute returns a copy of rows with prices filled. segmentByCustomer maps
// customer id to segment label; customers without a known segment share one
// fallback group.
func (im *Imputer) Impute(rows []contracts.CustomerMonth, segmentByCustomer map[string]string) []contracts.CustomerMonth {
	out := make([]contracts.CustomerMonth, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}

	// Row indices per customer, chronological.
	byCustomer := make(map[string][]int)
	for i := range out {
		byCustomer[out[i].CustomerID] = append(byCustomer[out[i].CustomerID], i)
	}
	for _, idx := range byCustomer {
		sort.Slice(idx, func(a, b int) bool { return out[idx[a]].Month.Before(out[idx[b]].Month) })
	}

	for _, pair := range pricePairs {
		im.imputeColumn(out, pair, byCustomer, segmentByCustomer)
	}

	return out
}

func (im *Imputer) imputeColumn(
	rows []contracts.CustomerMonth,
	pair pricePair,
	byCustomer map[string][]int,
	segmentByCustomer map[string]string,
) {
	mask := make([]bool, len(rows))
	for i := range rows {
		mask[i] = pair.cons(&rows[i]) > 0
	}

	// Zero price means missing, but only where the row is imputable at all:
	// a zero-consumption row keeps whatever raw value it carried.
	for i := range rows {
		if !mask[i] {
			continue
		}
		if v := pair.get(&rows[i]); v != nil && *v == 0 {
			pair.set(&rows[i], nil)
		}
	}

	// Level 1: forward-fill then back-fill within each customer's series.
	// Fill values come from any of the customer's months; assignment only
	// lands on imputable rows still null. A zero retained on a
	// zero-consumption row is still a data error and never seeds the fill.
	filledCount := 0
	for _, idx := range byCustomer {
		series := make([]*float64, len(idx))
		for j, i := range idx {
			if v := pair.get(&rows[i]); v != nil && *v != 0 {
				series[j] = v
			}
		}
		filled := ffillBfill(series)
		for j, i := range idx {
			if mask[i] && pair.get(&rows[i]) == nil && filled[j] != nil {
				pair.set(&rows[i], contracts.F64(*filled[j]))
				filledCount++
			}
		}
	}

	// Level 2: segment × month median over the imputable set.
	type segMonth struct {
		segment string
		month   contracts.Month
	}
	segMedians := groupMedians(rows, mask, pair, func(cm *contracts.CustomerMonth) interface{} {
		return segMonth{segment: segmentByCustomer[cm.CustomerID], month: cm.Month}
	})
	for i := range rows {
		if mask[i] && pair.get(&rows[i]) == nil {
			k := segMonth{segment: segmentByCustomer[rows[i].CustomerID], month: rows[i].Month}
			if med, ok := segMedians[k]; ok {
				pair.set(&rows[i], contracts.F64(med))
				filledCount++
			}
		}
	}

	// Level 3: national month median, regardless of segment.
	natMedians := groupMedians(rows, mask, pair, func(cm *contracts.CustomerMonth) interface{} {
		return cm.Month
	})
	remaining := 0
	for i := range rows {
		if mask[i] && pair.get(&rows[i]) == nil {
			if med, ok := natMedians[rows[i].Month]; ok {
				pair.set(&rows[i], contracts.F64(med))
				filledCount++
			} else {
				remaining++
			}
		}
	}

	if filledCount > 0 || remaining > 0 {
		im.logger.WithFields(map[string]interface{}{
			"column":     pair.name,
			"filled":     filledCount,
			"still_null": remaining,
		}).Debug("Imputed price column")
	}
}

// ffillBfill propagates the last seen value forward, then the next seen
// value backward over the remaining gaps.
func ffillBfill(series []*float64) []*float64 {
	out := make([]*float64, len(series))
	var last *float64
	for i, v := range series {
		if v != nil {
			last = v
		}
		out[i] = last
	}
	var next *float64
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] != nil {
			next = series[i]
		}
		if out[i] == nil {
			out[i] = next
		}
	}
	return out
}

func groupMedians(
	rows []contracts.CustomerMonth,
	mask []bool,
	pair pricePair,
	keyOf func(*contracts.CustomerMonth) interface{},
) map[interface{}]float64 {
	groups := make(map[interface{}][]float64)
	for i := range rows {
		if !mask[i] {
			continue
		}
		if v := pair.get(&rows[i]); v != nil {
			k := keyOf(&rows[i])
			groups[k] = append(groups[k], *v)
		}
	}

	medians := make(map[interface{}]float64, len(groups))
	for k, vals := range groups {
		medians[k] = median(vals)
	}
	return medians
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
