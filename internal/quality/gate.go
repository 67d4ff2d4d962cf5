package quality

import (
	"fmt"
	"math"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/internal/gold"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// Layer names a pipeline stage for threshold lookup and reporting.
type Layer string

const (
	LayerRaw    Layer = "raw"
	LayerBronze Layer = "bronze"
	LayerSilver Layer = "silver"
	LayerGold   Layer = "gold"
)

// Config holds the per-layer null-rate ceilings. Raw data is allowed to be
// mostly holes; by gold almost every cell should be filled.
type Config struct {
	MaxNullRateRaw    float64
	MaxNullRateBronze float64
	MaxNullRateSilver float64
	MaxNullRateGold   float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MaxNullRateRaw:    0.80,
		MaxNullRateBronze: 0.50,
		MaxNullRateSilver: 0.30,
		MaxNullRateGold:   0.10,
	}
}

func (c Config) maxNullRate(layer Layer) float64 {
	switch layer {
	case LayerRaw:
		return c.MaxNullRateRaw
	case LayerBronze:
		return c.MaxNullRateBronze
	case LayerSilver:
		return c.MaxNullRateSilver
	default:
		return c.MaxNullRateGold
	}
}

// Gate runs data-quality checks between layers. Findings are reported, not
// raised: a failed report marks the layer degraded but the run continues.
type Gate struct {
	config Config
	logger *logger.Logger
}

func NewGate(config Config, log *logger.Logger) *Gate {
	return &Gate{config: config, logger: log}
}

// columnNulls is one column's null tally over a table.
type columnNulls struct {
	name  string
	nulls int
}

// CheckCustomers validates a customer-grain table.
func (g *Gate) CheckCustomers(layer Layer, rows []contracts.Customer) contracts.QualityReport {
	cols := []columnNulls{
		{name: "churn"}, {name: "is_industrial"}, {name: "contracted_power_kw"},
		{name: "is_second_residence"}, {name: "province_code"}, {name: "sales_channel"},
		{name: "first_activation_date"}, {name: "next_renewal_date"},
		{name: "last_product_change_date"}, {name: "last_interaction_date"},
		{name: "interaction_summary"},
	}
	for i := range rows {
		r := &rows[i]
		for j, isNull := range []bool{
			r.Churn == nil, r.IsIndustrial == nil, r.ContractedPowerKW == nil,
			r.IsSecondResidence == nil, r.ProvinceCode == nil, r.SalesChannel == nil,
			r.FirstActivationDate == nil, r.NextRenewalDate == nil,
			r.LastProductChangeDate == nil, r.LastInteractionDate == nil,
			r.InteractionSummary == nil,
		} {
			if isNull {
				cols[j].nulls++
			}
		}
	}

	seen := make(map[string]struct{}, len(rows))
	dups := 0
	for i := range rows {
		if _, ok := seen[rows[i].CustomerID]; ok {
			dups++
			continue
		}
		seen[rows[i].CustomerID] = struct{}{}
	}

	return g.report(layer, len(rows), cols, dups)
}

// CheckCustomerMonths validates a customer-month-grain table.
func (g *Gate) CheckCustomerMonths(layer Layer, rows []contracts.CustomerMonth) contracts.QualityReport {
	cols := []columnNulls{
		{name: "province_code"},
		{name: "price_tier_1"}, {name: "price_tier_2"}, {name: "price_tier_3"},
		{name: "gas_price"}, {name: "elec_fixed_fee"}, {name: "gas_fixed_revenue_year"},
		{name: "elec_var_cost"}, {name: "elec_network_cost"}, {name: "elec_fixed_cost"},
		{name: "gas_var_cost"}, {name: "gas_fixed_cost_year"},
		{name: "margins"},
	}
	for i := range rows {
		r := &rows[i]
		for j, isNull := range []bool{
			r.ProvinceCode == nil,
			r.PriceTier1 == nil, r.PriceTier2 == nil, r.PriceTier3 == nil,
			r.GasPrice == nil, r.ElecFixedFee == nil, r.GasFixedRevenueYear == nil,
			r.ElecVarCost == nil, r.ElecNetworkCost == nil, r.ElecFixedCost == nil,
			r.GasVarCost == nil, r.GasFixedCostYear == nil,
			r.Margins == nil,
		} {
			if isNull {
				cols[j].nulls++
			}
		}
	}

	type key struct {
		customer string
		month    contracts.Month
	}
	seen := make(map[key]struct{}, len(rows))
	dups := 0
	for i := range rows {
		k := key{rows[i].CustomerID, rows[i].Month}
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}

	return g.report(layer, len(rows), cols, dups)
}

// CheckGold validates the gold master against the feature-column registry.
func (g *Gate) CheckGold(rows []contracts.GoldRow) contracts.QualityReport {
	rates := gold.NullRates(rows)
	cols := make([]columnNulls, 0, len(rates))
	for _, name := range gold.FeatureColumns() {
		cols = append(cols, columnNulls{name: name, nulls: int(math.Round(rates[name] * float64(len(rows))))})
	}

	seen := make(map[string]struct{}, len(rows))
	dups := 0
	for i := range rows {
		if _, ok := seen[rows[i].CustomerID]; ok {
			dups++
			continue
		}
		seen[rows[i].CustomerID] = struct{}{}
	}

	return g.report(LayerGold, len(rows), cols, dups)
}

func (g *Gate) report(layer Layer, rowCount int, cols []columnNulls, dups int) contracts.QualityReport {
	report := contracts.QualityReport{
		Layer:         string(layer),
		RowCount:      rowCount,
		ColumnCount:   len(cols),
		NullRates:     make(map[string]float64, len(cols)),
		DuplicateKeys: dups,
		Passed:        true,
	}

	maxRate := g.config.maxNullRate(layer)
	for _, col := range cols {
		rate := 0.0
		if rowCount > 0 {
			rate = float64(col.nulls) / float64(rowCount)
		}
		report.NullRates[col.name] = rate
		if rate > maxRate {
			report.Issues = append(report.Issues,
				fmt.Sprintf("column %s null rate %.2f exceeds %s ceiling %.2f", col.name, rate, layer, maxRate))
			report.Passed = false
		}
	}

	if dups > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d duplicate keys", dups))
		report.Passed = false
	}
	if rowCount == 0 {
		report.Issues = append(report.Issues, "empty table")
		report.Passed = false
	}

	if !report.Passed {
		g.logger.WithFields(map[string]interface{}{
			"layer":  layer,
			"rows":   rowCount,
			"issues": len(report.Issues),
		}).Warn("quality check failed")
	}

	return report
}
