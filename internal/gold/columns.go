package gold

import (
	"github.com/spanishgas/churnpipe/internal/contracts"
)

// Structural fill values applied before handing the table to a model:
// recency sentinels for "it never happened", a default intent for customers
// who never called, and zeros for unraised binary flags.
const (
	RecencySentinelDays = 9999
	NoInteractionIntent = "no_interaction"
)

// fillKind tells the model handoff how to close a null in a column.
type fillKind int

const (
	fillNone fillKind = iota
	fillZeroFlag
	fillRecencySentinel
	fillNoInteraction
)

// column binds a gold feature name to its accessors. The table is the
// single authority on which features exist, whether each is present in a
// given run, and how the model handoff fills its nulls.
type column struct {
	name    string
	present func(*contracts.GoldRow) bool
	fill    fillKind
	setF64  func(*contracts.GoldRow, float64)
	setI64  func(*contracts.GoldRow, int64)
	setStr  func(*contracts.GoldRow, string)
}

var columns = []column{
	{name: "tenure_months", present: func(r *contracts.GoldRow) bool { return r.TenureMonths != nil }},
	{name: "tenure_bucket", present: func(r *contracts.GoldRow) bool { return r.TenureBucket != nil }},
	{name: "months_to_renewal", present: func(r *contracts.GoldRow) bool { return r.MonthsToRenewal != nil }},
	{name: "renewal_bucket", present: func(r *contracts.GoldRow) bool { return r.RenewalBucket != nil }},
	{name: "is_within_3m_of_renewal", present: func(r *contracts.GoldRow) bool { return r.IsWithin3MOfRenewal != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsWithin3MOfRenewal = &v }},
	{name: "is_expired_contract", present: func(r *contracts.GoldRow) bool { return r.IsExpiredContract != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsExpiredContract = &v }},
	{name: "segment", present: func(r *contracts.GoldRow) bool { return r.Segment != nil }},
	{name: "sales_channel", present: func(r *contracts.GoldRow) bool { return r.SalesChannel != nil }},
	{name: "is_second_residence", present: func(r *contracts.GoldRow) bool { return r.IsSecondResidence != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsSecondResidence = &v }},
	{name: "is_comparison_channel", present: func(r *contracts.GoldRow) bool { return r.IsComparisonChannel != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsComparisonChannel = &v }},
	{name: "is_own_website_channel", present: func(r *contracts.GoldRow) bool { return r.IsOwnWebsiteChannel != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsOwnWebsiteChannel = &v }},
	{name: "is_dual_fuel", present: func(r *contracts.GoldRow) bool { return r.IsDualFuel != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsDualFuel = &v }},

	{name: "avg_monthly_elec_kwh", present: func(r *contracts.GoldRow) bool { return r.AvgMonthlyElecKWh != nil }},
	{name: "total_elec_kwh", present: func(r *contracts.GoldRow) bool { return r.TotalElecKWh != nil }},
	{name: "avg_monthly_gas_m3", present: func(r *contracts.GoldRow) bool { return r.AvgMonthlyGasM3 != nil }},
	{name: "total_gas_m3", present: func(r *contracts.GoldRow) bool { return r.TotalGasM3 != nil }},
	{name: "avg_monthly_margin", present: func(r *contracts.GoldRow) bool { return r.AvgMonthlyMargin != nil }},
	{name: "total_margin", present: func(r *contracts.GoldRow) bool { return r.TotalMargin != nil }},
	{name: "is_digital_channel", present: func(r *contracts.GoldRow) bool { return r.IsDigitalChannel != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsDigitalChannel = &v }},
	{name: "portfolio_type", present: func(r *contracts.GoldRow) bool { return r.PortfolioType != nil }},
	{name: "gas_share_of_revenue", present: func(r *contracts.GoldRow) bool { return r.GasShareOfRevenue != nil }},
	{name: "province_avg_elec_cost", present: func(r *contracts.GoldRow) bool { return r.ProvinceAvgElecCost != nil }},
	{name: "province_avg_gas_cost", present: func(r *contracts.GoldRow) bool { return r.ProvinceAvgGasCost != nil }},
	{name: "price_update_count", present: func(r *contracts.GoldRow) bool { return r.PriceUpdateCount != nil }},

	{name: "elec_consumption_volatility", present: func(r *contracts.GoldRow) bool { return r.ElecConsumptionVolatility != nil }},
	{name: "gas_consumption_volatility", present: func(r *contracts.GoldRow) bool { return r.GasConsumptionVolatility != nil }},
	{name: "active_months", present: func(r *contracts.GoldRow) bool { return r.ActiveMonths != nil }},
	{name: "margin_volatility", present: func(r *contracts.GoldRow) bool { return r.MarginVolatility != nil }},
	{name: "margin_min", present: func(r *contracts.GoldRow) bool { return r.MarginMin != nil }},
	{name: "negative_margin_months", present: func(r *contracts.GoldRow) bool { return r.NegativeMarginMonths != nil }},
	{name: "elec_price_trend_12m", present: func(r *contracts.GoldRow) bool { return r.ElecPriceTrend12M != nil }},
	{name: "elec_price_volatility", present: func(r *contracts.GoldRow) bool { return r.ElecPriceVolatility != nil }},
	{name: "is_price_increase", present: func(r *contracts.GoldRow) bool { return r.IsPriceIncrease != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsPriceIncrease = &v }},
	{name: "gas_price_trend_12m", present: func(r *contracts.GoldRow) bool { return r.GasPriceTrend12M != nil }},
	{name: "province_cost_trend", present: func(r *contracts.GoldRow) bool { return r.ProvinceCostTrend != nil }},
	{name: "price_vs_cost_spread", present: func(r *contracts.GoldRow) bool { return r.PriceVsCostSpread != nil }},
	{name: "margin_trend_3m", present: func(r *contracts.GoldRow) bool { return r.MarginTrend3M != nil }},

	{name: "has_interaction", present: func(r *contracts.GoldRow) bool { return r.HasInteraction != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.HasInteraction = &v }},
	{name: "customer_intent", present: func(r *contracts.GoldRow) bool { return r.CustomerIntent != nil },
		fill: fillNoInteraction, setStr: func(r *contracts.GoldRow, v string) { r.CustomerIntent = &v }},
	{name: "intent_to_cancel", present: func(r *contracts.GoldRow) bool { return r.IntentToCancel != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IntentToCancel = &v }},
	{name: "has_complaint", present: func(r *contracts.GoldRow) bool { return r.HasComplaint != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.HasComplaint = &v }},
	{name: "intent_severity", present: func(r *contracts.GoldRow) bool { return r.IntentSeverity != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IntentSeverity = &v }},
	{name: "last_interaction_days_ago", present: func(r *contracts.GoldRow) bool { return r.LastInteractionDaysAgo != nil },
		fill: fillRecencySentinel, setI64: func(r *contracts.GoldRow, v int64) { r.LastInteractionDaysAgo = &v }},
	{name: "interaction_near_renewal", present: func(r *contracts.GoldRow) bool { return r.InteractionNearRenewal != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.InteractionNearRenewal = &v }},
	{name: "interaction_within_30d_of_renewal", present: func(r *contracts.GoldRow) bool { return r.InteractionWithin30Days != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.InteractionWithin30Days = &v }},
	{name: "complaint_near_renewal", present: func(r *contracts.GoldRow) bool { return r.ComplaintNearRenewal != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.ComplaintNearRenewal = &v }},
	{name: "months_since_product_change", present: func(r *contracts.GoldRow) bool { return r.MonthsSinceProductChange != nil },
		fill: fillRecencySentinel, setF64: func(r *contracts.GoldRow, v float64) { r.MonthsSinceProductChange = &v }},

	{name: "sentiment_label", present: func(r *contracts.GoldRow) bool { return r.SentimentLabel != nil }},
	{name: "sentiment_neg", present: func(r *contracts.GoldRow) bool { return r.SentimentNeg != nil }},
	{name: "sentiment_neu", present: func(r *contracts.GoldRow) bool { return r.SentimentNeu != nil }},
	{name: "sentiment_pos", present: func(r *contracts.GoldRow) bool { return r.SentimentPos != nil }},
	{name: "has_negative_sentiment", present: func(r *contracts.GoldRow) bool { return r.HasNegativeSentiment != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.HasNegativeSentiment = &v }},
	{name: "avg_sentiment_score", present: func(r *contracts.GoldRow) bool { return r.AvgSentimentScore != nil }},

	{name: "intent_x_renewal_bucket", present: func(r *contracts.GoldRow) bool { return r.IntentXRenewalBucket != nil }},
	{name: "intent_x_tenure_bucket", present: func(r *contracts.GoldRow) bool { return r.IntentXTenureBucket != nil }},
	{name: "sentiment_x_renewal_bucket", present: func(r *contracts.GoldRow) bool { return r.SentimentXRenewalBucket != nil }},
	{name: "intent_x_sentiment", present: func(r *contracts.GoldRow) bool { return r.IntentXSentiment != nil }},
	{name: "tenure_x_renewal_bucket", present: func(r *contracts.GoldRow) bool { return r.TenureXRenewalBucket != nil }},
	{name: "sales_channel_x_renewal_bucket", present: func(r *contracts.GoldRow) bool { return r.SalesChannelXRenewalBucket != nil }},
	{name: "has_interaction_x_renewal_bucket", present: func(r *contracts.GoldRow) bool { return r.HasInteractionXRenewalBucket != nil }},
	{name: "renewal_x_complaint", present: func(r *contracts.GoldRow) bool { return r.RenewalXComplaint != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.RenewalXComplaint = &v }},
	{name: "high_risk_x_negative_sentiment", present: func(r *contracts.GoldRow) bool { return r.HighRiskXNegativeSentiment != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.HighRiskXNegativeSentiment = &v }},
	{name: "is_price_sensitive", present: func(r *contracts.GoldRow) bool { return r.IsPriceSensitive != nil },
		fill: fillZeroFlag, setI64: func(r *contracts.GoldRow, v int64) { r.IsPriceSensitive = &v }},
}

// FeatureColumns returns every feature name the gold master can carry, in
// table order.
func FeatureColumns() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// AvailableColumns returns the feature columns that are present in this
// run: non-nil for at least one row.
func AvailableColumns(rows []contracts.GoldRow) []string {
	var names []string
	for _, c := range columns {
		for i := range rows {
			if c.present(&rows[i]) {
				names = append(names, c.name)
				break
			}
		}
	}
	return names
}

// NullRates returns the null share of every feature column over rows.
// Empty input yields an empty map.
func NullRates(rows []contracts.GoldRow) map[string]float64 {
	rates := make(map[string]float64, len(columns))
	if len(rows) == 0 {
		return rates
	}
	for _, c := range columns {
		nulls := 0
		for i := range rows {
			if !c.present(&rows[i]) {
				nulls++
			}
		}
		rates[c.name] = float64(nulls) / float64(len(rows))
	}
	return rates
}

// MissingFeatures reports which of the required columns a run did not
// produce, so a downstream consumer can fail fast with a readable list.
func MissingFeatures(rows []contracts.GoldRow, required []string) []string {
	available := make(map[string]struct{})
	for _, name := range AvailableColumns(rows) {
		available[name] = struct{}{}
	}
	var missing []string
	for _, name := range required {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ApplyModelFills closes structural nulls in place for model handoff. Only
// columns present in the run are filled; a column the run never produced
// stays absent rather than being invented.
func ApplyModelFills(rows []contracts.GoldRow) {
	for _, c := range columns {
		if c.fill == fillNone {
			continue
		}
		active := false
		for i := range rows {
			if c.present(&rows[i]) {
				active = true
				break
			}
		}
		if !active {
			continue
		}
		for i := range rows {
			r := &rows[i]
			if c.present(r) {
				continue
			}
			switch c.fill {
			case fillZeroFlag:
				c.setI64(r, 0)
			case fillRecencySentinel:
				if c.setI64 != nil {
					c.setI64(r, RecencySentinelDays)
				} else {
					c.setF64(r, RecencySentinelDays)
				}
			case fillNoInteraction:
				c.setStr(r, NoInteractionIntent)
			}
		}
	}
}
