package contracts

// Feature tier outputs. Each tier builder returns one record per customer;
// a nil field means the feature could not be computed for this run (source
// column absent) or is null for this customer (left-join miss). The set of
// possibly-absent features is the set of pointer fields — enumerable, no
// ad hoc column-presence checks.

// LifecycleFeatures is the gold backbone tier: contract timing, structural
// stickiness, and the dual-fuel flag.
type LifecycleFeatures struct {
	TenureMonths    *float64 `parquet:"tenure_months,optional"`
	TenureBucket    *string  `parquet:"tenure_bucket,optional"`
	MonthsToRenewal *float64 `parquet:"months_to_renewal,optional"`
	RenewalBucket   *string  `parquet:"renewal_bucket,optional"`

	IsWithin3MOfRenewal *int64 `parquet:"is_within_3m_of_renewal,optional"`
	IsExpiredContract   *int64 `parquet:"is_expired_contract,optional"`

	Segment             *string `parquet:"segment,optional"`
	SalesChannel        *string `parquet:"sales_channel,optional"`
	IsSecondResidence   *int64  `parquet:"is_second_residence,optional"`
	IsComparisonChannel *int64  `parquet:"is_comparison_channel,optional"`
	IsOwnWebsiteChannel *int64  `parquet:"is_own_website_channel,optional"`

	IsDualFuel *int64 `parquet:"is_dual_fuel,optional"`
}

// MarketCoreFeatures covers consumption volumes, margins and portfolio shape.
type MarketCoreFeatures struct {
	AvgMonthlyElecKWh *float64 `parquet:"avg_monthly_elec_kwh,optional"`
	TotalElecKWh      *float64 `parquet:"total_elec_kwh,optional"`
	AvgMonthlyGasM3   *float64 `parquet:"avg_monthly_gas_m3,optional"`
	TotalGasM3        *float64 `parquet:"total_gas_m3,optional"`

	AvgMonthlyMargin *float64 `parquet:"avg_monthly_margin,optional"`
	TotalMargin      *float64 `parquet:"total_margin,optional"`

	IsDigitalChannel  *int64   `parquet:"is_digital_channel,optional"`
	PortfolioType     *string  `parquet:"portfolio_type,optional"`
	GasShareOfRevenue *float64 `parquet:"gas_share_of_revenue,optional"`

	ProvinceAvgElecCost *float64 `parquet:"province_avg_elec_cost,optional"`
	ProvinceAvgGasCost  *float64 `parquet:"province_avg_gas_cost,optional"`

	PriceUpdateCount *int64 `parquet:"price_update_count,optional"`
}

// MarketRiskFeatures covers volatility, trend and margin-stability signals.
type MarketRiskFeatures struct {
	ElecConsumptionVolatility *float64 `parquet:"elec_consumption_volatility,optional"`
	GasConsumptionVolatility  *float64 `parquet:"gas_consumption_volatility,optional"`
	ActiveMonths              *int64   `parquet:"active_months,optional"`

	MarginVolatility     *float64 `parquet:"margin_volatility,optional"`
	MarginMin            *float64 `parquet:"margin_min,optional"`
	NegativeMarginMonths *int64   `parquet:"negative_margin_months,optional"`

	ElecPriceTrend12M   *float64 `parquet:"elec_price_trend_12m,optional"`
	ElecPriceVolatility *float64 `parquet:"elec_price_volatility,optional"`
	IsPriceIncrease     *int64   `parquet:"is_price_increase,optional"`
	GasPriceTrend12M    *float64 `parquet:"gas_price_trend_12m,optional"`

	ProvinceCostTrend *float64 `parquet:"province_cost_trend,optional"`
	PriceVsCostSpread *float64 `parquet:"price_vs_cost_spread,optional"`

	MarginTrend3M *float64 `parquet:"margin_trend_3m,optional"`
}

// BehavioralFeatures covers interaction recency, intent and renewal timing.
type BehavioralFeatures struct {
	HasInteraction *int64  `parquet:"has_interaction,optional"`
	CustomerIntent *string `parquet:"customer_intent,optional"`

	IntentToCancel *int64 `parquet:"intent_to_cancel,optional"`
	HasComplaint   *int64 `parquet:"has_complaint,optional"`
	IntentSeverity *int64 `parquet:"intent_severity,optional"`

	LastInteractionDaysAgo   *int64 `parquet:"last_interaction_days_ago,optional"`
	InteractionNearRenewal   *int64 `parquet:"interaction_near_renewal,optional"`
	InteractionWithin30Days  *int64 `parquet:"interaction_within_30d_of_renewal,optional"`
	ComplaintNearRenewal     *int64 `parquet:"complaint_near_renewal,optional"`
	MonthsSinceProductChange *float64 `parquet:"months_since_product_change,optional"`
}

// SentimentFeatures passes through the NLP collaborator's sentiment columns.
type SentimentFeatures struct {
	SentimentLabel *string  `parquet:"sentiment_label,optional"`
	SentimentNeg   *float64 `parquet:"sentiment_neg,optional"`
	SentimentNeu   *float64 `parquet:"sentiment_neu,optional"`
	SentimentPos   *float64 `parquet:"sentiment_pos,optional"`

	HasNegativeSentiment *int64   `parquet:"has_negative_sentiment,optional"`
	AvgSentimentScore    *float64 `parquet:"avg_sentiment_score,optional"`
}

// CompoundFeatures holds cross-tier interactions. String crosses map nulls to
// "Unknown" before concatenation; binary compounds treat missing as false.
type CompoundFeatures struct {
	IntentXRenewalBucket         *string `parquet:"intent_x_renewal_bucket,optional"`
	IntentXTenureBucket          *string `parquet:"intent_x_tenure_bucket,optional"`
	SentimentXRenewalBucket      *string `parquet:"sentiment_x_renewal_bucket,optional"`
	IntentXSentiment             *string `parquet:"intent_x_sentiment,optional"`
	TenureXRenewalBucket         *string `parquet:"tenure_x_renewal_bucket,optional"`
	SalesChannelXRenewalBucket   *string `parquet:"sales_channel_x_renewal_bucket,optional"`
	HasInteractionXRenewalBucket *string `parquet:"has_interaction_x_renewal_bucket,optional"`

	RenewalXComplaint          *int64 `parquet:"renewal_x_complaint,optional"`
	HighRiskXNegativeSentiment *int64 `parquet:"high_risk_x_negative_sentiment,optional"`
	IsPriceSensitive           *int64 `parquet:"is_price_sensitive,optional"`
}

// GoldRow is one row of the gold master: the lifecycle backbone plus every
// other tier, compounds, and the label. Unique on CustomerID. Because each
// tier owns distinct fields, a later tier can never overwrite an earlier
// tier's column.
type GoldRow struct {
	CustomerID string `parquet:"customer_id"`

	LifecycleFeatures
	MarketCoreFeatures
	MarketRiskFeatures
	BehavioralFeatures
	SentimentFeatures
	CompoundFeatures

	Churn *int64 `parquet:"churn,optional"`
}
