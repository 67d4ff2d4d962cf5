package contracts

import "time"

// Raw reference tables as delivered by the loader collaborator. One struct
// per source file; nullable cells are pointers.

// LabelRecord is one row of the churn label table.
type LabelRecord struct {
	CustomerID string
	Churn      *int64 // 0/1, nullable pre-label
}

// AttributeRecord is one row of the customer attributes table.
type AttributeRecord struct {
	CustomerID        string
	IsIndustrial      *bool
	ContractedPowerKW *float64
	IsSecondResidence *bool
	ProvinceCode      *string
}

// ContractRecord is one row of the contracts table.
type ContractRecord struct {
	CustomerID            string
	SalesChannel          *string
	FirstActivationDate   *time.Time
	NextRenewalDate       *time.Time
	LastProductChangeDate *time.Time
}

// InteractionRecord is one row of the interactions table. The intent and
// sentiment fields are produced by the NLP collaborator and may be entirely
// absent for a run.
type InteractionRecord struct {
	CustomerID string
	Date       *time.Time
	Summary    *string

	Intent         *string
	SentimentLabel *string
	SentimentNeg   *float64
	SentimentNeu   *float64
	SentimentPos   *float64
}

// PriceRecord is one row of the price history table. PricingDate is
// normalized to year-month before the bronze merge.
type PriceRecord struct {
	CustomerID          string
	PricingDate         *time.Time
	PriceTier1          *float64 // eur/kWh, peak
	PriceTier2          *float64 // eur/kWh, standard
	PriceTier3          *float64 // eur/kWh, off-peak
	GasPrice            *float64 // eur/m3
	ElecFixedFee        *float64 // eur/month
	GasFixedRevenueYear *float64 // eur/year
}

// ProvinceCostRecord is one row of the province-level monthly cost table.
type ProvinceCostRecord struct {
	ProvinceCode     string
	Month            Month
	ElecVarCost      *float64 // eur/kWh
	ElecNetworkCost  *float64 // eur/kWh, peaje
	ElecFixedCost    *float64 // eur/month
	GasVarCost       *float64 // eur/m3
	GasFixedCostYear *float64 // eur/year
}

// ProvinceLookupRecord maps a customer to its province.
type ProvinceLookupRecord struct {
	CustomerID   string
	ProvinceCode string
}

// RawTables bundles all reference tables for a pipeline run. The hourly
// consumption stream is not here: it is consumed chunk by chunk.
type RawTables struct {
	Labels         []LabelRecord
	Attributes     []AttributeRecord
	Contracts      []ContractRecord
	Interactions   []InteractionRecord
	Prices         []PriceRecord
	ProvinceCosts  []ProvinceCostRecord
	ProvinceLookup []ProvinceLookupRecord
}
