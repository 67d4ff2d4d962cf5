package contracts

import "time"

// Customer is one row of the customer-grain table (bronze and silver share
// the shape; silver fills the derived fields). Unique on CustomerID.
type Customer struct {
	CustomerID string
	Churn      *int64

	// Attributes
	IsIndustrial      *bool
	ContractedPowerKW *float64
	IsSecondResidence *bool
	ProvinceCode      *string

	// Contract
	SalesChannel          *string
	FirstActivationDate   *time.Time
	NextRenewalDate       *time.Time
	LastProductChangeDate *time.Time

	// Most recent interaction
	HasInteraction      bool
	LastInteractionDate *time.Time
	InteractionSummary  *string

	// NLP enrichment (optional for a run)
	CustomerIntent *string
	SentimentLabel *string
	SentimentNeg   *float64
	SentimentNeu   *float64
	SentimentPos   *float64

	// Silver-derived
	Segment         *string // Residential / SME / Corporate
	ResidentialType *string // Primary_Residence / Second_Residence
}

// Clone returns a shallow copy. Pointer cells are shared but treated as
// immutable: transforms that change a cell allocate a new value.
func (c Customer) Clone() Customer {
	return c
}

// Segment labels.
const (
	SegmentResidential = "Residential"
	SegmentSME         = "SME"
	SegmentCorporate   = "Corporate"

	ResidentialPrimary = "Primary_Residence"
	ResidentialSecond  = "Second_Residence"
)
