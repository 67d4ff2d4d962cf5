package bronze

import (
	"sort"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// Builder assembles the two bronze tables from raw snapshots.
// SSOT: raw → bronze merging happens here and nowhere else
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a bronze builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{logger: log}
}

// BuildCustomer merges labels + attributes + contracts + interactions into
// the customer-grain bronze table (one row per customer id). The label
// table anchors the merge; the side tables are deduplicated keep-first
// before joining. Duplicate label ids are a grain violation.
func (b *Builder) BuildCustomer(raw *contracts.RawTables) ([]contracts.Customer, error) {
	if dups := duplicateLabelCount(raw.Labels); dups > 0 {
		return nil, contracts.GrainViolationf("churn_labels", dups)
	}

	attrs := firstAttributePerCustomer(raw.Attributes)
	cons := firstContractPerCustomer(raw.Contracts)
	inters := firstInteractionPerCustomer(raw.Interactions)

	customers := make([]contracts.Customer, 0, len(raw.Labels))
	seen := make(map[string]struct{}, len(raw.Labels))
	for _, lbl := range raw.Labels {
		c := contracts.Customer{
			CustomerID: lbl.CustomerID,
			Churn:      lbl.Churn,
		}

		if a, ok := attrs[lbl.CustomerID]; ok {
			c.IsIndustrial = a.IsIndustrial
			c.ContractedPowerKW = a.ContractedPowerKW
			c.IsSecondResidence = a.IsSecondResidence
			c.ProvinceCode = a.ProvinceCode
		}

		if ct, ok := cons[lbl.CustomerID]; ok {
			c.SalesChannel = ct.SalesChannel
			c.FirstActivationDate = ct.FirstActivationDate
			c.NextRenewalDate = ct.NextRenewalDate
			c.LastProductChangeDate = ct.LastProductChangeDate
		}

		if in, ok := inters[lbl.CustomerID]; ok {
			c.HasInteraction = true
			c.LastInteractionDate = in.Date
			c.InteractionSummary = in.Summary
			c.CustomerIntent = in.Intent
			c.SentimentLabel = in.SentimentLabel
			c.SentimentNeg = in.SentimentNeg
			c.SentimentNeu = in.SentimentNeu
			c.SentimentPos = in.SentimentPos
		}

		customers = append(customers, c)
		seen[lbl.CustomerID] = struct{}{}
	}

	// Merge cardinality check at the boundary. With keep-first dedupe this
	// can only trip if the label check above was bypassed.
	if len(seen) != len(customers) {
		return nil, contracts.GrainViolationf("bronze_customer", len(customers)-len(seen))
	}

	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})

	b.logger.WithFields(map[string]interface{}{
		"customers":    len(customers),
		"attributes":   len(attrs),
		"contracts":    len(cons),
		"interactions": len(inters),
	}).Info("Built bronze customer table")

	return customers, nil
}

func duplicateLabelCount(labels []contracts.LabelRecord) int {
	seen := make(map[string]struct{}, len(labels))
	dups := 0
	for _, l := range labels {
		if _, ok := seen[l.CustomerID]; ok {
			dups++
			continue
		}
		seen[l.CustomerID] = struct{}{}
	}
	return dups
}

func firstAttributePerCustomer(rows []contracts.AttributeRecord) map[string]contracts.AttributeRecord {
	out := make(map[string]contracts.AttributeRecord, len(rows))
	for _, r := range rows {
		if _, ok := out[r.CustomerID]; !ok {
			out[r.CustomerID] = r
		}
	}
	return out
}

func firstContractPerCustomer(rows []contracts.ContractRecord) map[string]contracts.ContractRecord {
	out := make(map[string]contracts.ContractRecord, len(rows))
	for _, r := range rows {
		if _, ok := out[r.CustomerID]; !ok {
			out[r.CustomerID] = r
		}
	}
	return out
}

func firstInteractionPerCustomer(rows []contracts.InteractionRecord) map[string]contracts.InteractionRecord {
	out := make(map[string]contracts.InteractionRecord, len(rows))
	for _, r := range rows {
		if _, ok := out[r.CustomerID]; !ok {
			out[r.CustomerID] = r
		}
	}
	return out
}
