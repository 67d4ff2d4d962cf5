package gold

import (
	"time"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// Builder assembles the gold master: it runs every tier calculator, merges
// the tiers onto the lifecycle backbone, computes compounds, and attaches
// the churn label last. One row per customer, same customers in as out.
type Builder struct {
	lifecycle  *LifecycleCalculator
	marketCore *MarketCoreCalculator
	marketRisk *MarketRiskCalculator
	behavioral *BehavioralCalculator
	sentiment  *SentimentCalculator
	logger     *logger.Logger
}

func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{
		lifecycle:  NewLifecycleCalculator(),
		marketCore: NewMarketCoreCalculator(),
		marketRisk: NewMarketRiskCalculator(),
		behavioral: NewBehavioralCalculator(),
		sentiment:  NewSentimentCalculator(),
		logger:     log,
	}
}

// Build produces the gold master from the silver tables. A duplicate
// customer id in the input is a grain violation and aborts the run.
func (b *Builder) Build(customers []contracts.Customer, months []contracts.CustomerMonth, asOf time.Time) ([]contracts.GoldRow, error) {
	if dups := duplicateIDs(customers); dups > 0 {
		return nil, contracts.GrainViolationf("gold_master", dups)
	}

	lifecycle := b.lifecycle.Build(customers, months, asOf)
	marketCore := b.marketCore.Build(customers, months)
	marketRisk := b.marketRisk.Build(customers, months)
	behavioral := b.behavioral.Build(customers, asOf)
	sentiment := b.sentiment.Build(customers)

	rows := make([]contracts.GoldRow, 0, len(customers))
	for i := range customers {
		cust := &customers[i]
		row := contracts.GoldRow{CustomerID: cust.CustomerID}

		if f := lifecycle[cust.CustomerID]; f != nil {
			row.LifecycleFeatures = *f
		}
		if f := marketCore[cust.CustomerID]; f != nil {
			row.MarketCoreFeatures = *f
		}
		if f := marketRisk[cust.CustomerID]; f != nil {
			row.MarketRiskFeatures = *f
		}
		if f := behavioral[cust.CustomerID]; f != nil {
			row.BehavioralFeatures = *f
		}
		if f := sentiment[cust.CustomerID]; f != nil {
			row.SentimentFeatures = *f
		}
		rows = append(rows, row)
	}

	ComputeCompounds(rows)

	// Label goes on last so no feature step can touch it.
	for i := range rows {
		rows[i].Churn = customers[i].Churn
	}

	b.logger.WithFields(map[string]interface{}{
		"customers": len(rows),
		"as_of":     asOf.Format("2006-01-02"),
		"features":  len(AvailableColumns(rows)),
	}).Info("gold master built")

	return rows, nil
}

func duplicateIDs(customers []contracts.Customer) int {
	seen := make(map[string]struct{}, len(customers))
	dups := 0
	for i := range customers {
		if _, ok := seen[customers[i].CustomerID]; ok {
			dups++
			continue
		}
		seen[customers[i].CustomerID] = struct{}{}
	}
	return dups
}
