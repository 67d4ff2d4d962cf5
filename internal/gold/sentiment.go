package gold

import (
	"strings"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// SentimentCalculator passes the NLP collaborator's sentiment columns
// through and derives the negative flag and the net score. When the run had
// no sentiment enrichment the whole tier stays nil.
type SentimentCalculator struct{}

func NewSentimentCalculator() *SentimentCalculator { return &SentimentCalculator{} }

func (c *SentimentCalculator) Build(customers []contracts.Customer) map[string]*contracts.SentimentFeatures {
	var hasLabels, hasScores bool
	for i := range customers {
		if customers[i].SentimentLabel != nil {
			hasLabels = true
		}
		if customers[i].SentimentPos != nil && customers[i].SentimentNeg != nil {
			hasScores = true
		}
	}

	out := make(map[string]*contracts.SentimentFeatures, len(customers))
	for i := range customers {
		cust := &customers[i]
		f := &contracts.SentimentFeatures{
			SentimentLabel: cust.SentimentLabel,
			SentimentNeg:   cust.SentimentNeg,
			SentimentNeu:   cust.SentimentNeu,
			SentimentPos:   cust.SentimentPos,
		}

		if hasLabels {
			negative := cust.SentimentLabel != nil && strings.EqualFold(*cust.SentimentLabel, "negative")
			f.HasNegativeSentiment = boolFlag(negative)
		}
		if hasScores && cust.SentimentPos != nil && cust.SentimentNeg != nil {
			f.AvgSentimentScore = contracts.F64(*cust.SentimentPos - *cust.SentimentNeg)
		}

		out[cust.CustomerID] = f
	}
	return out
}
