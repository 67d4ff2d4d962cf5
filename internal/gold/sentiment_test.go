package gold

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

func TestSentimentPassthroughAndDerived(t *testing.T) {
	customers := []contracts.Customer{
		{
			CustomerID:     "neg",
			SentimentLabel: contracts.Str("NEGATIVE"),
			SentimentNeg:   contracts.F64(0.7),
			SentimentNeu:   contracts.F64(0.2),
			SentimentPos:   contracts.F64(0.1),
		},
		{
			CustomerID:     "pos",
			SentimentLabel: contracts.Str("positive"),
			SentimentNeg:   contracts.F64(0.1),
			SentimentPos:   contracts.F64(0.8),
		},
		{CustomerID: "none"},
	}

	out := NewSentimentCalculator().Build(customers)

	neg := out["neg"]
	assert.Equal(t, "NEGATIVE", *neg.SentimentLabel)
	assert.Equal(t, int64(1), *neg.HasNegativeSentiment)
	assert.InDelta(t, -0.6, *neg.AvgSentimentScore, 1e-9)

	pos := out["pos"]
	assert.Equal(t, int64(0), *pos.HasNegativeSentiment)
	assert.InDelta(t, 0.7, *pos.AvgSentimentScore, 1e-9)

	none := out["none"]
	assert.Nil(t, none.SentimentLabel)
	// Labels exist in the run, so unenriched customers get a lowered flag.
	assert.Equal(t, int64(0), *none.HasNegativeSentiment)
	assert.Nil(t, none.AvgSentimentScore)
}

func TestSentimentOmittedWithoutEnrichment(t *testing.T) {
	customers := []contracts.Customer{{CustomerID: "C1"}, {CustomerID: "C2"}}

	out := NewSentimentCalculator().Build(customers)

	assert.Nil(t, out["C1"].HasNegativeSentiment)
	assert.Nil(t, out["C1"].AvgSentimentScore)
}
