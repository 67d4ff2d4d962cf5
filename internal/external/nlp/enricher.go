package nlp

import (
	"context"
	"strings"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// SentimentScorer scores raw texts. Implemented by SentimentClient; nil
// means the run has no sentiment enrichment.
type SentimentScorer interface {
	Score(ctx context.Context, texts []string) ([]SentimentScore, error)
}

// Enricher annotates raw interactions with intent (always, via the regex
// classifier) and sentiment (when a scorer is configured). A scorer failure
// degrades the run to intent-only instead of aborting it.
type Enricher struct {
	classifier *Classifier
	scorer     SentimentScorer
	logger     *logger.Logger
}

func NewEnricher(scorer SentimentScorer, log *logger.Logger) *Enricher {
	return &Enricher{
		classifier: NewClassifier(),
		scorer:     scorer,
		logger:     log,
	}
}

// EnrichInteractions returns a copy of records with Intent filled on every
// row and sentiment fields filled on rows with a non-empty summary.
func (e *Enricher) EnrichInteractions(ctx context.Context, records []contracts.InteractionRecord) []contracts.InteractionRecord {
	out := make([]contracts.InteractionRecord, len(records))
	copy(out, records)

	for i := range out {
		text := ""
		if out[i].Summary != nil {
			text = *out[i].Summary
		}
		out[i].Intent = contracts.Str(e.classifier.Classify(text))
	}

	if e.scorer == nil {
		return out
	}

	var texts []string
	var indexes []int
	for i := range out {
		if out[i].Summary != nil && strings.TrimSpace(*out[i].Summary) != "" {
			texts = append(texts, *out[i].Summary)
			indexes = append(indexes, i)
		}
	}
	if len(texts) == 0 {
		return out
	}

	scores, err := e.scorer.Score(ctx, texts)
	if err != nil {
		e.logger.WithError(err).Warn("sentiment scoring failed, continuing intent-only")
		return out
	}

	for j, idx := range indexes {
		s := scores[j]
		out[idx].SentimentNeg = contracts.F64(s.Negative)
		out[idx].SentimentNeu = contracts.F64(s.Neutral)
		out[idx].SentimentPos = contracts.F64(s.Positive)
		out[idx].SentimentLabel = contracts.Str(s.Label())
	}

	e.logger.WithFields(map[string]interface{}{
		"interactions": len(out),
		"scored":       len(texts),
	}).Info("interactions enriched")
	return out
}
