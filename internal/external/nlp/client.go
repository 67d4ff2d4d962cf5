package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spanishgas/churnpipe/pkg/config"
	"github.com/spanishgas/churnpipe/pkg/httputil"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// SentimentScore holds the class probabilities for one text.
type SentimentScore struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// Label returns the highest-probability class name.
func (s SentimentScore) Label() string {
	label := "negative"
	best := s.Negative
	if s.Neutral > best {
		label, best = "neutral", s.Neutral
	}
	if s.Positive > best {
		label = "positive"
	}
	return label
}

// SentimentClient talks to the sentiment scoring service. All calls go
// through the shared rate-limited HTTP client.
type SentimentClient struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

func NewSentimentClient(cfg config.NLPConfig, log *logger.Logger) *SentimentClient {
	client := httputil.NewWithTimeout(log, cfg.Timeout).
		WithRateLimit(cfg.RequestsPerSec, 1)
	return &SentimentClient{
		httpClient: client,
		baseURL:    cfg.BaseURL,
		logger:     log,
	}
}

type sentimentRequest struct {
	Texts []string `json:"texts"`
}

type sentimentResponse struct {
	Results []SentimentScore `json:"results"`
}

// Score returns one score per input text, in order.
func (c *SentimentClient) Score(ctx context.Context, texts []string) ([]SentimentScore, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	url := c.baseURL + "/v1/sentiment"
	resp, err := c.httpClient.PostJSON(ctx, url, sentimentRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("sentiment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sentiment service returned status %d", resp.StatusCode)
	}

	var decoded sentimentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode sentiment response: %w", err)
	}
	if len(decoded.Results) != len(texts) {
		return nil, fmt.Errorf("sentiment service returned %d results for %d texts", len(decoded.Results), len(texts))
	}

	return decoded.Results, nil
}
