package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// FeedClient fetches rates from an HTTP price feed answering
//
//	{"price": "1.0002", "timestamp": 1767225600, "source": "coinbase"}
//
// where timestamp is Unix seconds.
type FeedClient struct {
	URL        string
	HTTPClient *http.Client
}

type feedResponse struct {
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
	Source    string          `json:"source"`
}

// NewFeedClient creates a client with a bounded request timeout.
func NewFeedClient(url string, timeout time.Duration) *FeedClient {
	return &FeedClient{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Fetch reads one rate observation.
func (c *FeedClient) Fetch(ctx context.Context) (Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to query price feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Rate{}, fmt.Errorf("price feed returned %s", resp.Status)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Rate{}, fmt.Errorf("failed to decode price feed: %w", err)
	}

	value, err := RateFromDecimal(body.Price)
	if err != nil {
		return Rate{}, err
	}

	ts := time.Now().UTC()
	if body.Timestamp > 0 {
		ts = time.Unix(body.Timestamp, 0).UTC()
	}
	source := body.Source
	if source == "" {
		source = "feed"
	}

	return Rate{Value: value, Timestamp: ts, Source: source}, nil
}
