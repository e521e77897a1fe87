package exchanges

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// KrakenClient reads tickers from the Kraken public REST API
type KrakenClient struct {
	client *resty.Client
	log    zerolog.Logger
}

type krakenTickerResponse struct {
	Error  []string                `json:"error"`
	Result map[string]krakenTicker `json:"result"`
}

type krakenTicker struct {
	// c = last trade closed [price, lot volume]
	Close []string `json:"c"`
}

// NewKraken creates a Kraken adapter
func NewKraken(opts Options, log zerolog.Logger) *KrakenClient {
	return &KrakenClient{
		client: newRestyClient(opts, Kraken),
		log:    log.With().Str("client", "kraken").Logger(),
	}
}

// Name implements Exchange
func (c *KrakenClient) Name() Name { return Kraken }

// krakenAsset maps common tickers to Kraken's asset codes
func krakenAsset(s string) string {
	if s == "BTC" {
		return "XBT"
	}
	return s
}

// LastPrice implements Exchange
func (c *KrakenClient) LastPrice(ctx context.Context, pair Pair) (float64, error) {
	krakenPair := krakenAsset(pair.Base) + krakenAsset(pair.Quote)

	c.log.Debug().Str("pair", pair.String()).Str("kraken_pair", krakenPair).Msg("Requesting ticker")

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("pair", krakenPair).
		Get("/0/public/Ticker")
	if err != nil {
		return 0, fmt.Errorf("kraken request failed: %w", err)
	}

	var body krakenTickerResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("failed to decode kraken ticker (status %d): %w", resp.StatusCode(), err)
	}

	if len(body.Error) > 0 {
		return 0, fmt.Errorf("kraken error: %s", strings.Join(body.Error, "; "))
	}
	if resp.IsError() {
		return 0, fmt.Errorf("kraken returned status %d", resp.StatusCode())
	}

	// Kraken keys the result by its own pair name; a single pair was requested
	for _, ticker := range body.Result {
		if len(ticker.Close) == 0 {
			break
		}
		return checkPrice(ticker.Close[0], pair, Kraken)
	}

	return 0, fmt.Errorf("no ticker data available for %s on %s", pair, Kraken)
}
