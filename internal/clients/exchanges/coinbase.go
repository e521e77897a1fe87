package exchanges

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// CoinbaseClient reads product tickers from the Coinbase Exchange API
type CoinbaseClient struct {
	client *resty.Client
	log    zerolog.Logger
}

type coinbaseTicker struct {
	Price   string `json:"price"`
	Message string `json:"message"`
}

// NewCoinbase creates a Coinbase adapter
func NewCoinbase(opts Options, log zerolog.Logger) *CoinbaseClient {
	return &CoinbaseClient{
		client: newRestyClient(opts, Coinbase),
		log:    log.With().Str("client", "coinbase").Logger(),
	}
}

// Name implements Exchange
func (c *CoinbaseClient) Name() Name { return Coinbase }

// LastPrice implements Exchange
func (c *CoinbaseClient) LastPrice(ctx context.Context, pair Pair) (float64, error) {
	c.log.Debug().Str("pair", pair.String()).Msg("Requesting ticker")

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("product", pair.Base+"-"+pair.Quote).
		Get("/products/{product}/ticker")
	if err != nil {
		return 0, fmt.Errorf("coinbase request failed: %w", err)
	}

	var ticker coinbaseTicker
	if err := json.Unmarshal(resp.Body(), &ticker); err != nil {
		return 0, fmt.Errorf("failed to decode coinbase ticker (status %d): %w", resp.StatusCode(), err)
	}

	if resp.IsError() {
		return 0, fmt.Errorf("coinbase returned status %d: %s", resp.StatusCode(), ticker.Message)
	}

	return checkPrice(ticker.Price, pair, Coinbase)
}
