package exchanges

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// BinanceClient reads the 24h rolling ticker from the Binance spot API
type BinanceClient struct {
	client *resty.Client
	log    zerolog.Logger
}

type binanceTicker struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
	Code      int    `json:"code"`
	Msg       string `json:"msg"`
}

// NewBinance creates a Binance adapter
func NewBinance(opts Options, log zerolog.Logger) *BinanceClient {
	return &BinanceClient{
		client: newRestyClient(opts, Binance),
		log:    log.With().Str("client", "binance").Logger(),
	}
}

// Name implements Exchange
func (c *BinanceClient) Name() Name { return Binance }

// LastPrice implements Exchange
func (c *BinanceClient) LastPrice(ctx context.Context, pair Pair) (float64, error) {
	symbol := pair.Base + pair.Quote

	c.log.Debug().Str("pair", pair.String()).Msg("Requesting ticker")

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		Get("/api/v3/ticker/24hr")
	if err != nil {
		return 0, fmt.Errorf("binance request failed: %w", err)
	}

	var ticker binanceTicker
	if err := json.Unmarshal(resp.Body(), &ticker); err != nil {
		return 0, fmt.Errorf("failed to decode binance ticker (status %d): %w", resp.StatusCode(), err)
	}

	if resp.IsError() {
		return 0, fmt.Errorf("binance returned status %d: %s", resp.StatusCode(), ticker.Msg)
	}

	return checkPrice(ticker.LastPrice, pair, Binance)
}
