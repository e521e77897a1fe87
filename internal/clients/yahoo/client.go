// Package yahoo provides equity quotes through the go-yfinance library.
package yahoo

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/client"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// Snapshot holds the quote fields consulted for an equity price, in priority order
type Snapshot struct {
	CurrentPrice       float64
	RegularMarketPrice float64
	PreviousClose      float64
}

// Client implements the equity quote lookups using go-yfinance.
// Each call opens its own ticker session; nothing is cached.
type Client struct {
	timeoutSeconds int
	log            zerolog.Logger
}

// NewClient creates a new Yahoo client. A positive timeout bounds every
// request, rounded up to whole seconds; zero keeps the library default.
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	c := &Client{
		log: log.With().Str("client", "yahoo").Logger(),
	}
	if timeout > 0 {
		c.timeoutSeconds = int(math.Ceil(timeout.Seconds()))
	}
	return c
}

// session is one ticker with its own HTTP client
type session struct {
	*ticker.Ticker
	http *client.Client
}

func (s *session) Close() {
	s.Ticker.Close()
	s.http.Close()
}

func (c *Client) open(symbol string) (*session, error) {
	var opts []client.ClientOption
	if c.timeoutSeconds > 0 {
		opts = append(opts, client.WithTimeout(c.timeoutSeconds))
	}
	httpClient, err := client.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	t, err := ticker.New(symbol, ticker.WithClient(httpClient))
	if err != nil {
		httpClient.Close()
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	return &session{Ticker: t, http: httpClient}, nil
}

func normalize(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("symbol must be a non-empty string")
	}
	return s, nil
}

// Snapshot fetches the info and quote documents for symbol.
// It fails only when both requests fail.
func (c *Client) Snapshot(symbol string) (*Snapshot, error) {
	sym, err := normalize(symbol)
	if err != nil {
		return nil, err
	}

	t, err := c.open(sym)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	snap := &Snapshot{}

	info, infoErr := t.Info()
	if infoErr == nil && info != nil {
		snap.CurrentPrice = info.CurrentPrice
		snap.PreviousClose = info.RegularMarketPreviousClose
	}

	quote, quoteErr := t.Quote()
	if quoteErr == nil && quote != nil {
		snap.RegularMarketPrice = quote.RegularMarketPrice
	}

	if infoErr != nil && quoteErr != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", sym, infoErr)
	}

	c.log.Debug().
		Str("symbol", sym).
		Float64("current_price", snap.CurrentPrice).
		Float64("regular_market_price", snap.RegularMarketPrice).
		Float64("previous_close", snap.PreviousClose).
		Msg("Fetched snapshot")

	return snap, nil
}

// FastPrice returns the regular market price from the chart endpoint's
// metadata, a lighter document than the quote and info ones.
func (c *Client) FastPrice(symbol string) (float64, error) {
	sym, err := normalize(symbol)
	if err != nil {
		return 0, err
	}

	t, err := c.open(sym)
	if err != nil {
		return 0, err
	}
	defer t.Close()

	if _, err := t.History(models.HistoryParams{Period: "5d", Interval: "1d"}); err != nil {
		return 0, fmt.Errorf("failed to get chart metadata: %w", err)
	}
	meta := t.GetHistoryMetadata()
	if meta == nil {
		return 0, fmt.Errorf("no chart metadata for %s", sym)
	}
	return meta.RegularMarketPrice, nil
}

// IntradayCloses returns today's one-minute closes, oldest first
func (c *Client) IntradayCloses(symbol string) ([]float64, error) {
	sym, err := normalize(symbol)
	if err != nil {
		return nil, err
	}

	t, err := c.open(sym)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:   "1d",
		Interval: "1m",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get intraday history: %w", err)
	}

	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		closes = append(closes, bar.Close)
	}
	return closes, nil
}
