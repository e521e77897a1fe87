// Package pricing routes live price lookups to the equity quote provider or a crypto exchange.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aristath/alpha/internal/clients/exchanges"
	"github.com/aristath/alpha/internal/clients/yahoo"
	"github.com/rs/zerolog"
)

const (
	// DefaultQuote is appended to bare crypto symbols
	DefaultQuote = "USDT"
	// DefaultExchange serves crypto lookups when no exchange is named
	DefaultExchange = exchanges.Binance
)

// Provider labels used for logging and metrics
const (
	ProviderEquity = "equity"
	ProviderCrypto = "crypto"
)

// EquityProvider is the equity quote service
type EquityProvider interface {
	Snapshot(symbol string) (*yahoo.Snapshot, error)
	FastPrice(symbol string) (float64, error)
	IntradayCloses(symbol string) ([]float64, error)
}

// ExchangeRegistry resolves an exchange adapter by name
type ExchangeRegistry interface {
	Get(name exchanges.Name) (exchanges.Exchange, error)
}

// FetchObserver records the outcome of each lookup
type FetchObserver interface {
	ObservePriceFetch(provider string, ok bool)
}

// Source is what consumers of live prices depend on
type Source interface {
	Price(ctx context.Context, symbol, assetType, exchange string) (float64, error)
}

// Config holds adapter defaults
type Config struct {
	DefaultExchange string
	DefaultQuote    string
}

// Adapter implements Source. It never retries and never caches.
type Adapter struct {
	equity          EquityProvider
	registry        ExchangeRegistry
	observer        FetchObserver
	defaultExchange exchanges.Name
	defaultQuote    string
	log             zerolog.Logger
}

// NewAdapter creates a price adapter. Invalid defaults fall back to binance and USDT.
func NewAdapter(equity EquityProvider, registry ExchangeRegistry, cfg Config, log zerolog.Logger) *Adapter {
	a := &Adapter{
		equity:          equity,
		registry:        registry,
		defaultExchange: DefaultExchange,
		defaultQuote:    DefaultQuote,
		log:             log.With().Str("service", "pricing").Logger(),
	}

	if name, err := exchanges.ParseName(cfg.DefaultExchange); err == nil {
		a.defaultExchange = name
	}
	if q := strings.ToUpper(strings.TrimSpace(cfg.DefaultQuote)); q != "" {
		a.defaultQuote = q
	}

	return a
}

// SetObserver attaches a metrics observer
func (a *Adapter) SetObserver(o FetchObserver) {
	a.observer = o
}

// DefaultExchange returns the exchange used when callers pass none
func (a *Adapter) DefaultExchange() exchanges.Name {
	return a.defaultExchange
}

type route int

const (
	routeEquity route = iota
	routeCrypto
)

// routeFor maps an asset tag to a provider. known is false for tags
// that fall through to the equity path.
func routeFor(assetType string) (r route, known bool) {
	switch assetType {
	case "stock", "etf", "equity":
		return routeEquity, true
	case "crypto", "cryptocurrency":
		return routeCrypto, true
	default:
		return routeEquity, false
	}
}

// Price returns the current price of symbol as a positive number or a *FetchError
func (a *Adapter) Price(ctx context.Context, symbol, assetType, exchange string) (float64, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	tag := strings.ToLower(strings.TrimSpace(assetType))

	if sym == "" {
		return 0, newFetchError(symbol, assetType, errors.New("symbol must be a non-empty string"))
	}
	if tag == "" {
		return 0, newFetchError(sym, assetType, errors.New("asset type must be a non-empty string"))
	}

	r, known := routeFor(tag)
	if !known {
		a.log.Warn().Str("symbol", sym).Str("asset_type", tag).Msg("Unknown asset type, defaulting to equity quote provider")
	}

	var (
		price    float64
		err      error
		provider string
	)
	switch r {
	case routeCrypto:
		provider = ProviderCrypto
		price, err = a.cryptoPrice(ctx, sym, exchange)
	default:
		provider = ProviderEquity
		price, err = a.equityPrice(sym)
	}

	if a.observer != nil {
		a.observer.ObservePriceFetch(provider, err == nil)
	}

	if err != nil {
		a.log.Error().Err(err).Str("symbol", sym).Str("asset_type", tag).Msg("Price fetch failed")
		return 0, newFetchError(sym, tag, err)
	}

	a.log.Info().Str("symbol", sym).Float64("price", price).Str("provider", provider).Msg("Fetched price")
	return price, nil
}

// equityPrice walks the quote fields in priority order and returns the first
// strictly positive value
func (a *Adapter) equityPrice(symbol string) (float64, error) {
	if a.equity == nil {
		return 0, errors.New("equity quote provider not available")
	}

	var lastErr error

	snap, err := a.equity.Snapshot(symbol)
	if err != nil {
		lastErr = err
	} else if snap != nil {
		for _, p := range []float64{snap.CurrentPrice, snap.RegularMarketPrice, snap.PreviousClose} {
			if p > 0 {
				return p, nil
			}
		}
	}

	fast, err := a.equity.FastPrice(symbol)
	if err != nil {
		lastErr = err
	} else if fast > 0 {
		return fast, nil
	}

	closes, err := a.equity.IntradayCloses(symbol)
	if err != nil {
		lastErr = err
	} else if n := len(closes); n > 0 && closes[n-1] > 0 {
		return closes[n-1], nil
	}

	if lastErr != nil {
		return 0, fmt.Errorf("no valid price data found for %s: %w", symbol, lastErr)
	}
	return 0, fmt.Errorf("no valid price data found for %s", symbol)
}

func (a *Adapter) cryptoPrice(ctx context.Context, symbol, exchange string) (float64, error) {
	if a.registry == nil {
		return 0, errors.New("crypto exchange adapters not available")
	}

	name := a.defaultExchange
	if strings.TrimSpace(exchange) != "" {
		parsed, err := exchanges.ParseName(exchange)
		if err != nil {
			return 0, err
		}
		name = parsed
	}

	pair, err := NormalizePair(symbol, a.defaultQuote)
	if err != nil {
		return 0, err
	}

	ex, err := a.registry.Get(name)
	if err != nil {
		return 0, err
	}

	price, err := ex.LastPrice(ctx, pair)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch crypto price for %s on %s: %w", pair, name, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid price returned for %s: %v", pair, price)
	}

	return price, nil
}
