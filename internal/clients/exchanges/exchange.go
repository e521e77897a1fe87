// Package exchanges provides last-trade price lookups against public crypto exchange APIs.
package exchanges

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Name identifies a supported exchange
type Name string

const (
	Binance  Name = "binance"
	Coinbase Name = "coinbase"
	Kraken   Name = "kraken"
)

// Names lists the supported exchanges
var Names = []Name{Binance, Coinbase, Kraken}

// ParseName normalises an exchange name and rejects unsupported ones
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("unsupported exchange: %q", s)
}

// Pair is a normalised trading pair such as BTC/USDT
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Exchange fetches the last trade price for a pair
type Exchange interface {
	Name() Name
	LastPrice(ctx context.Context, pair Pair) (float64, error)
}

// Options configures the HTTP clients
type Options struct {
	Timeout  time.Duration   // zero disables the client timeout
	BaseURLs map[Name]string // overrides for tests or mirrors
	Debug    bool
}

var defaultBaseURLs = map[Name]string{
	Binance:  "https://api.binance.com",
	Coinbase: "https://api.exchange.coinbase.com",
	Kraken:   "https://api.kraken.com",
}

func (o Options) baseURL(name Name) string {
	if u, ok := o.BaseURLs[name]; ok && u != "" {
		return u
	}
	return defaultBaseURLs[name]
}

func newRestyClient(opts Options, name Name) *resty.Client {
	client := resty.New().
		SetDebug(opts.Debug).
		SetBaseURL(opts.baseURL(name)).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "alpha/1.0")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	return client
}

// Registry is the closed set of exchange adapters
type Registry struct {
	adapters map[Name]Exchange
}

// NewRegistry builds one adapter per supported exchange
func NewRegistry(opts Options, log zerolog.Logger) *Registry {
	return &Registry{
		adapters: map[Name]Exchange{
			Binance:  NewBinance(opts, log),
			Coinbase: NewCoinbase(opts, log),
			Kraken:   NewKraken(opts, log),
		},
	}
}

// NewRegistryFrom builds a registry over explicit adapters
func NewRegistryFrom(adapters ...Exchange) *Registry {
	r := &Registry{adapters: make(map[Name]Exchange, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

// Get returns the adapter for name
func (r *Registry) Get(name Name) (Exchange, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("unsupported exchange: %q", name)
	}
	return a, nil
}

func checkPrice(raw string, pair Pair, exchange Name) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("no ticker data available for %s on %s", pair, exchange)
	}
	price, err := parseFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("non-numeric last price %q for %s on %s", raw, pair, exchange)
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid price returned for %s: %v", pair, price)
	}
	return price, nil
}
