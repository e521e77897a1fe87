package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aristath/alpha/internal/pricing"
)

// PriceCall records one lookup made against MockPriceSource
type PriceCall struct {
	Symbol    string
	AssetType string
	Exchange  string
}

// MockPriceSource is a mock implementation of pricing.Source for testing.
// Symbols without a configured price or error fail with a fetch error.
type MockPriceSource struct {
	mu     sync.RWMutex
	prices map[string]float64
	errs   map[string]error
	calls  []PriceCall
}

var _ pricing.Source = (*MockPriceSource)(nil)

// NewMockPriceSource creates a new mock price source
func NewMockPriceSource() *MockPriceSource {
	return &MockPriceSource{
		prices: make(map[string]float64),
		errs:   make(map[string]error),
	}
}

// SetPrice sets the price returned for symbol
func (m *MockPriceSource) SetPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[strings.ToUpper(symbol)] = price
}

// SetError makes lookups for symbol fail with err
func (m *MockPriceSource) SetError(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[strings.ToUpper(symbol)] = err
}

// Price implements pricing.Source
func (m *MockPriceSource) Price(_ context.Context, symbol, assetType, exchange string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToUpper(symbol)
	m.calls = append(m.calls, PriceCall{Symbol: key, AssetType: assetType, Exchange: exchange})

	if err, ok := m.errs[key]; ok {
		return 0, &pricing.FetchError{Symbol: key, AssetType: assetType, Message: err.Error(), Err: err}
	}
	if p, ok := m.prices[key]; ok {
		return p, nil
	}
	err := fmt.Errorf("no price configured for %s", key)
	return 0, &pricing.FetchError{Symbol: key, AssetType: assetType, Message: err.Error(), Err: err}
}

// Calls returns the lookups made so far in order
func (m *MockPriceSource) Calls() []PriceCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PriceCall, len(m.calls))
	copy(out, m.calls)
	return out
}
