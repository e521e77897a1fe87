// Package domain provides core domain models and types.
package domain

import (
	"sort"
	"strings"
)

// AssetType tags a symbol for price routing and reporting
type AssetType string

const (
	AssetStock     AssetType = "stock"
	AssetCrypto    AssetType = "crypto"
	AssetETF       AssetType = "etf"
	AssetForex     AssetType = "forex"
	AssetCommodity AssetType = "commodity"
	AssetBond      AssetType = "bond"
	AssetOption    AssetType = "option"
	AssetFuture    AssetType = "future"
)

// AssetTypes lists every supported asset type in display order
var AssetTypes = []AssetType{
	AssetStock, AssetCrypto, AssetETF, AssetForex,
	AssetCommodity, AssetBond, AssetOption, AssetFuture,
}

// ParseAssetType normalises and validates an asset type
func ParseAssetType(s string) (AssetType, error) {
	v := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return "", Invalid("asset_type", "asset type is required")
	}
	for _, a := range AssetTypes {
		if a == v {
			return v, nil
		}
	}
	return "", Invalid("asset_type", "asset type must be one of: %s", joinSorted(AssetTypes))
}

// TradeType is the direction of a journal entry
type TradeType string

const (
	TradeBuy   TradeType = "buy"
	TradeSell  TradeType = "sell"
	TradeShort TradeType = "short"
	TradeCover TradeType = "cover"
)

// TradeTypes lists every supported trade type
var TradeTypes = []TradeType{TradeBuy, TradeSell, TradeShort, TradeCover}

// ParseTradeType normalises and validates a trade type
func ParseTradeType(s string) (TradeType, error) {
	v := TradeType(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return "", Invalid("trade_type", "trade type is required")
	}
	for _, t := range TradeTypes {
		if t == v {
			return v, nil
		}
	}
	return "", Invalid("trade_type", "trade type must be one of: %s", joinSorted(TradeTypes))
}

// Expense is a single spending record
type Expense struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note"`
}

// Savings is a single savings deposit
type Savings struct {
	ID     int64   `json:"id"`
	Date   string  `json:"date"`
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// Trade is a trading journal entry
type Trade struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	AssetType  AssetType `json:"asset_type"`
	EntryDate  string    `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"`
	Quantity   float64   `json:"quantity"`
	TradeType  TradeType `json:"trade_type"`
	Notes      string    `json:"notes"`
	Tags       string    `json:"tags"`
}

// Volume returns price times quantity
func (t Trade) Volume() float64 {
	return t.EntryPrice * t.Quantity
}

// Position is one open entry lot
type Position struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	AssetType  AssetType `json:"asset_type"`
	EntryDate  string    `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"`
	Quantity   float64   `json:"quantity"`
}

// EntryValue is computable from stored fields alone
func (p Position) EntryValue() float64 {
	return p.EntryPrice * p.Quantity
}

// Page limits list queries. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// Validate rejects negative paging values
func (p Page) Validate() error {
	if p.Limit < 0 {
		return Invalid("limit", "limit cannot be negative")
	}
	if p.Offset < 0 {
		return Invalid("offset", "offset cannot be negative")
	}
	return nil
}

// SQLLimit returns the LIMIT argument for SQLite, where -1 means unbounded
func (p Page) SQLLimit() int {
	if p.Limit <= 0 {
		return -1
	}
	return p.Limit
}

func joinSorted[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// String implements fmt.Stringer
func (a AssetType) String() string { return string(a) }

// String implements fmt.Stringer
func (t TradeType) String() string { return string(t) }
