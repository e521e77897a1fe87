// Package trading implements the trading journal: validated trade records,
// filtered queries and journal statistics.
package trading

import "github.com/aristath/alpha/internal/domain"

// TradePatch lists the fields a trade update may change
type TradePatch struct {
	Symbol     domain.Optional[string]  `json:"symbol"`
	AssetType  domain.Optional[string]  `json:"asset_type"`
	EntryDate  domain.Optional[string]  `json:"entry_date"`
	EntryPrice domain.Optional[float64] `json:"entry_price"`
	Quantity   domain.Optional[float64] `json:"quantity"`
	TradeType  domain.Optional[string]  `json:"trade_type"`
	Notes      domain.Optional[string]  `json:"notes"`
	Tags       domain.Optional[string]  `json:"tags"`
}

// Filter narrows a trade query. Empty fields match everything and set
// fields combine with AND.
type Filter struct {
	Symbol    string
	AssetType domain.AssetType
	TradeType domain.TradeType
	Range     domain.DateRange
	Tag       string
}

// Summary aggregates the whole journal
type Summary struct {
	TotalTrades   int            `json:"total_trades"`
	ByTradeType   map[string]int `json:"by_trade_type"`
	ByAssetType   map[string]int `json:"by_asset_type"`
	ByTag         map[string]int `json:"by_tag"`
	TotalVolume   float64        `json:"total_volume"`
	UniqueSymbols int            `json:"unique_symbols"`
}

// SymbolPerformance aggregates the journal entries of one symbol.
// Average prices are quantity weighted and zero when there are no trades of that side.
type SymbolPerformance struct {
	Symbol              string  `json:"symbol"`
	TotalTrades         int     `json:"total_trades"`
	BuyTrades           int     `json:"buy_trades"`
	SellTrades          int     `json:"sell_trades"`
	TotalQuantityBought float64 `json:"total_quantity_bought"`
	TotalQuantitySold   float64 `json:"total_quantity_sold"`
	AverageBuyPrice     float64 `json:"average_buy_price"`
	AverageSellPrice    float64 `json:"average_sell_price"`
	TotalVolume         float64 `json:"total_volume"`
}
