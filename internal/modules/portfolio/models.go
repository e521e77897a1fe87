// Package portfolio tracks open positions and values them against live prices.
package portfolio

import "github.com/aristath/alpha/internal/domain"

// PositionPatch lists the fields a position update may change
type PositionPatch struct {
	Symbol     domain.Optional[string]  `json:"symbol"`
	AssetType  domain.Optional[string]  `json:"asset_type"`
	EntryDate  domain.Optional[string]  `json:"entry_date"`
	EntryPrice domain.Optional[float64] `json:"entry_price"`
	Quantity   domain.Optional[float64] `json:"quantity"`
}

// EnrichedPosition is a stored position valued at a live price.
//
// Every field derived from the live price is nil when the fetch failed, and
// Error then holds the fetch error text. EntryValue is always set.
type EnrichedPosition struct {
	domain.Position
	EntryValue           float64  `json:"entry_value"`
	LivePrice            *float64 `json:"live_price"`
	CurrentValue         *float64 `json:"current_value"`
	UnrealizedPnL        *float64 `json:"unrealized_pnl"`
	UnrealizedPnLPercent *float64 `json:"unrealized_pnl_percent"`
	PriceChange          *float64 `json:"price_change"`
	PriceChangePercent   *float64 `json:"price_change_percent"`
	LastUpdated          string   `json:"last_updated"`
	Error                string   `json:"price_error,omitempty"`
}

// HasData reports whether the live price was fetched
func (e EnrichedPosition) HasData() bool {
	return e.LivePrice != nil
}

// AssetTypeTotal is the subtotal of one asset type
type AssetTypeTotal struct {
	AssetType            domain.AssetType `json:"asset_type"`
	Count                int              `json:"count"`
	PositionsWithData    int              `json:"positions_with_data"`
	EntryValue           float64          `json:"entry_value"`
	CurrentValue         float64          `json:"current_value"`
	UnrealizedPnL        float64          `json:"unrealized_pnl"`
	UnrealizedPnLPercent float64          `json:"unrealized_pnl_percent"`
}

// PortfolioSummary folds enriched positions into portfolio totals.
//
// TotalEntryValue covers every position. TotalCurrentValue and
// TotalUnrealizedPnL cover only positions whose price was fetched.
// Best and worst performers are nil when no position has data.
type PortfolioSummary struct {
	TotalPositions            int               `json:"total_positions"`
	PositionsWithData         int               `json:"positions_with_data"`
	PositionsWithErrors       int               `json:"positions_with_errors"`
	TotalEntryValue           float64           `json:"total_entry_value"`
	TotalCurrentValue         float64           `json:"total_current_value"`
	TotalUnrealizedPnL        float64           `json:"total_unrealized_pnl"`
	TotalUnrealizedPnLPercent float64           `json:"total_unrealized_pnl_percent"`
	BestPerformer             *EnrichedPosition `json:"best_performer"`
	WorstPerformer            *EnrichedPosition `json:"worst_performer"`
	ByAssetType               []AssetTypeTotal  `json:"by_asset_type"`
	LastUpdated               string            `json:"last_updated"`
}

// Summary is the portfolio aggregate together with its top performers,
// both derived from a single enrichment pass
type Summary struct {
	Portfolio     PortfolioSummary   `json:"portfolio"`
	TopPerformers []EnrichedPosition `json:"top_performers"`
	Exchange      string             `json:"exchange"`
	GeneratedAt   string             `json:"summary_generated"`
}
