package trading

import (
	"context"
	"fmt"
	"strings"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/utils"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary computes statistics over every trade in the journal
func (s *JournalService) Summary(ctx context.Context) (*Summary, error) {
	trades, err := s.repo.Find(ctx, Filter{}, domain.Page{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate trade summary: %w", err)
	}

	summary := &Summary{
		TotalTrades: len(trades),
		ByTradeType: make(map[string]int),
		ByAssetType: make(map[string]int),
		ByTag:       make(map[string]int),
	}

	symbols := make(map[string]struct{})
	volume := decimal.Zero
	for _, t := range trades {
		summary.ByTradeType[string(t.TradeType)]++
		summary.ByAssetType[string(t.AssetType)]++
		for _, tag := range utils.ParseCSV(t.Tags) {
			summary.ByTag[strings.ToLower(tag)]++
		}
		volume = volume.Add(tradeVolume(t))
		symbols[t.Symbol] = struct{}{}
	}

	summary.TotalVolume = volume.InexactFloat64()
	summary.UniqueSymbols = len(symbols)
	return summary, nil
}

// SymbolPerformance computes buy/sell statistics for one symbol.
// Short and cover entries count towards the totals only.
func (s *JournalService) SymbolPerformance(ctx context.Context, symbol string) (*SymbolPerformance, error) {
	trades, err := s.TradesBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	normalized, _ := domain.NormalizeSymbol(symbol)
	perf := &SymbolPerformance{
		Symbol:      normalized,
		TotalTrades: len(trades),
	}

	var buyPrices, buyQty, sellPrices, sellQty []float64
	volume := decimal.Zero
	for _, t := range trades {
		volume = volume.Add(tradeVolume(t))
		switch t.TradeType {
		case domain.TradeBuy:
			buyPrices = append(buyPrices, t.EntryPrice)
			buyQty = append(buyQty, t.Quantity)
		case domain.TradeSell:
			sellPrices = append(sellPrices, t.EntryPrice)
			sellQty = append(sellQty, t.Quantity)
		}
	}

	perf.BuyTrades = len(buyPrices)
	perf.SellTrades = len(sellPrices)
	perf.TotalQuantityBought = floats.Sum(buyQty)
	perf.TotalQuantitySold = floats.Sum(sellQty)
	perf.AverageBuyPrice = weightedAverage(buyPrices, buyQty)
	perf.AverageSellPrice = weightedAverage(sellPrices, sellQty)
	perf.TotalVolume = volume.InexactFloat64()
	return perf, nil
}

func tradeVolume(t domain.Trade) decimal.Decimal {
	return decimal.NewFromFloat(t.EntryPrice).Mul(decimal.NewFromFloat(t.Quantity))
}

// weightedAverage returns the quantity weighted mean price, or 0 with no quantity
func weightedAverage(prices, quantities []float64) float64 {
	if len(prices) == 0 || floats.Sum(quantities) <= 0 {
		return 0
	}
	return stat.Mean(prices, quantities)
}
