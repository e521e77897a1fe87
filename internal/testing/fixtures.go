package testing

import "github.com/aristath/alpha/internal/domain"

// NewExpenseFixtures returns expenses spanning two months and three categories.
// Newest first the categories run Food, Rent, Food, Transport.
func NewExpenseFixtures() []domain.Expense {
	return []domain.Expense{
		{Date: "2024-01-05", Category: "Transport", Amount: 45.50, Note: "monthly pass"},
		{Date: "2024-01-12", Category: "Food", Amount: 120.25, Note: "groceries"},
		{Date: "2024-02-01", Category: "Rent", Amount: 950.00},
		{Date: "2024-02-03", Category: "Food", Amount: 80.75, Note: "dinner"},
	}
}

// NewSavingsFixtures returns savings from two sources
func NewSavingsFixtures() []domain.Savings {
	return []domain.Savings{
		{Date: "2024-01-31", Source: "Salary", Amount: 1000.00},
		{Date: "2024-02-15", Source: "Bonus", Amount: 250.00, Note: "Q4 bonus"},
		{Date: "2024-02-29", Source: "Salary", Amount: 1000.00},
	}
}

// NewTradeFixtures returns a small journal covering every trade type
func NewTradeFixtures() []domain.Trade {
	return []domain.Trade{
		{
			Symbol: "AAPL", AssetType: domain.AssetStock, EntryDate: "2024-01-15",
			EntryPrice: 180.00, Quantity: 10, TradeType: domain.TradeBuy,
			Notes: "earnings run-up", Tags: "swing,tech",
		},
		{
			Symbol: "AAPL", AssetType: domain.AssetStock, EntryDate: "2024-02-01",
			EntryPrice: 190.00, Quantity: 30, TradeType: domain.TradeBuy,
			Tags: "tech",
		},
		{
			Symbol: "AAPL", AssetType: domain.AssetStock, EntryDate: "2024-03-01",
			EntryPrice: 200.00, Quantity: 20, TradeType: domain.TradeSell,
			Tags: "Tech,exit",
		},
		{
			Symbol: "BTC/USDT", AssetType: domain.AssetCrypto, EntryDate: "2024-02-10",
			EntryPrice: 45000.00, Quantity: 0.5, TradeType: domain.TradeBuy,
			Tags: "crypto",
		},
		{
			Symbol: "TSLA", AssetType: domain.AssetStock, EntryDate: "2024-02-20",
			EntryPrice: 200.00, Quantity: 5, TradeType: domain.TradeShort,
		},
	}
}

// NewPositionFixtures returns one equity, one ETF and one crypto position
func NewPositionFixtures() []domain.Position {
	return []domain.Position{
		{Symbol: "AAPL", AssetType: domain.AssetStock, EntryDate: "2024-01-15", EntryPrice: 180.00, Quantity: 50},
		{Symbol: "VOO", AssetType: domain.AssetETF, EntryDate: "2024-01-20", EntryPrice: 400.00, Quantity: 2},
		{Symbol: "BTC/USDT", AssetType: domain.AssetCrypto, EntryDate: "2024-02-10", EntryPrice: 40000.00, Quantity: 0.25},
	}
}
