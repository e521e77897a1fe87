// Package reports renders ledger and portfolio data as spreadsheets and
// markdown documents.
package reports

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured
const DefaultCurrency = "USD"

// FormatMoney renders amount in the currency's display form, e.g. $1,234.50.
// Unknown currency codes fall back to a plain two-decimal amount.
func FormatMoney(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}

	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}

	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display()
}

// FormatSignedMoney is FormatMoney with an explicit sign for gains
func FormatSignedMoney(amount float64, currency string) string {
	if amount > 0 {
		return "+" + FormatMoney(amount, currency)
	}
	return FormatMoney(amount, currency)
}

// FormatPercent renders a percentage with two decimals and its sign
func FormatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
