package pricing

import (
	"fmt"
	"strings"

	"github.com/aristath/alpha/internal/clients/exchanges"
)

// NormalizePair turns BTC, btc-usd or BTC/USDT into a base/quote pair.
// A bare symbol gets defaultQuote.
func NormalizePair(symbol, defaultQuote string) (exchanges.Pair, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return exchanges.Pair{}, fmt.Errorf("symbol must be a non-empty string")
	}

	s = strings.ReplaceAll(s, "-", "/")
	if !strings.Contains(s, "/") {
		quote := strings.ToUpper(strings.TrimSpace(defaultQuote))
		if quote == "" {
			quote = DefaultQuote
		}
		s = s + "/" + quote
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return exchanges.Pair{}, fmt.Errorf("invalid trading pair %q", symbol)
	}

	return exchanges.Pair{Base: parts[0], Quote: parts[1]}, nil
}
