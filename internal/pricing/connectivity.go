package pricing

import (
	"context"
	"time"
)

// ProbeResult reports whether one upstream provider answered
type ProbeResult struct {
	Available bool          `json:"available"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency_ns"`
}

// ConnectivityReport covers the equity provider and the default exchange
type ConnectivityReport struct {
	Equity   ProbeResult `json:"equity"`
	Crypto   ProbeResult `json:"crypto"`
	Exchange string      `json:"exchange"`
}

// Connectivity probes both upstream providers with a well-known symbol each
func (a *Adapter) Connectivity(ctx context.Context) ConnectivityReport {
	report := ConnectivityReport{Exchange: string(a.defaultExchange)}

	start := time.Now()
	if _, err := a.equityPrice("AAPL"); err != nil {
		report.Equity.Error = err.Error()
	} else {
		report.Equity.Available = true
	}
	report.Equity.Latency = time.Since(start)

	start = time.Now()
	if _, err := a.cryptoPrice(ctx, "BTC/"+a.defaultQuote, ""); err != nil {
		report.Crypto.Error = err.Error()
	} else {
		report.Crypto.Available = true
	}
	report.Crypto.Latency = time.Since(start)

	a.log.Info().
		Bool("equity", report.Equity.Available).
		Bool("crypto", report.Crypto.Available).
		Str("exchange", report.Exchange).
		Msg("Connectivity probe finished")

	return report
}
