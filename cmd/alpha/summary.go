package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/reports"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	exchange string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the positions summary with live prices" }
func (*summaryCmd) Usage() string {
	return `alpha summary [-exchange <name>]

  Fetches a live price for every position and displays totals, the
  breakdown by asset type and the top performers.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exchange, "exchange", "", "Exchange for crypto prices (binance, coinbase, kraken). Defaults to the configured exchange.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	summary, err := a.container.PortfolioService.Summary(ctx, c.exchange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating summary: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.printMarkdown(reports.PortfolioMarkdown(summary, a.cfg.UI.Currency)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// financeCmd holds the flags for the 'finance' subcommand.
type financeCmd struct {
	start string
	end   string
}

func (*financeCmd) Name() string     { return "finance" }
func (*financeCmd) Synopsis() string { return "display savings, expenses and the net position" }
func (*financeCmd) Usage() string {
	return `alpha finance [-start YYYY-MM-DD] [-end YYYY-MM-DD]

  Displays total savings, total expenses, the net position and the
  spending breakdown by category, optionally within a date range.
`
}

func (c *financeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First date to include (inclusive)")
	f.StringVar(&c.end, "end", "", "Last date to include (inclusive)")
}

func (c *financeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dr := domain.DateRange{Start: c.start, End: c.end}
	if err := dr.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	net, err := a.container.FinanceService.NetPosition(ctx, dr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing net position: %v\n", err)
		return subcommands.ExitFailure
	}
	breakdown, err := a.container.FinanceService.ExpenseBreakdown(ctx, dr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing breakdown: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.printMarkdown(reports.FinanceMarkdown(net, breakdown, a.cfg.UI.Currency)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
