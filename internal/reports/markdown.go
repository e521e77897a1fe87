package reports

import (
	"fmt"
	"strings"

	"github.com/aristath/alpha/internal/modules/finance"
	"github.com/aristath/alpha/internal/modules/portfolio"
)

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func optionalMoney(v *float64, currency string) string {
	if v == nil {
		return "n/a"
	}
	return FormatMoney(*v, currency)
}

func optionalPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return FormatPercent(*v)
}

func performerLine(p *portfolio.EnrichedPosition, currency string) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s %s (%s)", p.Symbol,
		optionalPercent(p.UnrealizedPnLPercent),
		FormatSignedMoney(derefOrZero(p.UnrealizedPnL), currency))
}

func derefOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// PortfolioMarkdown renders a positions summary as a markdown document
func PortfolioMarkdown(s *portfolio.Summary, currency string) string {
	var b strings.Builder
	p := s.Portfolio

	b.WriteString("# Portfolio Summary\n\n")
	fmt.Fprintf(&b, "Generated %s using %s prices.\n\n", s.GeneratedAt, s.Exchange)

	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Positions", fmt.Sprintf("%d", p.TotalPositions)},
		{"Priced", fmt.Sprintf("%d", p.PositionsWithData)},
		{"Price errors", fmt.Sprintf("%d", p.PositionsWithErrors)},
		{"Entry value", FormatMoney(p.TotalEntryValue, currency)},
		{"Current value", FormatMoney(p.TotalCurrentValue, currency)},
		{"Unrealized P&L", FormatSignedMoney(p.TotalUnrealizedPnL, currency)},
		{"Unrealized P&L %", FormatPercent(p.TotalUnrealizedPnLPercent)},
		{"Best performer", performerLine(p.BestPerformer, currency)},
		{"Worst performer", performerLine(p.WorstPerformer, currency)},
	})

	if len(p.ByAssetType) > 0 {
		b.WriteString("## By Asset Type\n\n")
		rows := make([][]string, 0, len(p.ByAssetType))
		for _, t := range p.ByAssetType {
			rows = append(rows, []string{
				string(t.AssetType),
				fmt.Sprintf("%d", t.Count),
				FormatMoney(t.EntryValue, currency),
				FormatMoney(t.CurrentValue, currency),
				FormatSignedMoney(t.UnrealizedPnL, currency),
				FormatPercent(t.UnrealizedPnLPercent),
			})
		}
		writeTable(&b, []string{"Type", "Count", "Entry", "Current", "P&L", "P&L %"}, rows)
	}

	if len(s.TopPerformers) > 0 {
		b.WriteString("## Top Performers\n\n")
		rows := make([][]string, 0, len(s.TopPerformers))
		for _, e := range s.TopPerformers {
			rows = append(rows, []string{
				e.Symbol,
				string(e.AssetType),
				FormatMoney(e.EntryPrice, currency),
				optionalMoney(e.LivePrice, currency),
				FormatSignedMoney(derefOrZero(e.UnrealizedPnL), currency),
				optionalPercent(e.UnrealizedPnLPercent),
			})
		}
		writeTable(&b, []string{"Symbol", "Type", "Entry", "Live", "P&L", "P&L %"}, rows)
	}

	return b.String()
}

// FinanceMarkdown renders savings against expenses and the spending breakdown
func FinanceMarkdown(net *finance.NetPosition, breakdown []finance.CategoryTotal, currency string) string {
	var b strings.Builder

	b.WriteString("# Finance Summary\n\n")
	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Total savings", FormatMoney(net.TotalSavings, currency)},
		{"Total expenses", FormatMoney(net.TotalExpenses, currency)},
		{"Net position", FormatSignedMoney(net.NetPosition, currency)},
	})

	if len(breakdown) > 0 {
		b.WriteString("## Expenses by Category\n\n")
		rows := make([][]string, 0, len(breakdown))
		for _, c := range breakdown {
			rows = append(rows, []string{c.Category, fmt.Sprintf("%d", c.Count), FormatMoney(c.Total, currency)})
		}
		writeTable(&b, []string{"Category", "Entries", "Total"}, rows)
	}

	return b.String()
}
