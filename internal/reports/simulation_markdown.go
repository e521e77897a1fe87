package reports

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aristath/alpha/internal/database"
	"github.com/aristath/alpha/internal/modules/simulation"
)

func rate(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// SavingsGrowthMarkdown renders a savings projection with one row per year
// plus the final month when the horizon is not a whole number of years
func SavingsGrowthMarkdown(in simulation.SavingsGrowthInput, values []float64, currency string) string {
	var b strings.Builder

	b.WriteString("# Savings Growth\n\n")
	fmt.Fprintf(&b, "Starting from %s and adding %s a month at %s a year.\n\n",
		FormatMoney(in.Initial, currency), FormatMoney(in.Monthly, currency), rate(in.AnnualRate))

	last := len(values) - 1
	rows := make([][]string, 0, len(values)/12+2)
	for month := 0; month <= last; month += 12 {
		rows = append(rows, []string{fmt.Sprintf("%d", month), FormatMoney(values[month], currency)})
	}
	if last%12 != 0 {
		rows = append(rows, []string{fmt.Sprintf("%d", last), FormatMoney(values[last], currency)})
	}
	writeTable(&b, []string{"Month", "Balance"}, rows)

	return b.String()
}

// CompoundInterestMarkdown renders a compound interest projection
func CompoundInterestMarkdown(in simulation.CompoundInterestInput, out simulation.CompoundInterestResult, currency string) string {
	var b strings.Builder

	b.WriteString("# Compound Interest\n\n")
	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Principal", FormatMoney(in.Principal, currency)},
		{"Annual rate", rate(in.AnnualRate)},
		{"Compounded per year", fmt.Sprintf("%d", in.TimesPerYear)},
		{"Years", fmt.Sprintf("%g", in.Years)},
		{"Final amount", FormatMoney(out.Amount, currency)},
		{"Interest earned", FormatMoney(out.Interest, currency)},
	})

	return b.String()
}

// RetirementMarkdown renders both phases of a retirement projection
func RetirementMarkdown(in simulation.RetirementInput, out *simulation.RetirementResult, currency string) string {
	var b strings.Builder

	b.WriteString("# Retirement Projection\n\n")
	b.WriteString("## Saving\n\n")
	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Years to retirement", fmt.Sprintf("%d", out.YearsToRetirement)},
		{"Total contributions", FormatMoney(out.TotalContributions, currency)},
		{"Balance at retirement", FormatMoney(out.RetirementBalance, currency)},
	})

	lasting := fmt.Sprintf("%.1f", out.EstimatedYearsLasting)
	if out.EstimatedYearsLasting*12 >= simulation.MaxWithdrawalMonths {
		lasting = fmt.Sprintf("%d+", simulation.MaxWithdrawalMonths/12)
	}

	b.WriteString("## Withdrawing\n\n")
	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Withdrawal rate", rate(in.WithdrawalRate)},
		{"Annual withdrawal", FormatMoney(out.AnnualWithdrawal, currency)},
		{"Monthly withdrawal", FormatMoney(out.MonthlyWithdrawal, currency)},
		{"Years lasting", lasting},
	})

	return b.String()
}

// LoanMarkdown renders a loan amortization summary
func LoanMarkdown(out *simulation.LoanResult, currency string) string {
	var b strings.Builder

	b.WriteString("# Loan\n\n")
	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Amount", FormatMoney(out.Amount, currency)},
		{"Annual rate", rate(out.AnnualRate)},
		{"Payments", fmt.Sprintf("%d", out.NumPayments)},
		{"Monthly payment", FormatMoney(out.MonthlyPayment, currency)},
		{"Total interest", FormatMoney(out.TotalInterest, currency)},
		{"Total paid", FormatMoney(out.TotalPaid, currency)},
	})

	return b.String()
}

// StatsMarkdown renders row counts and the schema version
func StatsMarkdown(tables database.TableStats, version uint, dirty bool) string {
	var b strings.Builder

	b.WriteString("# Database\n\n")
	schema := fmt.Sprintf("Schema version %d", version)
	if dirty {
		schema += " (dirty: a migration did not finish)"
	}
	b.WriteString(schema + ".\n\n")

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, fmt.Sprintf("%d", tables[name])})
	}
	writeTable(&b, []string{"Table", "Rows"}, rows)

	return b.String()
}
