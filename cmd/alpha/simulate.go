package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aristath/alpha/internal/modules/simulation"
	"github.com/aristath/alpha/internal/reports"
	"github.com/google/subcommands"
)

type simulateCmd struct{}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run a savings, interest, retirement or loan projection" }
func (*simulateCmd) Usage() string {
	return `alpha simulate <command> [flags]

Commands:
  savings    - Month by month savings growth.
  compound   - Compound interest on a lump sum.
  retirement - Saving until retirement, then how long withdrawals last.
  loan       - Monthly payment and total interest of a loan.

Rates are decimals: 0.05 means 5%.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {}
func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "simulate")
	commander.Register(&savingsCmd{}, "")
	commander.Register(&compoundCmd{}, "")
	commander.Register(&retirementCmd{}, "")
	commander.Register(&loanCmd{}, "")
	return commander.Execute(ctx, args...)
}

// renderSimulation prints a projection document, or the validation error
// as a usage error
func renderSimulation(build func(currency string) (string, error)) subcommands.ExitStatus {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md, err := build(cfg.UI.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := printMarkdown(stdout, md, cfg.UI.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type savingsCmd struct {
	in simulation.SavingsGrowthInput
}

func (*savingsCmd) Name() string     { return "savings" }
func (*savingsCmd) Synopsis() string { return "project month by month savings growth" }
func (*savingsCmd) Usage() string {
	return `alpha simulate savings [-initial n] [-monthly n] [-rate r] [-months n]
`
}

func (c *savingsCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.in.Initial, "initial", 0, "Starting balance")
	f.Float64Var(&c.in.Monthly, "monthly", 0, "Contribution added each month")
	f.Float64Var(&c.in.AnnualRate, "rate", 0.05, "Annual return")
	f.IntVar(&c.in.Periods, "months", 120, "Number of months to project")
}

func (c *savingsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return renderSimulation(func(currency string) (string, error) {
		values, err := simulation.SavingsGrowth(c.in.Initial, c.in.Monthly, c.in.AnnualRate, c.in.Periods)
		if err != nil {
			return "", err
		}
		return reports.SavingsGrowthMarkdown(c.in, values, currency), nil
	})
}

type compoundCmd struct {
	in simulation.CompoundInterestInput
}

func (*compoundCmd) Name() string     { return "compound" }
func (*compoundCmd) Synopsis() string { return "compound interest on a lump sum" }
func (*compoundCmd) Usage() string {
	return `alpha simulate compound -principal n [-rate r] [-n times] [-years y]
`
}

func (c *compoundCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.in.Principal, "principal", 0, "Amount invested")
	f.Float64Var(&c.in.AnnualRate, "rate", 0.05, "Annual rate")
	f.IntVar(&c.in.TimesPerYear, "n", 12, "Compounding periods per year")
	f.Float64Var(&c.in.Years, "years", 10, "Number of years")
}

func (c *compoundCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return renderSimulation(func(currency string) (string, error) {
		amount, err := simulation.CompoundInterest(c.in.Principal, c.in.AnnualRate, c.in.TimesPerYear, c.in.Years)
		if err != nil {
			return "", err
		}
		out := simulation.CompoundInterestResult{Amount: amount, Interest: amount - c.in.Principal}
		return reports.CompoundInterestMarkdown(c.in, out, currency), nil
	})
}

type retirementCmd struct {
	in simulation.RetirementInput
}

func (*retirementCmd) Name() string     { return "retirement" }
func (*retirementCmd) Synopsis() string { return "project savings to retirement and how long they last" }
func (*retirementCmd) Usage() string {
	return `alpha simulate retirement -age n -retire n [-savings n] [-monthly n] [-return r] [-withdrawal r]
`
}

func (c *retirementCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.in.CurrentAge, "age", 30, "Current age")
	f.IntVar(&c.in.RetirementAge, "retire", 65, "Retirement age")
	f.Float64Var(&c.in.CurrentSavings, "savings", 0, "Current savings")
	f.Float64Var(&c.in.MonthlyContribution, "monthly", 0, "Monthly contribution")
	f.Float64Var(&c.in.AnnualReturn, "return", 0.07, "Annual return")
	f.Float64Var(&c.in.WithdrawalRate, "withdrawal", 0.04, "Share of the balance withdrawn each year")
}

func (c *retirementCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return renderSimulation(func(currency string) (string, error) {
		out, err := simulation.Retirement(c.in)
		if err != nil {
			return "", err
		}
		return reports.RetirementMarkdown(c.in, out, currency), nil
	})
}

type loanCmd struct {
	in simulation.LoanInput
}

func (*loanCmd) Name() string     { return "loan" }
func (*loanCmd) Synopsis() string { return "monthly payment and total interest of a loan" }
func (*loanCmd) Usage() string {
	return `alpha simulate loan -amount n [-rate r] [-years n]
`
}

func (c *loanCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.in.Amount, "amount", 0, "Amount borrowed")
	f.Float64Var(&c.in.AnnualRate, "rate", 0.05, "Annual interest rate")
	f.IntVar(&c.in.Years, "years", 30, "Term in years")
}

func (c *loanCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return renderSimulation(func(currency string) (string, error) {
		out, err := simulation.Loan(c.in.Amount, c.in.AnnualRate, c.in.Years)
		if err != nil {
			return "", err
		}
		return reports.LoanMarkdown(out, currency), nil
	})
}
