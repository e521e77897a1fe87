// Package simulation provides savings, interest, retirement and loan
// projections. Rates are decimals (0.05 for 5%) and every period is a month
// unless a function says otherwise.
package simulation

import (
	"math"

	"github.com/aristath/alpha/internal/domain"
)

// MaxWithdrawalMonths caps the withdrawal phase of a retirement projection
const MaxWithdrawalMonths = 50 * 12

// MaxMonths is the longest horizon any projection accepts (100 years).
// Savings periods, years to retirement and loan terms are checked against it.
const MaxMonths = 100 * 12

// validateYears rejects a term whose month count is not in 1..MaxMonths.
// The check runs before multiplying so large inputs cannot overflow.
func validateYears(field string, years int) error {
	if years <= 0 {
		return domain.Invalid(field, "%s must be positive", field)
	}
	if years > MaxMonths/12 {
		return domain.Invalid(field, "%s cannot exceed %d years", field, MaxMonths/12)
	}
	return nil
}

func validateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.Invalid(field, "%s cannot be negative", field)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// SavingsGrowth projects a balance month by month. Each month the
// contribution is added first and then monthly interest is applied.
// The result has periods+1 values, starting with initial.
func SavingsGrowth(initial, monthly, annualRate float64, periods int) ([]float64, error) {
	if err := firstError(
		validateNonNegative("initial", initial),
		validateNonNegative("monthly", monthly),
		validateNonNegative("annual_rate", annualRate),
	); err != nil {
		return nil, err
	}
	if periods <= 0 {
		return nil, domain.Invalid("periods", "periods must be positive")
	}
	if periods > MaxMonths {
		return nil, domain.Invalid("periods", "periods cannot exceed %d months", MaxMonths)
	}

	monthlyRate := annualRate / 12
	values := make([]float64, 0, periods+1)
	values = append(values, initial)

	balance := initial
	for i := 0; i < periods; i++ {
		balance = (balance + monthly) * (1 + monthlyRate)
		values = append(values, balance)
	}
	return values, nil
}

// CompoundInterest returns P(1 + r/n)^(n*t)
func CompoundInterest(principal, annualRate float64, timesPerYear int, years float64) (float64, error) {
	if err := firstError(
		validateNonNegative("principal", principal),
		validateNonNegative("annual_rate", annualRate),
		validateNonNegative("years", years),
	); err != nil {
		return 0, err
	}
	if timesPerYear <= 0 {
		return 0, domain.Invalid("times_per_year", "compounding frequency must be positive")
	}

	n := float64(timesPerYear)
	return principal * math.Pow(1+annualRate/n, n*years), nil
}

// Retirement projects the savings phase up to retirement and then how long
// a fixed withdrawal lasts while the remaining balance keeps compounding.
func Retirement(in RetirementInput) (*RetirementResult, error) {
	if in.CurrentAge < 0 {
		return nil, domain.Invalid("current_age", "current age cannot be negative")
	}
	if in.RetirementAge <= in.CurrentAge {
		return nil, domain.Invalid("retirement_age", "retirement age must be greater than current age")
	}
	if err := validateYears("retirement_age", in.RetirementAge-in.CurrentAge); err != nil {
		return nil, err
	}
	if err := firstError(
		validateNonNegative("current_savings", in.CurrentSavings),
		validateNonNegative("monthly_contribution", in.MonthlyContribution),
		validateNonNegative("annual_return", in.AnnualReturn),
	); err != nil {
		return nil, err
	}
	if math.IsNaN(in.WithdrawalRate) || in.WithdrawalRate <= 0 || in.WithdrawalRate > 1 {
		return nil, domain.Invalid("withdrawal_rate", "withdrawal rate must be between 0 and 1")
	}

	years := in.RetirementAge - in.CurrentAge
	months := years * 12

	timeline, err := SavingsGrowth(in.CurrentSavings, in.MonthlyContribution, in.AnnualReturn, months)
	if err != nil {
		return nil, err
	}
	balanceAtRetirement := timeline[len(timeline)-1]

	annualWithdrawal := balanceAtRetirement * in.WithdrawalRate
	monthlyWithdrawal := annualWithdrawal / 12
	monthlyReturn := in.AnnualReturn / 12

	balance := balanceAtRetirement
	lasted := 0
	for balance > 0 && lasted < MaxWithdrawalMonths {
		balance = balance*(1+monthlyReturn) - monthlyWithdrawal
		lasted++
	}

	return &RetirementResult{
		YearsToRetirement:     years,
		TotalContributions:    in.MonthlyContribution * float64(months),
		RetirementBalance:     balanceAtRetirement,
		AnnualWithdrawal:      annualWithdrawal,
		MonthlyWithdrawal:     monthlyWithdrawal,
		EstimatedYearsLasting: float64(lasted) / 12,
		SavingsTimeline:       timeline,
	}, nil
}

// Loan computes a fixed monthly payment for a fully amortizing loan
func Loan(amount, annualRate float64, years int) (*LoanResult, error) {
	if err := domain.ValidatePositive("amount", amount); err != nil {
		return nil, err
	}
	if err := validateNonNegative("annual_rate", annualRate); err != nil {
		return nil, err
	}
	if err := validateYears("years", years); err != nil {
		return nil, err
	}

	monthlyRate := annualRate / 12
	payments := years * 12
	n := float64(payments)

	var payment, interest float64
	if monthlyRate == 0 {
		payment = amount / n
	} else {
		growth := math.Pow(1+monthlyRate, n)
		payment = amount * monthlyRate * growth / (growth - 1)
		interest = payment*n - amount
	}

	return &LoanResult{
		Amount:         amount,
		MonthlyPayment: payment,
		TotalInterest:  interest,
		TotalPaid:      amount + interest,
		NumPayments:    payments,
		AnnualRate:     annualRate,
		MonthlyRate:    monthlyRate,
	}, nil
}
