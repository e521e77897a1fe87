package simulation

import (
	"math"
	"testing"

	"github.com/aristath/alpha/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavingsGrowth(t *testing.T) {
	values, err := SavingsGrowth(1000, 100, 0.12, 2)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, 1000.0, values[0])
	assert.InDelta(t, 1111.0, values[1], 1e-9)
	assert.InDelta(t, 1223.11, values[2], 1e-9)

	flat, err := SavingsGrowth(0, 50, 0, 12)
	require.NoError(t, err)
	assert.InDelta(t, 600.0, flat[12], 1e-9)
}

func TestSavingsGrowth_Validation(t *testing.T) {
	tests := []struct {
		name      string
		initial   float64
		monthly   float64
		rate      float64
		periods   int
		wantField string
	}{
		{"negative initial", -1, 0, 0, 1, "initial"},
		{"negative monthly", 0, -1, 0, 1, "monthly"},
		{"negative rate", 0, 0, -0.01, 1, "annual_rate"},
		{"zero periods", 0, 0, 0, 0, "periods"},
		{"periods above the horizon", 0, 0, 0, MaxMonths + 1, "periods"},
		{"huge periods", 100, 10, 0.05, math.MaxInt / 2, "periods"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SavingsGrowth(tt.initial, tt.monthly, tt.rate, tt.periods)
			require.Error(t, err)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestCompoundInterest(t *testing.T) {
	amount, err := CompoundInterest(1000, 0.05, 12, 10)
	require.NoError(t, err)
	assert.InDelta(t, 1647.01, amount, 0.01)

	same, err := CompoundInterest(1000, 0.05, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, same)

	_, err = CompoundInterest(1000, 0.05, 0, 1)
	assert.True(t, domain.IsValidation(err))
	_, err = CompoundInterest(1000, 0.05, 1, -1)
	assert.True(t, domain.IsValidation(err))
}

func TestRetirement(t *testing.T) {
	result, err := Retirement(RetirementInput{
		CurrentAge:     64,
		RetirementAge:  65,
		CurrentSavings: 120000,
		WithdrawalRate: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.YearsToRetirement)
	assert.Len(t, result.SavingsTimeline, 13)
	assert.Equal(t, 120000.0, result.RetirementBalance)
	assert.Equal(t, 120000.0, result.AnnualWithdrawal)
	assert.Equal(t, 10000.0, result.MonthlyWithdrawal)
	assert.Equal(t, 1.0, result.EstimatedYearsLasting)
	assert.Equal(t, 0.0, result.TotalContributions)
}

func TestRetirement_Capped(t *testing.T) {
	// Returns outpace withdrawals, so the balance never runs out
	result, err := Retirement(RetirementInput{
		CurrentAge:          30,
		RetirementAge:       40,
		CurrentSavings:      10000,
		MonthlyContribution: 500,
		AnnualReturn:        0.08,
		WithdrawalRate:      0.04,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.EstimatedYearsLasting)
	assert.Equal(t, 60000.0, result.TotalContributions)
	assert.Greater(t, result.RetirementBalance, 70000.0)
}

func TestRetirement_Validation(t *testing.T) {
	valid := RetirementInput{CurrentAge: 30, RetirementAge: 65, WithdrawalRate: 0.04}

	tests := []struct {
		name   string
		mutate func(*RetirementInput)
	}{
		{"retirement not after current", func(in *RetirementInput) { in.RetirementAge = 30 }},
		{"negative current age", func(in *RetirementInput) { in.CurrentAge = -1 }},
		{"horizon above the cap", func(in *RetirementInput) { in.RetirementAge = in.CurrentAge + MaxMonths/12 + 1 }},
		{"month count would overflow", func(in *RetirementInput) { in.RetirementAge = math.MaxInt }},
		{"negative savings", func(in *RetirementInput) { in.CurrentSavings = -1 }},
		{"negative contribution", func(in *RetirementInput) { in.MonthlyContribution = -1 }},
		{"negative return", func(in *RetirementInput) { in.AnnualReturn = -0.1 }},
		{"zero withdrawal", func(in *RetirementInput) { in.WithdrawalRate = 0 }},
		{"withdrawal above one", func(in *RetirementInput) { in.WithdrawalRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := Retirement(in)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestLoan(t *testing.T) {
	result, err := Loan(100000, 0.06, 30)
	require.NoError(t, err)
	assert.InDelta(t, 599.55, result.MonthlyPayment, 0.01)
	assert.Equal(t, 360, result.NumPayments)
	assert.InDelta(t, 0.005, result.MonthlyRate, 1e-12)
	assert.InDelta(t, result.MonthlyPayment*360, result.TotalPaid, 1e-6)
	assert.InDelta(t, result.TotalPaid-100000, result.TotalInterest, 1e-6)

	free, err := Loan(12000, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, free.MonthlyPayment)
	assert.Equal(t, 0.0, free.TotalInterest)
	assert.Equal(t, 12000.0, free.TotalPaid)
}

func TestLoan_Validation(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		rate      float64
		years     int
		wantField string
	}{
		{"zero amount", 0, 0.05, 10, "amount"},
		{"negative rate", 1000, -0.05, 10, "annual_rate"},
		{"zero term", 1000, 0.05, 0, "years"},
		{"term above the cap", 1000, 0.05, MaxMonths/12 + 1, "years"},
		{"month count would overflow", 1000, 0, math.MaxInt / 6, "years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Loan(tt.amount, tt.rate, tt.years)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}

	longest, err := Loan(1000, 0, MaxMonths/12)
	require.NoError(t, err)
	assert.Equal(t, MaxMonths, longest.NumPayments)
}
