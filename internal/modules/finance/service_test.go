package finance

import (
	"context"
	"math"
	"testing"

	"github.com/aristath/alpha/internal/domain"
	testingpkg "github.com/aristath/alpha/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testingpkg.NewMemoryDB(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewService(NewExpenseRepository(db, log), NewSavingsRepository(db, log), log)
}

func seedLedger(t *testing.T, s *Service) {
	t.Helper()
	ctx := context.Background()
	for _, e := range testingpkg.NewExpenseFixtures() {
		_, err := s.AddExpense(ctx, e)
		require.NoError(t, err)
	}
	for _, rec := range testingpkg.NewSavingsFixtures() {
		_, err := s.AddSavings(ctx, rec)
		require.NoError(t, err)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	tests := []struct {
		name    string
		expense domain.Expense
		field   string
	}{
		{"bad date format", domain.Expense{Date: "15/01/2024", Category: "Food", Amount: 10}, "date"},
		{"impossible date", domain.Expense{Date: "2024-02-30", Category: "Food", Amount: 10}, "date"},
		{"missing date", domain.Expense{Category: "Food", Amount: 10}, "date"},
		{"blank category", domain.Expense{Date: "2024-01-01", Category: "   ", Amount: 10}, "category"},
		{"zero amount", domain.Expense{Date: "2024-01-01", Category: "Food", Amount: 0}, "amount"},
		{"negative amount", domain.Expense{Date: "2024-01-01", Category: "Food", Amount: -5}, "amount"},
		{"NaN amount", domain.Expense{Date: "2024-01-01", Category: "Food", Amount: math.NaN()}, "amount"},
		{"infinite amount", domain.Expense{Date: "2024-01-01", Category: "Food", Amount: math.Inf(1)}, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			ctx := context.Background()

			_, err := s.AddExpense(ctx, tt.expense)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			all, err := s.ListExpenses(ctx, domain.Page{})
			require.NoError(t, err)
			assert.Empty(t, all, "nothing reaches storage")
		})
	}
}

func TestAddExpense_TrimsCategory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	id, err := s.AddExpense(ctx, domain.Expense{Date: "2024-01-01", Category: "  Food ", Amount: 3})
	require.NoError(t, err)

	got, err := s.GetExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Category)
}

func TestUpdateExpense_NotFound(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	err := s.UpdateExpense(ctx, 12345, ExpensePatch{Amount: domain.Set(10.0)})
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "expense with ID 12345 not found", err.Error())

	all, err := s.ListExpenses(ctx, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, all, "no row created")
}

func TestUpdateExpense_ValidatesOnlySuppliedFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	id, err := s.AddExpense(ctx, domain.Expense{Date: "2024-01-01", Category: "Food", Amount: 10, Note: "a"})
	require.NoError(t, err)

	err = s.UpdateExpense(ctx, id, ExpensePatch{Amount: domain.Set(-1.0)})
	assert.True(t, domain.IsValidation(err))

	err = s.UpdateExpense(ctx, id, ExpensePatch{Date: domain.Set("2024-13-01")})
	assert.True(t, domain.IsValidation(err))

	got, err := s.GetExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Amount, "rejected updates leave the row untouched")

	require.NoError(t, s.UpdateExpense(ctx, id, ExpensePatch{Category: domain.Set(" Groceries "), Note: domain.Set("b")}))
	got, err = s.GetExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Category)
	assert.Equal(t, "b", got.Note)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Equal(t, 10.0, got.Amount)
}

func TestDeleteAndGet_NotFound(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	assert.True(t, domain.IsNotFound(s.DeleteExpense(ctx, 1)))
	assert.True(t, domain.IsNotFound(s.DeleteSavings(ctx, 1)))

	_, err := s.GetExpense(ctx, 1)
	assert.True(t, domain.IsNotFound(err))
	_, err = s.GetSavings(ctx, 1)
	assert.True(t, domain.IsNotFound(err))

	err = s.UpdateSavings(ctx, 1, SavingsPatch{Note: domain.Set("x")})
	assert.True(t, domain.IsNotFound(err))
}

func TestAddSavings_Validation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.AddSavings(ctx, domain.Savings{Date: "2024-01-01", Source: "", Amount: 10})
	assert.True(t, domain.IsValidation(err))

	_, err = s.AddSavings(ctx, domain.Savings{Date: "2024-01-01", Source: "Salary", Amount: -10})
	assert.True(t, domain.IsValidation(err))

	id, err := s.AddSavings(ctx, domain.Savings{Date: "2024-01-01", Source: "Salary", Amount: 10})
	require.NoError(t, err)
	require.NoError(t, s.DeleteSavings(ctx, id))
}

func TestExpensesByDateRange_Validation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		dr   domain.DateRange
	}{
		{"empty", domain.DateRange{}},
		{"start after end", domain.DateRange{Start: "2024-02-01", End: "2024-01-01"}},
		{"missing end", domain.DateRange{Start: "2024-02-01"}},
		{"bad format", domain.DateRange{Start: "2024/01/01", End: "2024-02-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ExpensesByDateRange(ctx, tt.dr)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestExpenseTotal(t *testing.T) {
	s := newTestService(t)
	seedLedger(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ExpenseFilter
		want   float64
	}{
		{"everything", ExpenseFilter{}, 1196.50},
		{"by category", ExpenseFilter{Category: "Food"}, 201.00},
		{"by range", ExpenseFilter{Range: domain.DateRange{Start: "2024-01-01", End: "2024-01-31"}}, 165.75},
		{
			"range wins over category",
			ExpenseFilter{Category: "Rent", Range: domain.DateRange{Start: "2024-02-02", End: "2024-02-28"}},
			80.75,
		},
		{"unknown category", ExpenseFilter{Category: "Travel"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ExpenseTotal(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSavingsTotal(t *testing.T) {
	s := newTestService(t)
	seedLedger(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter SavingsFilter
		want   float64
	}{
		{"everything", SavingsFilter{}, 2250},
		{"by source", SavingsFilter{Source: "Salary"}, 2000},
		{"source and range together", SavingsFilter{Source: "Salary", Range: domain.DateRange{Start: "2024-02-01", End: "2024-02-29"}}, 1000},
		{"range only", SavingsFilter{Range: domain.DateRange{Start: "2024-02-01", End: "2024-02-29"}}, 1250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SavingsTotal(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNetPosition(t *testing.T) {
	s := newTestService(t)
	seedLedger(t, s)
	ctx := context.Background()

	net, err := s.NetPosition(ctx, domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 2250.0, net.TotalSavings)
	assert.Equal(t, 1196.5, net.TotalExpenses)
	assert.Equal(t, 1053.5, net.NetPosition)

	feb, err := s.NetPosition(ctx, domain.DateRange{Start: "2024-02-01", End: "2024-02-29"})
	require.NoError(t, err)
	assert.Equal(t, 1250.0, feb.TotalSavings)
	assert.Equal(t, 1030.75, feb.TotalExpenses)
	assert.Equal(t, 219.25, feb.NetPosition)

	_, err = s.NetPosition(ctx, domain.DateRange{Start: "2024-03-01"})
	assert.True(t, domain.IsValidation(err))
}

func TestExpenseBreakdown_FirstAppearanceOrder(t *testing.T) {
	s := newTestService(t)
	seedLedger(t, s)

	got, err := s.ExpenseBreakdown(context.Background(), domain.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, []CategoryTotal{
		{Category: "Food", Total: 201.00, Count: 2},
		{Category: "Rent", Total: 950.00, Count: 1},
		{Category: "Transport", Total: 45.50, Count: 1},
	}, got)
}

func TestExpenseBreakdown_Empty(t *testing.T) {
	s := newTestService(t)

	got, err := s.ExpenseBreakdown(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
