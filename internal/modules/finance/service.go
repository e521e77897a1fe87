package finance

import (
	"context"
	"fmt"
	"strings"

	"github.com/aristath/alpha/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ExpenseStore is the persistence surface the ledger needs for expenses
type ExpenseStore interface {
	Create(ctx context.Context, e domain.Expense) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Expense, error)
	List(ctx context.Context, page domain.Page) ([]domain.Expense, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Expense, error)
	ListByDateRange(ctx context.Context, dr domain.DateRange) ([]domain.Expense, error)
	Update(ctx context.Context, id int64, patch ExpensePatch) error
	Delete(ctx context.Context, id int64) error
}

// SavingsStore is the persistence surface the ledger needs for savings
type SavingsStore interface {
	Create(ctx context.Context, s domain.Savings) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Savings, error)
	List(ctx context.Context, page domain.Page) ([]domain.Savings, error)
	ListBySource(ctx context.Context, source string) ([]domain.Savings, error)
	ListByDateRange(ctx context.Context, dr domain.DateRange) ([]domain.Savings, error)
	Update(ctx context.Context, id int64, patch SavingsPatch) error
	Delete(ctx context.Context, id int64) error
}

var (
	_ ExpenseStore = (*ExpenseRepository)(nil)
	_ SavingsStore = (*SavingsRepository)(nil)
)

// Service is the personal finance ledger.
//
// Every write validates its input before touching storage. Updates and
// deletes check that the target row exists first, so a missing id never
// causes a partial mutation.
type Service struct {
	expenses ExpenseStore
	savings  SavingsStore
	log      zerolog.Logger
}

// NewService creates a new finance service
func NewService(expenses ExpenseStore, savings SavingsStore, log zerolog.Logger) *Service {
	return &Service{
		expenses: expenses,
		savings:  savings,
		log:      log.With().Str("service", "finance").Logger(),
	}
}

func validateExpense(e domain.Expense) error {
	if err := domain.ValidateDate("date", e.Date); err != nil {
		return err
	}
	if err := domain.ValidateNonEmpty("category", e.Category); err != nil {
		return err
	}
	return domain.ValidatePositive("amount", e.Amount)
}

func validateSavings(s domain.Savings) error {
	if err := domain.ValidateDate("date", s.Date); err != nil {
		return err
	}
	if err := domain.ValidateNonEmpty("source", s.Source); err != nil {
		return err
	}
	return domain.ValidatePositive("amount", s.Amount)
}

// validateRange requires a fully specified, ordered range
func validateRange(dr domain.DateRange) error {
	if dr.IsZero() {
		return domain.Invalid("start_date", "start_date and end_date are required")
	}
	return dr.Validate()
}

// AddExpense validates and stores an expense, returning its id
func (s *Service) AddExpense(ctx context.Context, e domain.Expense) (int64, error) {
	if err := validateExpense(e); err != nil {
		return 0, err
	}
	e.Category = strings.TrimSpace(e.Category)

	id, err := s.expenses.Create(ctx, e)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Int64("id", id).
		Str("category", e.Category).
		Float64("amount", e.Amount).
		Msg("Added expense")
	return id, nil
}

// UpdateExpense applies the supplied fields of patch to an existing expense
func (s *Service) UpdateExpense(ctx context.Context, id int64, patch ExpensePatch) error {
	if v, ok := patch.Date.Get(); ok {
		if err := domain.ValidateDate("date", v); err != nil {
			return err
		}
	}
	if v, ok := patch.Category.Get(); ok {
		if err := domain.ValidateNonEmpty("category", v); err != nil {
			return err
		}
		patch.Category = domain.Set(strings.TrimSpace(v))
	}
	if v, ok := patch.Amount.Get(); ok {
		if err := domain.ValidatePositive("amount", v); err != nil {
			return err
		}
	}

	existing, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("expense", id)
	}

	if err := s.expenses.Update(ctx, id, patch); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("Updated expense")
	return nil
}

// DeleteExpense removes an existing expense
func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	existing, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("expense", id)
	}

	if err := s.expenses.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("Deleted expense")
	return nil
}

// GetExpense returns one expense or a not-found error
func (s *Service) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	e, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFound("expense", id)
	}
	return e, nil
}

// ListExpenses returns expenses newest first
func (s *Service) ListExpenses(ctx context.Context, page domain.Page) ([]domain.Expense, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.expenses.List(ctx, page)
}

// ExpensesByCategory returns the expenses recorded under category
func (s *Service) ExpensesByCategory(ctx context.Context, category string) ([]domain.Expense, error) {
	if err := domain.ValidateNonEmpty("category", category); err != nil {
		return nil, err
	}
	return s.expenses.ListByCategory(ctx, strings.TrimSpace(category))
}

// ExpensesByDateRange returns expenses dated within the inclusive range
func (s *Service) ExpensesByDateRange(ctx context.Context, dr domain.DateRange) ([]domain.Expense, error) {
	if err := validateRange(dr); err != nil {
		return nil, err
	}
	return s.expenses.ListByDateRange(ctx, dr)
}

// AddSavings validates and stores a savings record, returning its id
func (s *Service) AddSavings(ctx context.Context, rec domain.Savings) (int64, error) {
	if err := validateSavings(rec); err != nil {
		return 0, err
	}
	rec.Source = strings.TrimSpace(rec.Source)

	id, err := s.savings.Create(ctx, rec)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Int64("id", id).
		Str("source", rec.Source).
		Float64("amount", rec.Amount).
		Msg("Added savings")
	return id, nil
}

// UpdateSavings applies the supplied fields of patch to an existing savings record
func (s *Service) UpdateSavings(ctx context.Context, id int64, patch SavingsPatch) error {
	if v, ok := patch.Date.Get(); ok {
		if err := domain.ValidateDate("date", v); err != nil {
			return err
		}
	}
	if v, ok := patch.Source.Get(); ok {
		if err := domain.ValidateNonEmpty("source", v); err != nil {
			return err
		}
		patch.Source = domain.Set(strings.TrimSpace(v))
	}
	if v, ok := patch.Amount.Get(); ok {
		if err := domain.ValidatePositive("amount", v); err != nil {
			return err
		}
	}

	existing, err := s.savings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("savings", id)
	}

	if err := s.savings.Update(ctx, id, patch); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("Updated savings")
	return nil
}

// DeleteSavings removes an existing savings record
func (s *Service) DeleteSavings(ctx context.Context, id int64) error {
	existing, err := s.savings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("savings", id)
	}

	if err := s.savings.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Msg("Deleted savings")
	return nil
}

// GetSavings returns one savings record or a not-found error
func (s *Service) GetSavings(ctx context.Context, id int64) (*domain.Savings, error) {
	rec, err := s.savings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.NotFound("savings", id)
	}
	return rec, nil
}

// ListSavings returns savings newest first
func (s *Service) ListSavings(ctx context.Context, page domain.Page) ([]domain.Savings, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.savings.List(ctx, page)
}

// SavingsBySource returns the savings recorded under source
func (s *Service) SavingsBySource(ctx context.Context, source string) ([]domain.Savings, error) {
	if err := domain.ValidateNonEmpty("source", source); err != nil {
		return nil, err
	}
	return s.savings.ListBySource(ctx, strings.TrimSpace(source))
}

// SavingsByDateRange returns savings dated within the inclusive range
func (s *Service) SavingsByDateRange(ctx context.Context, dr domain.DateRange) ([]domain.Savings, error) {
	if err := validateRange(dr); err != nil {
		return nil, err
	}
	return s.savings.ListByDateRange(ctx, dr)
}

// ExpenseTotal sums expenses. A date range takes precedence over a category;
// an empty filter sums everything.
func (s *Service) ExpenseTotal(ctx context.Context, filter ExpenseFilter) (float64, error) {
	expenses, err := s.filterExpenses(ctx, filter)
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total.InexactFloat64(), nil
}

func (s *Service) filterExpenses(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, error) {
	switch {
	case !filter.Range.IsZero():
		return s.ExpensesByDateRange(ctx, filter.Range)
	case strings.TrimSpace(filter.Category) != "":
		return s.ExpensesByCategory(ctx, filter.Category)
	default:
		return s.expenses.List(ctx, domain.Page{})
	}
}

// SavingsTotal sums savings. Source and range apply together when both are set.
func (s *Service) SavingsTotal(ctx context.Context, filter SavingsFilter) (float64, error) {
	var (
		records []domain.Savings
		err     error
	)
	if filter.Range.IsZero() {
		records, err = s.savings.List(ctx, domain.Page{})
	} else {
		records, err = s.SavingsByDateRange(ctx, filter.Range)
	}
	if err != nil {
		return 0, err
	}

	source := strings.TrimSpace(filter.Source)
	total := decimal.Zero
	for _, rec := range records {
		if source != "" && rec.Source != source {
			continue
		}
		total = total.Add(decimal.NewFromFloat(rec.Amount))
	}
	return total.InexactFloat64(), nil
}

// NetPosition returns savings minus expenses over the same range. A zero
// range covers all records.
func (s *Service) NetPosition(ctx context.Context, dr domain.DateRange) (*NetPosition, error) {
	if err := dr.Validate(); err != nil {
		return nil, err
	}

	savings, err := s.SavingsTotal(ctx, SavingsFilter{Range: dr})
	if err != nil {
		return nil, fmt.Errorf("failed to total savings: %w", err)
	}
	expenses, err := s.ExpenseTotal(ctx, ExpenseFilter{Range: dr})
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}

	net := decimal.NewFromFloat(savings).Sub(decimal.NewFromFloat(expenses))
	return &NetPosition{
		TotalSavings:  savings,
		TotalExpenses: expenses,
		NetPosition:   net.InexactFloat64(),
	}, nil
}

// ExpenseBreakdown groups expenses by category. Categories appear in the
// order they are first met in the newest-first listing.
func (s *Service) ExpenseBreakdown(ctx context.Context, dr domain.DateRange) ([]CategoryTotal, error) {
	expenses, err := s.filterExpenses(ctx, ExpenseFilter{Range: dr})
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	sums := make([]decimal.Decimal, 0)
	breakdown := make([]CategoryTotal, 0)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(breakdown)
			index[e.Category] = i
			breakdown = append(breakdown, CategoryTotal{Category: e.Category})
			sums = append(sums, decimal.Zero)
		}
		sums[i] = sums[i].Add(decimal.NewFromFloat(e.Amount))
		breakdown[i].Count++
	}
	for i := range breakdown {
		breakdown[i].Total = sums[i].InexactFloat64()
	}
	return breakdown, nil
}
