// Package finance implements the expense and savings ledger.
package finance

import "github.com/aristath/alpha/internal/domain"

// ExpensePatch lists the fields an expense update may change
type ExpensePatch struct {
	Date     domain.Optional[string]  `json:"date"`
	Category domain.Optional[string]  `json:"category"`
	Amount   domain.Optional[float64] `json:"amount"`
	Note     domain.Optional[string]  `json:"note"`
}

// SavingsPatch lists the fields a savings update may change
type SavingsPatch struct {
	Date   domain.Optional[string]  `json:"date"`
	Source domain.Optional[string]  `json:"source"`
	Amount domain.Optional[float64] `json:"amount"`
	Note   domain.Optional[string]  `json:"note"`
}

// ExpenseFilter narrows an expense total. A date range takes precedence over a category.
type ExpenseFilter struct {
	Range    domain.DateRange
	Category string
}

// SavingsFilter narrows a savings total. Source and range apply together.
type SavingsFilter struct {
	Range  domain.DateRange
	Source string
}

// NetPosition is savings minus expenses over the same period
type NetPosition struct {
	TotalSavings  float64 `json:"total_savings"`
	TotalExpenses float64 `json:"total_expenses"`
	NetPosition   float64 `json:"net_position"`
}

// CategoryTotal is one line of an expense breakdown
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}
