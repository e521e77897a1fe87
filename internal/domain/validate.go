package domain

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the only accepted date format
const DateLayout = "2006-01-02"

// MaxSymbolLength bounds ticker symbols
const MaxSymbolLength = 20

// ValidateDate checks that value is a real calendar date in YYYY-MM-DD form
func ValidateDate(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Invalid(field, "%s is required", field)
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return Invalid(field, "%s must be in YYYY-MM-DD format", field)
	}
	return nil
}

// ValidatePositive checks that v is a finite number greater than zero
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Invalid(field, "%s must be a positive number", field)
	}
	return nil
}

// ValidateNonEmpty checks that v has content after trimming
func ValidateNonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return Invalid(field, "%s is required and cannot be empty", field)
	}
	return nil
}

// NormalizeSymbol trims, bounds and uppercases a symbol
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return "", Invalid("symbol", "symbol is required and cannot be empty")
	}
	if len(s) > MaxSymbolLength {
		return "", Invalid("symbol", "symbol cannot be longer than %d characters", MaxSymbolLength)
	}
	return strings.ToUpper(s), nil
}

// DateRange is an inclusive YYYY-MM-DD interval. The zero value matches everything.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsZero reports whether no bounds are set
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// Validate requires both bounds or neither, each a valid date, start <= end
func (r DateRange) Validate() error {
	if r.IsZero() {
		return nil
	}
	if err := ValidateDate("start_date", r.Start); err != nil {
		return err
	}
	if err := ValidateDate("end_date", r.End); err != nil {
		return err
	}
	if r.Start > r.End {
		return Invalid("start_date", "start date must be before or equal to end date")
	}
	return nil
}

// Contains reports whether date lies within the range
func (r DateRange) Contains(date string) bool {
	if r.IsZero() {
		return true
	}
	return r.Start <= date && date <= r.End
}
