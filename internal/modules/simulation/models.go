package simulation

// SavingsGrowthInput is the request for a savings projection
type SavingsGrowthInput struct {
	Initial    float64 `json:"initial"`
	Monthly    float64 `json:"monthly"`
	AnnualRate float64 `json:"annual_rate"`
	Periods    int     `json:"periods"`
}

// SavingsGrowthResult holds the monthly balances
type SavingsGrowthResult struct {
	Values     []float64 `json:"values"`
	FinalValue float64   `json:"final_value"`
}

// CompoundInterestInput is the request for a compound interest projection
type CompoundInterestInput struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annual_rate"`
	TimesPerYear int     `json:"times_per_year"`
	Years        float64 `json:"years"`
}

// CompoundInterestResult is the final amount and the interest earned
type CompoundInterestResult struct {
	Amount   float64 `json:"amount"`
	Interest float64 `json:"interest"`
}

// RetirementInput describes a saver's situation
type RetirementInput struct {
	CurrentAge          int     `json:"current_age"`
	RetirementAge       int     `json:"retirement_age"`
	CurrentSavings      float64 `json:"current_savings"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualReturn        float64 `json:"annual_return"`
	WithdrawalRate      float64 `json:"withdrawal_rate"`
}

// RetirementResult summarizes both phases of a retirement projection
type RetirementResult struct {
	YearsToRetirement     int       `json:"years_to_retirement"`
	TotalContributions    float64   `json:"total_contributions"`
	RetirementBalance     float64   `json:"retirement_balance"`
	AnnualWithdrawal      float64   `json:"annual_withdrawal"`
	MonthlyWithdrawal     float64   `json:"monthly_withdrawal"`
	EstimatedYearsLasting float64   `json:"estimated_years_lasting"`
	SavingsTimeline       []float64 `json:"savings_timeline"`
}

// LoanInput is the request for a loan calculation
type LoanInput struct {
	Amount     float64 `json:"amount"`
	AnnualRate float64 `json:"annual_rate"`
	Years      int     `json:"years"`
}

// LoanResult is the amortization outcome
type LoanResult struct {
	Amount         float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalInterest  float64 `json:"total_interest"`
	TotalPaid      float64 `json:"total_paid"`
	NumPayments    int     `json:"num_payments"`
	AnnualRate     float64 `json:"interest_rate_annual"`
	MonthlyRate    float64 `json:"interest_rate_monthly"`
}
