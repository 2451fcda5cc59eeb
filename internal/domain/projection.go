package domain

import (
	"github.com/shopspring/decimal"
)

// ComputedValue is one derived cashflow event of an account in the target
// year. Values are created fresh on every computation.
type ComputedValue struct {
	Key        string          `json:"key" yaml:"key"`
	Month      int             `json:"month" yaml:"month"`
	Name       string          `json:"name" yaml:"name"`
	Value      decimal.Decimal `json:"value" yaml:"value"`
	IsVerified bool            `json:"is_verified" yaml:"is_verified"`
	IsTransfer bool            `json:"is_transfer" yaml:"is_transfer"`
}

// AccountForecast is the result of projecting one account for one year.
type AccountForecast struct {
	AccountID          int             `json:"account_id" yaml:"account_id"`
	AccountName        string          `json:"account_name" yaml:"account_name"`
	Year               int             `json:"year" yaml:"year"`
	ComputedStartValue decimal.Decimal `json:"computed_start_value" yaml:"computed_start_value"`
	ComputedValues     []ComputedValue `json:"computed_values" yaml:"computed_values"`
	// Flat monthly payment predicted per card id
	PredictedCreditCardPayments map[int]decimal.Decimal `json:"predicted_credit_card_payments" yaml:"predicted_credit_card_payments"`
}

// Total returns the start value plus every computed value.
func (f *AccountForecast) Total() decimal.Decimal {
	total := f.ComputedStartValue
	for _, v := range f.ComputedValues {
		total = total.Add(v.Value)
	}
	return total
}

// ForecastReport bundles the forecasts of one run for the output formatters.
type ForecastReport struct {
	Year                 int               `json:"year" yaml:"year"`
	FiscalYearStartMonth int               `json:"fiscal_year_start_month" yaml:"fiscal_year_start_month"`
	Currency             string            `json:"currency" yaml:"currency"`
	Forecasts            []AccountForecast `json:"forecasts" yaml:"forecasts"`
	// Rendered by the detailed formatters; defaults apply when empty
	Assumptions []string `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`
}

// DeductionBreakdown is one projected month of an income definition.
type DeductionBreakdown struct {
	Year        int             `json:"year" yaml:"year"`
	Month       int             `json:"month" yaml:"month"`
	Gross       decimal.Decimal `json:"gross" yaml:"gross"`
	Pension     decimal.Decimal `json:"pension" yaml:"pension"`
	Tax         decimal.Decimal `json:"tax" yaml:"tax"`
	NI          decimal.Decimal `json:"ni" yaml:"ni"`
	StudentLoan decimal.Decimal `json:"student_loan" yaml:"student_loan"`
	Net         decimal.Decimal `json:"net" yaml:"net"`
}
