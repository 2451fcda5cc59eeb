package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeDefinition is one employment or income stream attached to an account.
type IncomeDefinition struct {
	AccountID   int             `yaml:"account_id,omitempty" json:"account_id" toml:"account_id,omitempty"`
	AccountName string          `yaml:"account_name,omitempty" json:"account_name" toml:"account_name,omitempty"`
	Salary      decimal.Decimal `yaml:"salary" json:"salary" toml:"salary"` // Annual, minor units
	StartDate   time.Time       `yaml:"start_date" json:"start_date" toml:"start_date"`
	EndDate     time.Time       `yaml:"end_date" json:"end_date" toml:"end_date"`
	TaxCode     string          `yaml:"tax_code" json:"tax_code" toml:"tax_code"`
	StudentLoan bool            `yaml:"student_loan" json:"student_loan" toml:"student_loan"`
	// Salary-sacrifice pension rate as a fraction of gross
	PensionContrib decimal.Decimal `yaml:"pension_contrib" json:"pension_contrib" toml:"pension_contrib"`
}

// ActiveEnd returns the effective end date; a zero end date means the stream
// continues until limit.
func (d IncomeDefinition) ActiveEnd(limit time.Time) time.Time {
	if d.EndDate.IsZero() || d.EndDate.After(limit) {
		return limit
	}
	return d.EndDate
}

// RecordedIncomeRow is one line of an actual income transaction. Several rows
// share a transaction when a gross payment has several deductions.
type RecordedIncomeRow struct {
	TransactionID   *int            `yaml:"transaction_id,omitempty" json:"transaction_id,omitempty" toml:"transaction_id,omitempty"`
	AccountID       int             `yaml:"account_id" json:"account_id" toml:"account_id"`
	Date            time.Time       `yaml:"date" json:"date" toml:"date"`
	Year            int             `yaml:"year" json:"year" toml:"year"`
	Month           int             `yaml:"month" json:"month" toml:"month"`
	AccountItemName string          `yaml:"account_item_name" json:"account_item_name" toml:"account_item_name"`
	Gross           decimal.Decimal `yaml:"gross" json:"gross" toml:"gross"`
	DeductionName   string          `yaml:"deduction_name,omitempty" json:"deduction_name,omitempty" toml:"deduction_name,omitempty"`
	DeductionValue  decimal.Decimal `yaml:"deduction_value,omitempty" json:"deduction_value,omitempty" toml:"deduction_value,omitempty"`
}

// HasDeduction reports whether the row carries a named deduction.
func (r RecordedIncomeRow) HasDeduction() bool {
	return r.DeductionName != ""
}
