package domain

import "github.com/shopspring/decimal"

// Statutory parameter names. Amounts are minor units and rates are fractions.
// Income tax and student loan thresholds are annual; the NI thresholds are
// monthly.
const (
	ParamTaxBasicRate           = "taxBasicRate"
	ParamTaxHigherRate          = "taxHigherRate"
	ParamTaxAdditionalRate      = "taxAdditionalRate"
	ParamTaxBasicAllowance      = "taxBasicAllowance"
	ParamTaxAdditionalThreshold = "taxAdditionalThreshold"
	ParamNIPrimaryThreshold     = "niPrimaryThreshold"
	ParamNIUpperEarningsLimit   = "niUpperEarningsLimit"
	ParamNILowerRate            = "niLowerRate"
	ParamNIHigherRate           = "niHigherRate"
	ParamStudentLoanRate        = "studentLoanRate"
	ParamStudentLoanThreshold   = "studentLoanThreshold"
)

// ParameterRow is a named statutory rate or threshold for one financial year.
type ParameterRow struct {
	Year  int             `yaml:"year" json:"year" toml:"year"`
	Name  string          `yaml:"name" json:"name" toml:"name"`
	Value decimal.Decimal `yaml:"value" json:"value" toml:"value"`
}

type parameterKey struct {
	year int
	name string
}

// ParameterTable is an immutable (year, name) lookup over parameter rows.
type ParameterTable struct {
	values map[parameterKey]decimal.Decimal
}

// NewParameterTable indexes rows; a later row for the same key wins.
func NewParameterTable(rows []ParameterRow) ParameterTable {
	values := make(map[parameterKey]decimal.Decimal, len(rows))
	for _, r := range rows {
		values[parameterKey{r.Year, r.Name}] = r.Value
	}
	return ParameterTable{values: values}
}

// Value returns the parameter, or zero when the row is absent.
func (t ParameterTable) Value(year int, name string) decimal.Decimal {
	return t.values[parameterKey{year, name}]
}

// Has reports whether a row exists for (year, name).
func (t ParameterTable) Has(year int, name string) bool {
	_, ok := t.values[parameterKey{year, name}]
	return ok
}

// IncomeTaxBands groups the annual income tax rates and thresholds of a year.
type IncomeTaxBands struct {
	BasicRate           decimal.Decimal
	HigherRate          decimal.Decimal
	AdditionalRate      decimal.Decimal
	BasicAllowance      decimal.Decimal
	AdditionalThreshold decimal.Decimal
}

// IncomeTaxBands reads the income tax parameters of a year.
func (t ParameterTable) IncomeTaxBands(year int) IncomeTaxBands {
	return IncomeTaxBands{
		BasicRate:           t.Value(year, ParamTaxBasicRate),
		HigherRate:          t.Value(year, ParamTaxHigherRate),
		AdditionalRate:      t.Value(year, ParamTaxAdditionalRate),
		BasicAllowance:      t.Value(year, ParamTaxBasicAllowance),
		AdditionalThreshold: t.Value(year, ParamTaxAdditionalThreshold),
	}
}

// ContributionRules holds NI-style parameters; thresholds are monthly amounts.
type ContributionRules struct {
	Threshold  decimal.Decimal
	UpperLimit decimal.Decimal
	LowerRate  decimal.Decimal
	HigherRate decimal.Decimal
}

// ContributionRules reads the NI parameters of a year.
func (t ParameterTable) ContributionRules(year int) ContributionRules {
	return ContributionRules{
		Threshold:  t.Value(year, ParamNIPrimaryThreshold),
		UpperLimit: t.Value(year, ParamNIUpperEarningsLimit),
		LowerRate:  t.Value(year, ParamNILowerRate),
		HigherRate: t.Value(year, ParamNIHigherRate),
	}
}

// RepaymentRules holds student-loan-style parameters with an annual threshold.
type RepaymentRules struct {
	Rate      decimal.Decimal
	Threshold decimal.Decimal
}

// RepaymentRules reads the student loan parameters of a year.
func (t ParameterTable) RepaymentRules(year int) RepaymentRules {
	return RepaymentRules{
		Rate:      t.Value(year, ParamStudentLoanRate),
		Threshold: t.Value(year, ParamStudentLoanThreshold),
	}
}
