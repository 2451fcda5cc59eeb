package domain

const (
	DefaultFiscalYearStartMonth   = 3 // April
	DefaultSalarySacrificePattern = `(?i)pension|sacrifice`
	DefaultTaxDeductiblePattern   = `(?i)sipp|pension contribution|gift aid`
	DefaultCurrency               = "GBP"
)

// Account is an account with the income streams paid into it.
type Account struct {
	ID      int                `yaml:"id" json:"id" toml:"id"`
	Name    string             `yaml:"name" json:"name" toml:"name"`
	Incomes []IncomeDefinition `yaml:"incomes,omitempty" json:"incomes,omitempty" toml:"incomes,omitempty"`
	// Household bills are paid from this account; unset means true
	IncludeBills *bool `yaml:"include_bills,omitempty" json:"include_bills,omitempty" toml:"include_bills,omitempty"`
}

// BillsIncluded reports whether bills rows apply to the account.
func (a Account) BillsIncluded() bool {
	return a.IncludeBills == nil || *a.IncludeBills
}

// Configuration is the on-disk input document of the forecast CLI.
type Configuration struct {
	FiscalYearStartMonth   *int   `yaml:"fiscal_year_start_month,omitempty" json:"fiscal_year_start_month,omitempty" toml:"fiscal_year_start_month,omitempty"`
	TaxReliefMonth         *int   `yaml:"tax_relief_month,omitempty" json:"tax_relief_month,omitempty" toml:"tax_relief_month,omitempty"`
	SalarySacrificePattern string `yaml:"salary_sacrifice_pattern,omitempty" json:"salary_sacrifice_pattern,omitempty" toml:"salary_sacrifice_pattern,omitempty"`
	TaxDeductiblePattern   string `yaml:"tax_deductible_pattern,omitempty" json:"tax_deductible_pattern,omitempty" toml:"tax_deductible_pattern,omitempty"`
	Currency               string `yaml:"currency,omitempty" json:"currency,omitempty" toml:"currency,omitempty"`

	Accounts           []Account              `yaml:"accounts" json:"accounts" toml:"accounts"`
	Parameters         []ParameterRow         `yaml:"parameters" json:"parameters" toml:"parameters"`
	RecordedIncome     []RecordedIncomeRow    `yaml:"recorded_income,omitempty" json:"recorded_income,omitempty" toml:"recorded_income,omitempty"`
	ExplicitValues     []ExplicitValueRow     `yaml:"explicit_values,omitempty" json:"explicit_values,omitempty" toml:"explicit_values,omitempty"`
	Bills              []BillsRow             `yaml:"bills,omitempty" json:"bills,omitempty" toml:"bills,omitempty"`
	LatestActualValues []LatestActualValue    `yaml:"latest_actual_values,omitempty" json:"latest_actual_values,omitempty" toml:"latest_actual_values,omitempty"`
	CreditCardPayments []CreditCardPaymentRow `yaml:"credit_card_payments,omitempty" json:"credit_card_payments,omitempty" toml:"credit_card_payments,omitempty"`
	CreditCardAverages []CreditCardAverageRow `yaml:"credit_card_averages,omitempty" json:"credit_card_averages,omitempty" toml:"credit_card_averages,omitempty"`
}

// EngineSettings are the configuration knobs of the forecast engine.
type EngineSettings struct {
	FiscalYearStartMonth   int
	TaxReliefMonth         int
	SalarySacrificePattern string
	TaxDeductiblePattern   string
}

// DefaultEngineSettings returns the settings used when nothing is configured.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		FiscalYearStartMonth:   DefaultFiscalYearStartMonth,
		TaxReliefMonth:         DefaultFiscalYearStartMonth,
		SalarySacrificePattern: DefaultSalarySacrificePattern,
		TaxDeductiblePattern:   DefaultTaxDeductiblePattern,
	}
}

// Settings resolves the engine settings, applying defaults for unset fields.
// The tax relief month defaults to the fiscal year start month.
func (c *Configuration) Settings() EngineSettings {
	s := DefaultEngineSettings()
	if c.FiscalYearStartMonth != nil {
		s.FiscalYearStartMonth = *c.FiscalYearStartMonth
	}
	s.TaxReliefMonth = s.FiscalYearStartMonth
	if c.TaxReliefMonth != nil {
		s.TaxReliefMonth = *c.TaxReliefMonth
	}
	if c.SalarySacrificePattern != "" {
		s.SalarySacrificePattern = c.SalarySacrificePattern
	}
	if c.TaxDeductiblePattern != "" {
		s.TaxDeductiblePattern = c.TaxDeductiblePattern
	}
	return s
}

// CurrencyCode returns the configured reporting currency.
func (c *Configuration) CurrencyCode() string {
	if c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// Rows returns the row tables of the document. Income definitions are joined
// with their account metadata.
func (c *Configuration) Rows() RowSet {
	return RowSet{
		Parameters:         c.Parameters,
		RecordedIncome:     c.RecordedIncome,
		ExplicitValues:     c.ExplicitValues,
		Bills:              c.Bills,
		LatestActualValues: c.LatestActualValues,
		CreditCardPayments: c.CreditCardPayments,
		CreditCardAverages: c.CreditCardAverages,
	}
}

// AccountIncomes returns the account's income definitions with account id and
// name filled in.
func (a Account) AccountIncomes() []IncomeDefinition {
	out := make([]IncomeDefinition, len(a.Incomes))
	for i, d := range a.Incomes {
		d.AccountID = a.ID
		if d.AccountName == "" {
			d.AccountName = a.Name
		}
		out[i] = d
	}
	return out
}

// FindAccount looks up an account by id.
func (c *Configuration) FindAccount(id int) (Account, bool) {
	for _, a := range c.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}
