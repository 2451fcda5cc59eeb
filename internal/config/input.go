package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk encoding of the configuration document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for file extensions with no decoder.
var ErrUnknownFormat = errors.New("unknown configuration format")

// FormatFromPath picks the encoding from a file extension. JSON documents are
// read by the YAML decoder.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML, JSON or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, format)
}

// Parse decodes, normalises and validates a configuration document.
func (ip *InputParser) Parse(data []byte, format Format) (*domain.Configuration, error) {
	var config domain.Configuration
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	ip.Normalize(&config)

	return &config, nil
}

// Normalize fills the financial (year, month) of recorded income rows that
// only carry a date.
func (ip *InputParser) Normalize(config *domain.Configuration) {
	cal := dateutil.Calendar{StartMonth: config.Settings().FiscalYearStartMonth}
	for i := range config.RecordedIncome {
		r := &config.RecordedIncome[i]
		if r.Year == 0 && !r.Date.IsZero() {
			k := cal.KeyOf(r.Date)
			r.Year, r.Month = k.Year, k.Month
		}
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateSettings(config); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	if len(config.Accounts) == 0 {
		return fmt.Errorf("no accounts provided")
	}
	seen := make(map[int]bool, len(config.Accounts))
	for i, account := range config.Accounts {
		if seen[account.ID] {
			return fmt.Errorf("account %d: duplicate id %d", i, account.ID)
		}
		seen[account.ID] = true
		if err := ip.validateAccount(&account); err != nil {
			return fmt.Errorf("account %d validation failed: %w", i, err)
		}
	}

	for i, p := range config.Parameters {
		if err := validateParameter(p); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	for i, r := range config.RecordedIncome {
		if r.Year == 0 && r.Date.IsZero() {
			return fmt.Errorf("recorded income %d: either date or year and month are required", i)
		}
		if err := validateMonth(fmt.Sprintf("recorded income %d", i), r.Month); err != nil {
			return err
		}
	}
	for i, r := range config.ExplicitValues {
		if err := validateMonth(fmt.Sprintf("explicit value %d", i), r.Month); err != nil {
			return err
		}
		if r.TransferTargetAccountID != nil && *r.TransferTargetAccountID == r.AccountID {
			return fmt.Errorf("explicit value %d: transfer target is the source account %d", i, r.AccountID)
		}
	}
	for i, r := range config.CreditCardPayments {
		if err := validateMonth(fmt.Sprintf("credit card payment %d", i), r.Month); err != nil {
			return err
		}
	}
	for i, b := range config.Bills {
		if b.Date.IsZero() {
			return fmt.Errorf("bills row %d: date is required", i)
		}
	}
	for i, v := range config.LatestActualValues {
		if v.Date.IsZero() {
			return fmt.Errorf("latest actual value %d: date is required", i)
		}
	}

	return nil
}

func (ip *InputParser) validateSettings(config *domain.Configuration) error {
	s := config.Settings()
	if err := validateMonth("settings", s.FiscalYearStartMonth); err != nil {
		return fmt.Errorf("fiscal_year_start_month: %w", err)
	}
	if err := validateMonth("settings", s.TaxReliefMonth); err != nil {
		return fmt.Errorf("tax_relief_month: %w", err)
	}
	if _, err := regexp.Compile(s.SalarySacrificePattern); err != nil {
		return fmt.Errorf("salary_sacrifice_pattern: %w", err)
	}
	if _, err := regexp.Compile(s.TaxDeductiblePattern); err != nil {
		return fmt.Errorf("tax_deductible_pattern: %w", err)
	}
	if len(config.CurrencyCode()) != 3 {
		return fmt.Errorf("currency must be an ISO 4217 code, got %q", config.Currency)
	}
	return nil
}

// validateAccount validates an account and its income definitions
func (ip *InputParser) validateAccount(account *domain.Account) error {
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for i, def := range account.Incomes {
		if err := ip.validateIncome(&def); err != nil {
			return fmt.Errorf("income %d: %w", i, err)
		}
	}
	return nil
}

func (ip *InputParser) validateIncome(def *domain.IncomeDefinition) error {
	if _, err := domain.ParseTaxCode(def.TaxCode); err != nil {
		return err
	}
	if def.Salary.LessThan(decimal.Zero) {
		return fmt.Errorf("salary cannot be negative")
	}
	if def.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if !def.EndDate.IsZero() && def.EndDate.Before(def.StartDate) {
		return fmt.Errorf("end date (%s) cannot be before start date (%s)",
			def.EndDate.Format("2006-01-02"), def.StartDate.Format("2006-01-02"))
	}
	if !withinUnit(def.PensionContrib) {
		return &domain.InputError{
			Row:   "income definition",
			Field: "pension_contrib",
			Value: def.PensionContrib.String(),
			Err:   domain.ErrInvalidRate,
		}
	}
	return nil
}

func validateParameter(p domain.ParameterRow) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.HasSuffix(p.Name, "Rate") && !withinUnit(p.Value) {
		return &domain.InputError{
			Row:   fmt.Sprintf("parameter %s/%d", p.Name, p.Year),
			Field: "value",
			Value: p.Value.String(),
			Err:   domain.ErrInvalidRate,
		}
	}
	return nil
}

func validateMonth(row string, month int) error {
	if err := dateutil.ValidateMonth(month); err != nil {
		return &domain.InputError{Row: row, Field: "month", Value: fmt.Sprint(month), Err: domain.ErrInvalidMonth}
	}
	return nil
}

func withinUnit(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}

// WriteConfiguration encodes a configuration document in the given format.
func (ip *InputParser) WriteConfiguration(w io.Writer, config *domain.Configuration, format Format) error {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(config); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(config); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	startDate, _ := time.Parse("2006-01-02", "2021-04-01")
	snapshotDate, _ := time.Parse("2006-01-02", "2021-05-31")
	billsDate, _ := time.Parse("2006-01-02", "2021-09-01")

	var params []domain.ParameterRow
	for _, year := range []int{2021, 2022} {
		params = append(params,
			domain.ParameterRow{Year: year, Name: domain.ParamTaxBasicRate, Value: decimal.RequireFromString("0.2")},
			domain.ParameterRow{Year: year, Name: domain.ParamTaxHigherRate, Value: decimal.RequireFromString("0.4")},
			domain.ParameterRow{Year: year, Name: domain.ParamTaxAdditionalRate, Value: decimal.RequireFromString("0.45")},
			domain.ParameterRow{Year: year, Name: domain.ParamTaxBasicAllowance, Value: decimal.NewFromInt(3770000)},
			domain.ParameterRow{Year: year, Name: domain.ParamTaxAdditionalThreshold, Value: decimal.NewFromInt(15000000)},
			domain.ParameterRow{Year: year, Name: domain.ParamNIPrimaryThreshold, Value: decimal.NewFromInt(104750)},
			domain.ParameterRow{Year: year, Name: domain.ParamNIUpperEarningsLimit, Value: decimal.NewFromInt(418917)},
			domain.ParameterRow{Year: year, Name: domain.ParamNILowerRate, Value: decimal.RequireFromString("0.12")},
			domain.ParameterRow{Year: year, Name: domain.ParamNIHigherRate, Value: decimal.RequireFromString("0.02")},
			domain.ParameterRow{Year: year, Name: domain.ParamStudentLoanRate, Value: decimal.RequireFromString("0.09")},
			domain.ParameterRow{Year: year, Name: domain.ParamStudentLoanThreshold, Value: decimal.NewFromInt(2729500)},
		)
	}

	txn1, txn2 := 1, 2
	savings := 2
	sipp := "-130000*12"

	return &domain.Configuration{
		Currency: domain.DefaultCurrency,
		Accounts: []domain.Account{
			{
				ID:   1,
				Name: "Current account",
				Incomes: []domain.IncomeDefinition{
					{
						AccountName:    "Acme Ltd",
						Salary:         decimal.NewFromInt(6000000),
						StartDate:      startDate,
						TaxCode:        "1257L",
						StudentLoan:    true,
						PensionContrib: decimal.RequireFromString("0.05"),
					},
				},
			},
			{ID: savings, Name: "Savings"},
		},
		Parameters: params,
		RecordedIncome: []domain.RecordedIncomeRow{
			{TransactionID: &txn1, AccountID: 1, Year: 2021, Month: 5, AccountItemName: "Acme Ltd", Gross: decimal.NewFromInt(500000), DeductionName: "Income tax", DeductionValue: decimal.NewFromInt(-75000)},
			{TransactionID: &txn1, AccountID: 1, Year: 2021, Month: 5, AccountItemName: "Acme Ltd", Gross: decimal.NewFromInt(500000), DeductionName: "Pension", DeductionValue: decimal.NewFromInt(-25000)},
			{TransactionID: &txn2, AccountID: 1, Year: 2021, Month: 6, AccountItemName: "Acme Ltd", Gross: decimal.NewFromInt(500000), DeductionName: "Income tax", DeductionValue: decimal.NewFromInt(-75000)},
		},
		ExplicitValues: []domain.ExplicitValueRow{
			{ID: 1, AccountID: 1, AccountName: "Current account", Year: 2021, Month: 8, Name: "Monthly saving", Value: decimal.NewFromInt(-50000), TransferTargetAccountID: &savings},
			{ID: 2, AccountID: 1, AccountName: "Current account", Year: 2021, Month: 11, Name: "SIPP contribution", Formula: &sipp},
		},
		Bills: []domain.BillsRow{
			{AccountID: 1, Date: billsDate, Sum: decimal.NewFromInt(-120000)},
		},
		LatestActualValues: []domain.LatestActualValue{
			{AccountID: 1, Date: snapshotDate, Value: decimal.NewFromInt(154420)},
			{AccountID: savings, Date: snapshotDate, Value: decimal.NewFromInt(1000000)},
		},
		CreditCardPayments: []domain.CreditCardPaymentRow{
			{CardID: 1, AccountID: 1, Year: 2021, Month: 5, Value: decimal.NewFromInt(-42000)},
		},
		CreditCardAverages: []domain.CreditCardAverageRow{
			{CardID: 1, AccountID: 1, Value: decimal.NewFromInt(-38000)},
		},
	}
}
