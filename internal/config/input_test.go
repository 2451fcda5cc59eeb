package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `fiscal_year_start_month: 3
currency: GBP
accounts:
  - id: 1
    name: "Current"
    incomes:
      - account_name: "Acme"
        salary: 6000000
        start_date: "2021-04-01T00:00:00Z"
        tax_code: "1257L"
        pension_contrib: 0.05
parameters:
  - year: 2021
    name: taxBasicRate
    value: 0.2
recorded_income:
  - transaction_id: 1
    account_id: 1
    date: "2021-06-30T00:00:00Z"
    account_item_name: "Acme"
    gross: 500000
    deduction_name: "Income tax"
    deduction_value: -75000
latest_actual_values:
  - account_id: 1
    date: "2021-05-31T00:00:00Z"
    value: 154420
`

const testTOML = `fiscal_year_start_month = 3
tax_relief_month = 9

[[accounts]]
id = 1
name = "Current"

[[accounts.incomes]]
account_name = "Acme"
salary = "6000000"
start_date = 2021-04-01T00:00:00Z
tax_code = "1257L"
pension_contrib = "0.05"

[[parameters]]
year = 2021
name = "taxBasicRate"
value = "0.2"

[[explicit_values]]
id = 1
account_id = 1
year = 2021
month = 8
name = "Gift aid"
value = "-5000"
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_YAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTemp(t, "forecast.yaml", testYAML))
	require.NoError(t, err)

	require.Len(t, config.Accounts, 1)
	assert.Equal(t, "Current", config.Accounts[0].Name)
	require.Len(t, config.Accounts[0].Incomes, 1)
	assert.True(t, config.Accounts[0].Incomes[0].Salary.Equal(decimal.NewFromInt(6000000)))
	assert.Equal(t, "GBP", config.CurrencyCode())

	// Recorded rows keyed by date get their financial month filled in
	require.Len(t, config.RecordedIncome, 1)
	assert.Equal(t, 2021, config.RecordedIncome[0].Year)
	assert.Equal(t, 5, config.RecordedIncome[0].Month)
	require.NotNil(t, config.RecordedIncome[0].TransactionID)
	assert.Equal(t, 1, *config.RecordedIncome[0].TransactionID)
}

func TestLoadFromFile_TOML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTemp(t, "forecast.toml", testTOML))
	require.NoError(t, err)

	settings := config.Settings()
	assert.Equal(t, 3, settings.FiscalYearStartMonth)
	assert.Equal(t, 9, settings.TaxReliefMonth)
	require.Len(t, config.Accounts[0].Incomes, 1)
	assert.Equal(t, "0.05", config.Accounts[0].Incomes[0].PensionContrib.String())
	require.Len(t, config.ExplicitValues, 1)
	assert.Equal(t, "-5000", config.ExplicitValues[0].Value.String())
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("nonexistent_file.yaml")

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_UnknownExtension(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(writeTemp(t, "forecast.ini", testYAML))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(writeTemp(t, "bad.yaml", "accounts: [\n  - id: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateConfiguration_Success(t *testing.T) {
	parser := NewInputParser()
	assert.NoError(t, parser.ValidateConfiguration(parser.CreateExampleConfiguration()))
}

func TestValidateConfiguration_Failures(t *testing.T) {
	parser := NewInputParser()
	badMonth := 12

	tests := []struct {
		name   string
		mutate func(c *domain.Configuration)
		target error
		text   string
	}{
		{
			name:   "No accounts",
			mutate: func(c *domain.Configuration) { c.Accounts = nil },
			text:   "no accounts",
		},
		{
			name:   "Duplicate account id",
			mutate: func(c *domain.Configuration) { c.Accounts[1].ID = c.Accounts[0].ID },
			text:   "duplicate id",
		},
		{
			name:   "Invalid tax code",
			mutate: func(c *domain.Configuration) { c.Accounts[0].Incomes[0].TaxCode = "12A0L" },
			target: domain.ErrInvalidTaxCode,
		},
		{
			name:   "Pension rate above one",
			mutate: func(c *domain.Configuration) { c.Accounts[0].Incomes[0].PensionContrib = decimal.NewFromInt(5) },
			target: domain.ErrInvalidRate,
		},
		{
			name: "End before start",
			mutate: func(c *domain.Configuration) {
				c.Accounts[0].Incomes[0].EndDate = c.Accounts[0].Incomes[0].StartDate.AddDate(0, -1, 0)
			},
			text: "cannot be before start date",
		},
		{
			name:   "Parameter rate out of range",
			mutate: func(c *domain.Configuration) { c.Parameters[0].Value = decimal.NewFromInt(20) },
			target: domain.ErrInvalidRate,
		},
		{
			name:   "Explicit value month out of range",
			mutate: func(c *domain.Configuration) { c.ExplicitValues[0].Month = 12 },
			target: domain.ErrInvalidMonth,
		},
		{
			name:   "Credit card month out of range",
			mutate: func(c *domain.Configuration) { c.CreditCardPayments[0].Month = -1 },
			target: domain.ErrInvalidMonth,
		},
		{
			name:   "Fiscal start month out of range",
			mutate: func(c *domain.Configuration) { c.FiscalYearStartMonth = &badMonth },
			target: domain.ErrInvalidMonth,
		},
		{
			name:   "Invalid deductible pattern",
			mutate: func(c *domain.Configuration) { c.TaxDeductiblePattern = "(" },
			text:   "tax_deductible_pattern",
		},
		{
			name:   "Transfer to self",
			mutate: func(c *domain.Configuration) { c.ExplicitValues[0].TransferTargetAccountID = &c.ExplicitValues[0].AccountID },
			text:   "transfer target",
		},
		{
			name:   "Bad currency",
			mutate: func(c *domain.Configuration) { c.Currency = "POUNDS" },
			text:   "currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := parser.CreateExampleConfiguration()
			tt.mutate(config)

			err := parser.ValidateConfiguration(config)
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "expected %v in %v", tt.target, err)
			}
			if tt.text != "" {
				assert.Contains(t, err.Error(), tt.text)
			}
		})
	}
}

func TestCreateExampleConfiguration(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()

	assert.NotNil(t, config)
	assert.Len(t, config.Accounts, 2)
	assert.NotEmpty(t, config.Parameters)
	assert.NotEmpty(t, config.RecordedIncome)
	assert.NotEmpty(t, config.ExplicitValues)
	assert.NotEmpty(t, config.LatestActualValues)
}

func TestWriteConfigurationRoundTrip(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExampleConfiguration()

	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, parser.WriteConfiguration(&buf, example, format))

			loaded, err := parser.Parse(buf.Bytes(), format)
			require.NoError(t, err)
			assert.Len(t, loaded.Accounts, len(example.Accounts))
			assert.Len(t, loaded.Parameters, len(example.Parameters))
			assert.True(t, loaded.Accounts[0].Incomes[0].Salary.Equal(example.Accounts[0].Incomes[0].Salary))
			assert.True(t, loaded.Accounts[0].Incomes[0].StartDate.Equal(example.Accounts[0].Incomes[0].StartDate))
			require.NotNil(t, loaded.ExplicitValues[1].Formula)
			assert.Equal(t, *example.ExplicitValues[1].Formula, *loaded.ExplicitValues[1].Formula)
		})
	}

	assert.Error(t, parser.WriteConfiguration(&bytes.Buffer{}, example, Format("xml")))
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b/forecast.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("forecast.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	_, err = FormatFromPath("forecast")
	assert.Error(t, err)
}
