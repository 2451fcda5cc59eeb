package calculation

import (
	"testing"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestMonthlyIncomeTax tests the banded monthly income tax with rounded monthly thresholds
func TestMonthlyIncomeTax(t *testing.T) {
	bands := ukBands()

	tests := []struct {
		name     string
		income   string
		code     string
		expected string
	}{
		{"Zero income", "0", "1250L", "0"},
		{"Negative income treated as zero", "-50000", "1250L", "0"},
		{"Below allowance", "100000", "1250L", "0"},
		{"Basic rate only", "225000", "1250L", "24167"},         // (225000-104167) * 0.2 = 24166.6
		{"Spans higher rate", "600000", "1250L", "135500"},      // 314167*0.2 + 181667*0.4
		{"Spans additional rate", "1500000", "1250L", "508000"}, // 62833.4 + 332666.8 + 112500
		// The higher band starts at round(5020000/12) = 418333, one below
		// the sum of the separately rounded allowance and basic band
		{"First penny of higher band", "418334", "1250L", "62834"},    // 62833.4 + 0.4
		{"Higher threshold rounded once", "500001", "1250L", "95501"}, // 62833.4 + 81668*0.4
		{"Higher threshold 1257L", "500000", "1257L", "95267"},        // 62833.4 + (500000-418917)*0.4
		{"Flat rate code has no allowance", "100000", "BR", "20000"},
		{"K code adds to taxable pay", "100000", "K100", "21667"}, // (100000+8333) * 0.2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyIncomeTax(dec(tt.income), mustTaxCode(t, tt.code), bands)
			assert.True(t, dec(tt.expected).Equal(result), "expected %s, got %s", tt.expected, result)
		})
	}
}

func TestIncomeTaxCalculatorUsesYearParameters(t *testing.T) {
	params := domain.NewParameterTable(ukParameters(2021))

	calc := NewIncomeTaxCalculator(params, 2021)
	assert.Equal(t, "24167", calc.MonthlyTax(dec("225000"), mustTaxCode(t, "1250L")).String())

	// Missing parameter rows read as zero rates
	empty := NewIncomeTaxCalculator(params, 2030)
	assert.True(t, empty.MonthlyTax(dec("225000"), mustTaxCode(t, "1250L")).IsZero())
}

func TestCalculateContribution(t *testing.T) {
	threshold := dec("104750")
	limit := dec("418917")
	lower := dec("0.12")
	higher := dec("0.02")

	tests := []struct {
		name     string
		income   string
		expected string
	}{
		{"Below threshold", "100000", "0"},
		{"Between threshold and limit", "300000", "23430"}, // 195250 * 0.12
		{"Above limit", "500000", "39322"},                 // 314167*0.12 + 81083*0.02
		{"Negative income", "-1", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateContribution(dec(tt.income), threshold, limit, lower, higher)
			assert.True(t, dec(tt.expected).Equal(result), "expected %s, got %s", tt.expected, result)
		})
	}
}

func TestContributionCalculatorUsesMonthlyThresholds(t *testing.T) {
	calc := NewContributionCalculator(domain.NewParameterTable(ukParameters(2021)), 2021)
	assert.Equal(t, "23430", calc.MonthlyContribution(dec("300000")).String())

	// Thresholds are read as monthly values, not divided again
	rows := []domain.ParameterRow{
		{Year: 2022, Name: domain.ParamNIPrimaryThreshold, Value: dec("79700")},
		{Year: 2022, Name: domain.ParamNIUpperEarningsLimit, Value: dec("418900")},
		{Year: 2022, Name: domain.ParamNILowerRate, Value: dec("0.12")},
		{Year: 2022, Name: domain.ParamNIHigherRate, Value: dec("0.02")},
	}
	calc = NewContributionCalculator(domain.NewParameterTable(rows), 2022)
	assert.Equal(t, "26436", calc.MonthlyContribution(dec("300000")).String()) // 220300 * 0.12
	assert.True(t, calc.MonthlyContribution(dec("79700")).IsZero())
}

func TestCalculateRepayment(t *testing.T) {
	rate := dec("0.09")
	threshold := dec("227458")

	assert.Equal(t, "6529", CalculateRepayment(dec("300000"), rate, threshold).String()) // 72542 * 0.09
	assert.True(t, CalculateRepayment(dec("200000"), rate, threshold).IsZero())
	assert.True(t, CalculateRepayment(dec("227458"), rate, threshold).IsZero())

	calc := NewRepaymentCalculator(domain.NewParameterTable(ukParameters(2021)), 2021)
	assert.Equal(t, "6529", calc.MonthlyRepayment(dec("300000")).String())
}

func TestRepaymentThresholdIsNotRounded(t *testing.T) {
	threshold := MonthlyRepaymentThreshold(dec("2729500.9"))
	assert.Equal(t, "227458", threshold.Floor().String())
	assert.True(t, threshold.GreaterThan(dec("227458.33")))
	assert.True(t, threshold.LessThan(dec("227458.34")))

	calc := NewRepaymentCalculator(domain.NewParameterTable(ukParameters(2021)), 2021)
	tests := []struct {
		income   string
		expected string
	}{
		{"300008", "6529"}, // 72549.67 * 0.09 = 6529.47; a rounded threshold gives 6530
		{"227459", "0"},    // 0.67 * 0.09 = 0.06
		{"227464", "1"},    // 5.67 * 0.09 = 0.51
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, calc.MonthlyRepayment(dec(tt.income)).String(), "income %s", tt.income)
	}
}

func TestCalculateYearlyTaxRelief(t *testing.T) {
	bands := ukBands()

	tests := []struct {
		name          string
		income        string
		deduction     string
		expectedBasic string
		expectedExtra string
	}{
		{
			name:          "Basic rate taxpayer",
			income:        "2700000",
			deduction:     "1560000",
			expectedBasic: "312000",
			expectedExtra: "0",
		},
		{
			name:          "Higher rate headroom consumed first",
			income:        "6000000",
			deduction:     "1000000",
			expectedBasic: "200000",
			expectedExtra: "196000", // 980000 in higher band * (0.4-0.2)
		},
		{
			name:          "Additional rate then higher rate",
			income:        "16000000",
			deduction:     "2000000",
			expectedBasic: "400000",
			expectedExtra: "450000", // 1000000*0.25 + 1000000*0.2
		},
		{
			name:          "Deduction larger than income",
			income:        "1000000",
			deduction:     "2000000",
			expectedBasic: "200000",
			expectedExtra: "0",
		},
		{
			// Extra relief stops at the higher-rate threshold, 5020000 for
			// 1250L, well below the additional-rate threshold
			name:          "At the higher-rate threshold",
			income:        "5020000",
			deduction:     "100000",
			expectedBasic: "20000",
			expectedExtra: "0",
		},
		{
			name:          "Between higher and additional thresholds",
			income:        "5500000",
			deduction:     "100000",
			expectedBasic: "20000",
			expectedExtra: "20000", // 100000 * (0.4-0.2)
		},
		{
			name:          "No deduction",
			income:        "6000000",
			deduction:     "0",
			expectedBasic: "0",
			expectedExtra: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relief := CalculateYearlyTaxRelief(dec(tt.income), mustTaxCode(t, "1250L"), dec(tt.deduction), bands)
			assert.True(t, dec(tt.expectedBasic).Equal(relief.Basic), "basic: expected %s, got %s", tt.expectedBasic, relief.Basic)
			assert.True(t, dec(tt.expectedExtra).Equal(relief.Extra), "extra: expected %s, got %s", tt.expectedExtra, relief.Extra)
			assert.True(t, relief.Basic.Add(relief.Extra).Equal(relief.Total()))
		})
	}
}

func TestDeductionCalculator(t *testing.T) {
	dc := NewDeductionCalculator(domain.NewParameterTable(ukParameters(2021)), 2021)
	code := mustTaxCode(t, "1250L")

	d := dc.Calculate(decimal.NewFromInt(500000), dec("0.05"), code, true)
	assert.Equal(t, "25000", d.Pension.String())
	assert.Equal(t, "85500", d.Tax.String())
	assert.Equal(t, "38822", d.NI.String())
	assert.Equal(t, "22279", d.StudentLoan.String())
	assert.Equal(t, "171601", d.Total().String())

	noLoan := dc.Calculate(decimal.NewFromInt(500000), dec("0.05"), code, false)
	assert.True(t, noLoan.StudentLoan.IsZero())
}

// The calculators see gross less the exact pension; only the reported
// pension is rounded.
func TestDeductionCalculatorUsesUnroundedPension(t *testing.T) {
	dc := NewDeductionCalculator(domain.NewParameterTable(ukParameters(2021)), 2021)
	code := mustTaxCode(t, "1250L")

	tests := []struct {
		gross   int64
		pension string
		tax     string
		ni      string
	}{
		// taxable 285029.45: NI 180279.45 * 0.12 = 21633.53
		{300031, "15002", "36172", "21634"},
		// taxable 285000: whole pence either way
		{300000, "15000", "36167", "21630"},
	}
	for _, tt := range tests {
		d := dc.Calculate(decimal.NewFromInt(tt.gross), dec("0.05"), code, false)
		assert.Equal(t, tt.pension, d.Pension.String(), "pension for %d", tt.gross)
		assert.Equal(t, tt.tax, d.Tax.String(), "tax for %d", tt.gross)
		assert.Equal(t, tt.ni, d.NI.String(), "NI for %d", tt.gross)
	}
}

// Rounding happens once per calculator, so a deduction never drifts more
// than half a minor unit from the exact figure.
func TestDeductionsWithinHalfMinorUnit(t *testing.T) {
	bands := ukBands()
	code := mustTaxCode(t, "1250L")
	half := dec("0.5")

	for income := int64(100000); income <= 2000000; income += 37337 {
		taxable := decimal.NewFromInt(income)
		rounded := CalculateMonthlyIncomeTax(taxable, code, bands)

		basic := decimal.Max(decimal.Zero, decimal.Min(taxable.Sub(dec("104167")), dec("314167")))
		higher := decimal.Max(decimal.Zero, decimal.Min(taxable, dec("1250000")).Sub(dec("418333")))
		additional := decimal.Max(decimal.Zero, taxable.Sub(dec("1250000")))
		exact := basic.Mul(dec("0.2")).Add(higher.Mul(dec("0.4"))).Add(additional.Mul(dec("0.45")))

		assert.True(t, rounded.Sub(exact).Abs().LessThanOrEqual(half), "income %d: %s vs %s", income, rounded, exact)
	}
}
