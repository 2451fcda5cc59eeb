package calculation

import (
	"github.com/rpgo/cashflow-forecast/internal/domain"
	money "github.com/rpgo/cashflow-forecast/pkg/decimal"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. All amounts are minor units. Annual income tax thresholds are prorated to
//    a month by dividing by 12 and rounding to the nearest minor unit BEFORE
//    any band is clamped; the penny-level behaviour of the tax figures depends
//    on it. The higher-rate threshold is round((allowance + basic band) / 12),
//    one rounding of the annual sum, not the sum of two rounded halves.
//
// 2. Income Tax: tax-free allowance from the tax code, then a basic band of
//    taxBasicAllowance, a higher band up to taxAdditionalThreshold and an
//    additional band above it. Flat-rate codes carry no allowance.
//
// 3. NI-style contribution: lower rate between the primary threshold and the
//    upper earnings limit, higher rate above the limit. Both thresholds are
//    stored as monthly values and used as they are.
//
// 4. Student-loan-style repayment: a flat rate above floor(annual threshold)/12,
//    left unrounded.
//
// Negative taxable income is treated as zero by every calculator.

// IncomeTaxCalculator computes monthly income tax for one year's bands.
type IncomeTaxCalculator struct {
	Bands domain.IncomeTaxBands
}

// NewIncomeTaxCalculator creates an income tax calculator from the year's parameters
func NewIncomeTaxCalculator(params domain.ParameterTable, year int) *IncomeTaxCalculator {
	return &IncomeTaxCalculator{Bands: params.IncomeTaxBands(year)}
}

// MonthlyTax returns the tax owed on one month of taxable income.
func (c *IncomeTaxCalculator) MonthlyTax(taxableIncome decimal.Decimal, code domain.TaxCode) decimal.Decimal {
	return CalculateMonthlyIncomeTax(taxableIncome, code, c.Bands)
}

// CalculateMonthlyIncomeTax partitions a month of taxable income into the
// basic, higher and additional slices and sums each slice times its rate.
func CalculateMonthlyIncomeTax(taxableIncome decimal.Decimal, code domain.TaxCode, bands domain.IncomeTaxBands) decimal.Decimal {
	income := money.NonNegative(taxableIncome)

	allowance := money.MonthlyMinor(code.AnnualAllowance())
	basicBand := money.MonthlyMinor(bands.BasicAllowance)
	additionalThreshold := money.MonthlyMinor(bands.AdditionalThreshold)
	higherThreshold := money.MonthlyMinor(code.AnnualAllowance().Add(bands.BasicAllowance))

	basicSlice := money.NonNegative(decimal.Min(income.Sub(allowance), basicBand))
	higherSlice := money.Headroom(income, higherThreshold, additionalThreshold)
	additionalSlice := money.NonNegative(income.Sub(additionalThreshold))

	tax := basicSlice.Mul(bands.BasicRate).
		Add(higherSlice.Mul(bands.HigherRate)).
		Add(additionalSlice.Mul(bands.AdditionalRate))

	return money.RoundMinor(tax)
}

// ContributionCalculator computes the NI-style deduction for one year.
type ContributionCalculator struct {
	Rules domain.ContributionRules
}

// NewContributionCalculator creates a contribution calculator from the year's parameters
func NewContributionCalculator(params domain.ParameterTable, year int) *ContributionCalculator {
	return &ContributionCalculator{Rules: params.ContributionRules(year)}
}

// MonthlyContribution applies CalculateContribution with the year's monthly
// thresholds.
func (c *ContributionCalculator) MonthlyContribution(taxableIncome decimal.Decimal) decimal.Decimal {
	return CalculateContribution(
		taxableIncome,
		c.Rules.Threshold,
		c.Rules.UpperLimit,
		c.Rules.LowerRate,
		c.Rules.HigherRate,
	)
}

// CalculateContribution returns
// max(0, min(income, upperLimit) - threshold) * lowerRate + max(0, income - upperLimit) * higherRate,
// rounded to the nearest minor unit.
func CalculateContribution(taxableIncome, threshold, upperLimit, lowerRate, higherRate decimal.Decimal) decimal.Decimal {
	income := money.NonNegative(taxableIncome)
	lower := money.Headroom(income, threshold, upperLimit).Mul(lowerRate)
	higher := money.NonNegative(income.Sub(upperLimit)).Mul(higherRate)
	return money.RoundMinor(lower.Add(higher))
}

// RepaymentCalculator computes the student-loan-style deduction for one year.
type RepaymentCalculator struct {
	Rules domain.RepaymentRules
}

// NewRepaymentCalculator creates a repayment calculator from the year's parameters
func NewRepaymentCalculator(params domain.ParameterTable, year int) *RepaymentCalculator {
	return &RepaymentCalculator{Rules: params.RepaymentRules(year)}
}

// MonthlyRepayment applies CalculateRepayment above floor(annual threshold)/12.
func (c *RepaymentCalculator) MonthlyRepayment(taxableIncome decimal.Decimal) decimal.Decimal {
	return CalculateRepayment(taxableIncome, c.Rules.Rate, MonthlyRepaymentThreshold(c.Rules.Threshold))
}

// MonthlyRepaymentThreshold floors the annual threshold and divides it by 12
// without rounding the result.
func MonthlyRepaymentThreshold(annual decimal.Decimal) decimal.Decimal {
	return annual.Floor().Div(twelve)
}

// CalculateRepayment returns max(0, rate * (income - threshold)) rounded to the
// nearest minor unit.
func CalculateRepayment(taxableIncome, rate, threshold decimal.Decimal) decimal.Decimal {
	income := money.NonNegative(taxableIncome)
	return money.NonNegative(money.RoundMinor(rate.Mul(income.Sub(threshold))))
}

// TaxRelief splits the relief on a deductible payment.
type TaxRelief struct {
	// Relief at the basic rate, assumed to be given automatically
	Basic decimal.Decimal
	// Relief owed at higher and additional rates on top of Basic
	Extra decimal.Decimal
}

// Total returns Basic + Extra.
func (r TaxRelief) Total() decimal.Decimal {
	return r.Basic.Add(r.Extra)
}

// CalculateYearlyTaxRelief offsets an annual deductible payment against the
// year's bands. The payment consumes additional-rate headroom first, then
// higher-rate headroom, then basic-rate headroom; each tier takes at most
// min(band size, remaining payment). Basic headroom reaches from zero to the
// higher-rate threshold because basic relief is not limited by the allowance.
func CalculateYearlyTaxRelief(taxableIncome decimal.Decimal, code domain.TaxCode, deduction decimal.Decimal, bands domain.IncomeTaxBands) TaxRelief {
	income := money.NonNegative(taxableIncome)
	remaining := money.NonNegative(deduction)

	higherThreshold := code.AnnualAllowance().Add(bands.BasicAllowance)

	additionalHeadroom := money.NonNegative(income.Sub(bands.AdditionalThreshold))
	inAdditional := decimal.Min(additionalHeadroom, remaining)
	remaining = remaining.Sub(inAdditional)

	higherHeadroom := money.Headroom(income, higherThreshold, bands.AdditionalThreshold)
	inHigher := decimal.Min(higherHeadroom, remaining)
	remaining = remaining.Sub(inHigher)

	basicHeadroom := money.Headroom(income, decimal.Zero, higherThreshold)
	inBasic := decimal.Min(basicHeadroom, remaining)

	allocated := inAdditional.Add(inHigher).Add(inBasic)
	extra := inAdditional.Mul(bands.AdditionalRate.Sub(bands.BasicRate)).
		Add(inHigher.Mul(bands.HigherRate.Sub(bands.BasicRate)))

	return TaxRelief{
		Basic: allocated.Mul(bands.BasicRate),
		Extra: extra,
	}
}

// DeductionCalculator bundles the three monthly statutory calculators of one
// year, in the manner of a payslip.
type DeductionCalculator struct {
	Year          int
	IncomeTaxCalc *IncomeTaxCalculator
	NICalc        *ContributionCalculator
	RepaymentCalc *RepaymentCalculator
}

// NewDeductionCalculator creates the statutory calculators for a financial year
func NewDeductionCalculator(params domain.ParameterTable, year int) *DeductionCalculator {
	return &DeductionCalculator{
		Year:          year,
		IncomeTaxCalc: NewIncomeTaxCalculator(params, year),
		NICalc:        NewContributionCalculator(params, year),
		RepaymentCalc: NewRepaymentCalculator(params, year),
	}
}

// MonthlyDeductions holds one month of projected deductions as positive amounts.
type MonthlyDeductions struct {
	Pension     decimal.Decimal
	Tax         decimal.Decimal
	NI          decimal.Decimal
	StudentLoan decimal.Decimal
}

// Calculate projects the deductions on one month of gross pay. The exact
// pension salary sacrifice is taken off gross before the statutory
// calculators run; only the reported pension is rounded.
func (dc *DeductionCalculator) Calculate(gross, pensionRate decimal.Decimal, code domain.TaxCode, studentLoan bool) MonthlyDeductions {
	pension := pensionRate.Mul(gross)
	taxable := gross.Sub(pension)

	d := MonthlyDeductions{
		Pension:     money.RoundMinor(pension),
		Tax:         dc.IncomeTaxCalc.MonthlyTax(taxable, code),
		NI:          dc.NICalc.MonthlyContribution(taxable),
		StudentLoan: decimal.Zero,
	}
	if studentLoan {
		d.StudentLoan = dc.RepaymentCalc.MonthlyRepayment(taxable)
	}
	return d
}

// Total returns the sum of all deductions.
func (d MonthlyDeductions) Total() decimal.Decimal {
	return d.Pension.Add(d.Tax).Add(d.NI).Add(d.StudentLoan)
}
