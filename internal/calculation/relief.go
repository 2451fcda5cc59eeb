package calculation

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	money "github.com/rpgo/cashflow-forecast/pkg/decimal"
	"github.com/shopspring/decimal"
)

// TaxReliefCalculator estimates the relief owed for tax-deductible payments
// made in a financial year.
type TaxReliefCalculator struct {
	Calendar        dateutil.Calendar
	Parameters      domain.ParameterTable
	SalarySacrifice *regexp.Regexp
	TaxDeductible   *regexp.Regexp
	Logger          Logger
}

// ReliefInput is the data relief is estimated from.
type ReliefInput struct {
	Incomes        []domain.IncomeDefinition
	RecordedIncome []domain.RecordedIncomeRow
	ExplicitValues []ResolvedValue
}

// ReliefForYear returns the relief owed for payments made in financial year
// year, summed over every account whose income is active in that year.
//
// Per account the taxable income is the recorded gross of the year with
// salary-sacrifice deductions taken off, plus a projection of
// salary * (1 - pension rate) / 12 for each active month without a recorded
// payment. The tax code is that of the definition ending last.
func (c *TaxReliefCalculator) ReliefForYear(year int, in ReliefInput) (decimal.Decimal, error) {
	yearStart := c.Calendar.StartOfYear(year)
	yearEnd := c.Calendar.EndOfYear(year)

	groups := make(map[int][]domain.IncomeDefinition)
	for _, def := range in.Incomes {
		if def.StartDate.After(yearEnd) || def.ActiveEnd(yearEnd).Before(yearStart) {
			continue
		}
		groups[def.AccountID] = append(groups[def.AccountID], def)
	}
	accounts := make([]int, 0, len(groups))
	for id := range groups {
		accounts = append(accounts, id)
	}
	sort.Ints(accounts)

	bands := c.Parameters.IncomeTaxBands(year)
	total := decimal.Zero
	for _, accountID := range accounts {
		defs := groups[accountID]

		deductible := c.deductiblePayments(year, accountID, in.ExplicitValues)
		if deductible.IsZero() {
			continue
		}

		final := lastEnding(defs)
		code, err := domain.ParseTaxCode(final.TaxCode)
		if err != nil {
			return decimal.Zero, fmt.Errorf("tax relief for account %d: %w", accountID, err)
		}

		taxable := c.taxableIncome(year, defs, in.RecordedIncome)
		relief := CalculateYearlyTaxRelief(taxable, code, deductible, bands)
		c.logger().Debugf("tax relief %d account %d: taxable %s, deductible %s, relief %s",
			year, accountID, taxable.StringFixed(0), deductible.StringFixed(0), relief.Total().StringFixed(0))
		total = total.Add(relief.Total())
	}
	return money.RoundMinor(total), nil
}

func (c *TaxReliefCalculator) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}

// deductiblePayments sums the magnitude of the account's explicit values in
// the year whose names match the tax-deductible pattern.
func (c *TaxReliefCalculator) deductiblePayments(year, accountID int, values []ResolvedValue) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		if v.Row.AccountID != accountID || v.Row.Year != year {
			continue
		}
		if c.TaxDeductible == nil || !c.TaxDeductible.MatchString(v.Row.Name) {
			continue
		}
		sum = sum.Add(v.Value.Abs())
	}
	return sum
}

func (c *TaxReliefCalculator) taxableIncome(year int, defs []domain.IncomeDefinition, recorded []domain.RecordedIncomeRow) decimal.Decimal {
	var rows []domain.RecordedIncomeRow
	for _, r := range recorded {
		if monthKeyOfRow(c.Calendar, r).Year == year && matchesAny(r.AccountItemName, defs) {
			rows = append(rows, r)
		}
	}

	taxable := decimal.Zero
	for _, m := range AggregatePreviousIncome(c.Calendar, rows) {
		taxable = taxable.Add(m.Value)
		for _, d := range m.Deductions {
			if c.SalarySacrifice != nil && c.SalarySacrifice.MatchString(d.Name) {
				taxable = taxable.Add(d.Value)
			}
		}
	}

	lookup := newRecordedIncomeLookup(c.Calendar, rows)
	yearStart := c.Calendar.StartOfYear(year)
	yearEnd := c.Calendar.EndOfYear(year)
	for _, def := range defs {
		projected := 0
		for _, key := range c.Calendar.Months(dateutil.MaxDate(def.StartDate, yearStart), def.ActiveEnd(yearEnd)) {
			if !lookup.has(def.AccountName, key) {
				projected++
			}
		}
		if projected == 0 {
			continue
		}
		net := def.Salary.Mul(decimal.NewFromInt(1).Sub(def.PensionContrib))
		taxable = taxable.Add(net.Mul(decimal.NewFromInt(int64(projected))).Div(twelve))
	}
	return taxable
}

func matchesAny(itemName string, defs []domain.IncomeDefinition) bool {
	for _, def := range defs {
		if MatchesIncome(itemName, def.AccountName) {
			return true
		}
	}
	return false
}

// lastEnding returns the definition with the latest effective end date; an
// open-ended definition ends last. Ties go to the later definition.
func lastEnding(defs []domain.IncomeDefinition) domain.IncomeDefinition {
	far := time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	best := defs[0]
	for _, def := range defs[1:] {
		if !def.ActiveEnd(far).Before(best.ActiveEnd(far)) {
			best = def
		}
	}
	return best
}

// ReliefDeltas credits the relief of each year before target at the relief
// month of the following year. Payouts from the snapshot year onward are
// produced so the boundary can pick up those after the snapshot; the payout
// inside target is always produced for display. Zero relief emits nothing.
func (c *TaxReliefCalculator) ReliefDeltas(accountID, target, reliefMonth int, snapshot *dateutil.MonthKey, in ReliefInput) ([]Delta, error) {
	first := target
	if snapshot != nil && snapshot.Year < first {
		first = snapshot.Year
	}

	var out []Delta
	for payout := first; payout <= target; payout++ {
		key := dateutil.MonthKey{Year: payout, Month: reliefMonth}
		if payout != target && snapshot != nil && c.Calendar.Index(key) <= c.Calendar.Index(*snapshot) {
			continue
		}
		value, err := c.ReliefForYear(payout-1, in)
		if err != nil {
			return nil, err
		}
		if value.IsZero() {
			continue
		}
		out = append(out, Delta{
			MonthKey: key,
			Date:     c.Calendar.EndOf(key),
			Key:      valueKey(accountID, "tax-relief", key),
			Name:     NameTaxRelief,
			Value:    value,
		})
	}
	return out, nil
}
