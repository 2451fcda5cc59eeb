package calculation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Display names of income and deduction entries.
const (
	NameSalary      = "Salary"
	NamePension     = "Pension"
	NameIncomeTax   = "Income tax"
	NameNI          = "NI"
	NameStudentLoan = "Student loan"
	NameTaxRelief   = "Tax relief"
	NameBills       = "Bills"

	CreditCardPrefix = "Credit card "
)

var twelve = decimal.NewFromInt(12)

// Deduction is a named, signed adjustment to gross income.
type Deduction struct {
	Name  string
	Value decimal.Decimal
}

// IncomeMonth is the recorded income of one month with its deductions merged
// by name. Deductions keep the order in which their names first appeared.
type IncomeMonth struct {
	dateutil.MonthKey
	Date       time.Time
	Name       string
	Value      decimal.Decimal
	Deductions []Deduction
}

// Total returns the gross value plus all deductions.
func (m IncomeMonth) Total() decimal.Decimal {
	total := m.Value
	for _, d := range m.Deductions {
		total = total.Add(d.Value)
	}
	return total
}

func (m *IncomeMonth) addDeduction(name string, value decimal.Decimal) {
	for i := range m.Deductions {
		if m.Deductions[i].Name == name {
			m.Deductions[i].Value = m.Deductions[i].Value.Add(value)
			return
		}
	}
	m.Deductions = append(m.Deductions, Deduction{Name: name, Value: value})
}

// PredictedDeductions holds the projected deductions of a month as negative
// account deltas.
type PredictedDeductions struct {
	Pension     decimal.Decimal
	Tax         decimal.Decimal
	NI          decimal.Decimal
	StudentLoan decimal.Decimal
}

// Entries lists the non-zero deductions in display order.
func (d PredictedDeductions) Entries() []Deduction {
	all := []Deduction{
		{Name: NamePension, Value: d.Pension},
		{Name: NameIncomeTax, Value: d.Tax},
		{Name: NameNI, Value: d.NI},
		{Name: NameStudentLoan, Value: d.StudentLoan},
	}
	out := make([]Deduction, 0, len(all))
	for _, e := range all {
		if !e.Value.IsZero() {
			out = append(out, e)
		}
	}
	return out
}

// PredictedIncomeMonth is the projected income of one month summed over every
// active income definition.
type PredictedIncomeMonth struct {
	dateutil.MonthKey
	Date       time.Time
	Gross      decimal.Decimal
	Deductions PredictedDeductions
}

// Total returns gross plus all (negative) deductions.
func (m PredictedIncomeMonth) Total() decimal.Decimal {
	d := m.Deductions
	return m.Gross.Add(d.Pension).Add(d.Tax).Add(d.NI).Add(d.StudentLoan)
}

// AggregatePreviousIncome groups recorded income rows in two passes. Rows are
// first merged by transaction, counting the gross value once per transaction;
// a row without a transaction id is a transaction of its own. Transactions are
// then merged by (year, month), summing values and deductions of the same
// name. The result is ordered by month.
func AggregatePreviousIncome(cal dateutil.Calendar, rows []domain.RecordedIncomeRow) []IncomeMonth {
	type txKey struct {
		id    int
		row   int
		hasID bool
	}

	var (
		transactions []IncomeMonth
		txIndex      = make(map[txKey]int)
	)
	for i, r := range rows {
		key := txKey{row: i}
		if r.TransactionID != nil {
			key = txKey{id: *r.TransactionID, hasID: true}
		}
		idx, seen := txIndex[key]
		if !seen {
			idx = len(transactions)
			txIndex[key] = idx
			transactions = append(transactions, IncomeMonth{
				MonthKey: monthKeyOfRow(cal, r),
				Date:     r.Date,
				Name:     r.AccountItemName,
				Value:    r.Gross,
			})
		}
		if r.HasDeduction() {
			transactions[idx].Deductions = append(transactions[idx].Deductions,
				Deduction{Name: r.DeductionName, Value: r.DeductionValue})
		}
	}

	var (
		months     []IncomeMonth
		monthIndex = make(map[dateutil.MonthKey]int)
	)
	for _, tx := range transactions {
		idx, seen := monthIndex[tx.MonthKey]
		if !seen {
			idx = len(months)
			monthIndex[tx.MonthKey] = idx
			months = append(months, IncomeMonth{
				MonthKey: tx.MonthKey,
				Date:     tx.Date,
				Name:     tx.Name,
				Value:    decimal.Zero,
			})
		}
		m := &months[idx]
		m.Value = m.Value.Add(tx.Value)
		if tx.Date.Before(m.Date) {
			m.Date = tx.Date
		}
		for _, d := range tx.Deductions {
			m.addDeduction(d.Name, d.Value)
		}
	}

	sort.SliceStable(months, func(i, j int) bool {
		return cal.Index(months[i].MonthKey) < cal.Index(months[j].MonthKey)
	})
	return months
}

// monthKeyOfRow prefers the row's explicit (year, month) and falls back to
// its date.
func monthKeyOfRow(cal dateutil.Calendar, r domain.RecordedIncomeRow) dateutil.MonthKey {
	if r.Year == 0 && !r.Date.IsZero() {
		return cal.KeyOf(r.Date)
	}
	return dateutil.MonthKey{Year: r.Year, Month: r.Month}
}

// MatchesIncome reports whether a recorded item belongs to an income stream.
// Item names carry the stream name with decoration, such as
// "Salary (Acme Ltd)", so the match is by substring.
func MatchesIncome(itemName, streamName string) bool {
	return streamName != "" && strings.Contains(itemName, streamName)
}

// recordedIncomeLookup answers whether an income stream already has a
// recorded payment in a month.
type recordedIncomeLookup map[dateutil.MonthKey][]string

func newRecordedIncomeLookup(cal dateutil.Calendar, rows []domain.RecordedIncomeRow) recordedIncomeLookup {
	l := make(recordedIncomeLookup)
	for _, r := range rows {
		key := monthKeyOfRow(cal, r)
		l[key] = append(l[key], r.AccountItemName)
	}
	return l
}

func (l recordedIncomeLookup) has(name string, key dateutil.MonthKey) bool {
	for _, item := range l[key] {
		if MatchesIncome(item, name) {
			return true
		}
	}
	return false
}

// MonthlyGross returns floor(salary / 12).
func MonthlyGross(annualSalary decimal.Decimal) decimal.Decimal {
	return annualSalary.Div(twelve).Floor()
}

// IncomeProjector projects income definitions month by month.
type IncomeProjector struct {
	Calendar   dateutil.Calendar
	Parameters domain.ParameterTable
	Logger     Logger

	calculators map[int]*DeductionCalculator
}

// NewIncomeProjector creates a projector over a parameter table
func NewIncomeProjector(cal dateutil.Calendar, params domain.ParameterTable, logger Logger) *IncomeProjector {
	if logger == nil {
		logger = NopLogger{}
	}
	return &IncomeProjector{
		Calendar:    cal,
		Parameters:  params,
		Logger:      logger,
		calculators: make(map[int]*DeductionCalculator),
	}
}

func (p *IncomeProjector) calculatorFor(year int) *DeductionCalculator {
	if dc, ok := p.calculators[year]; ok {
		return dc
	}
	if !p.Parameters.Has(year, domain.ParamTaxBasicRate) {
		p.Logger.Debugf("no tax parameters for financial year %d, deductions will be zero", year)
	}
	dc := NewDeductionCalculator(p.Parameters, year)
	p.calculators[year] = dc
	return dc
}

// MonthFor projects one month of a single definition without checking its
// active range.
func (p *IncomeProjector) MonthFor(def domain.IncomeDefinition, code domain.TaxCode, key dateutil.MonthKey) PredictedIncomeMonth {
	gross := MonthlyGross(def.Salary)
	d := p.calculatorFor(key.Year).Calculate(gross, def.PensionContrib, code, def.StudentLoan)
	return PredictedIncomeMonth{
		MonthKey: key,
		Date:     p.Calendar.EndOf(key),
		Gross:    gross,
		Deductions: PredictedDeductions{
			Pension:     d.Pension.Neg(),
			Tax:         d.Tax.Neg(),
			NI:          d.NI.Neg(),
			StudentLoan: d.StudentLoan.Neg(),
		},
	}
}

// Project emits one entry per month in [from, to] with at least one active
// definition. A definition contributes from the later of its start date and
// from until the earlier of its end date and to, skipping months that already
// hold a recorded payment of the same stream. Contributions of concurrent
// definitions are summed per month.
func (p *IncomeProjector) Project(defs []domain.IncomeDefinition, recorded []domain.RecordedIncomeRow, from, to time.Time) ([]PredictedIncomeMonth, error) {
	lookup := newRecordedIncomeLookup(p.Calendar, recorded)

	var (
		months []PredictedIncomeMonth
		index  = make(map[dateutil.MonthKey]int)
	)
	for i, def := range defs {
		code, err := domain.ParseTaxCode(def.TaxCode)
		if err != nil {
			return nil, fmt.Errorf("income definition %d of account %d: %w", i, def.AccountID, err)
		}
		start := dateutil.MaxDate(def.StartDate, from)
		end := def.ActiveEnd(to)
		for _, key := range p.Calendar.Months(start, end) {
			if lookup.has(def.AccountName, key) {
				continue
			}
			m := p.MonthFor(def, code, key)
			idx, seen := index[key]
			if !seen {
				index[key] = len(months)
				months = append(months, m)
				continue
			}
			acc := &months[idx]
			acc.Gross = acc.Gross.Add(m.Gross)
			acc.Deductions.Pension = acc.Deductions.Pension.Add(m.Deductions.Pension)
			acc.Deductions.Tax = acc.Deductions.Tax.Add(m.Deductions.Tax)
			acc.Deductions.NI = acc.Deductions.NI.Add(m.Deductions.NI)
			acc.Deductions.StudentLoan = acc.Deductions.StudentLoan.Add(m.Deductions.StudentLoan)
		}
	}

	sort.SliceStable(months, func(i, j int) bool {
		return p.Calendar.Index(months[i].MonthKey) < p.Calendar.Index(months[j].MonthKey)
	})
	return months, nil
}

// ProjectIncome is a convenience wrapper around IncomeProjector.Project.
func ProjectIncome(cal dateutil.Calendar, params domain.ParameterTable, defs []domain.IncomeDefinition, recorded []domain.RecordedIncomeRow, from, to time.Time) ([]PredictedIncomeMonth, error) {
	return NewIncomeProjector(cal, params, nil).Project(defs, recorded, from, to)
}
