package output

import (
	"strings"

	"github.com/rpgo/cashflow-forecast/internal/calculation"
	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountSummary totals the computed values of one forecast by category.
type AccountSummary struct {
	AccountID   int
	AccountName string
	Start       decimal.Decimal
	Income      decimal.Decimal
	Deductions  decimal.Decimal
	Transfers   decimal.Decimal
	Bills       decimal.Decimal
	CreditCards decimal.Decimal
	TaxRelief   decimal.Decimal
	Closing     decimal.Decimal
	Verified    int
	Predicted   int
}

// Net returns the change over the year.
func (s AccountSummary) Net() decimal.Decimal { return s.Closing.Sub(s.Start) }

// SavingsRate returns the net change as a percentage of income, zero when
// there is no income.
func (s AccountSummary) SavingsRate() decimal.Decimal {
	if s.Income.IsZero() {
		return decimal.Zero
	}
	return s.Net().Div(s.Income).Mul(decimal.NewFromInt(100))
}

// Category buckets a computed value for summaries.
func Category(v domain.ComputedValue) string {
	switch {
	case v.IsTransfer:
		return "Transfers"
	case v.Name == calculation.NameSalary:
		return "Income"
	case v.Name == calculation.NameBills:
		return "Bills"
	case v.Name == calculation.NameTaxRelief:
		return "Tax relief"
	case strings.HasPrefix(v.Name, calculation.CreditCardPrefix):
		return "Credit cards"
	default:
		return "Deductions"
	}
}

// Summarize folds the computed values of a forecast into an AccountSummary.
func Summarize(f domain.AccountForecast) AccountSummary {
	s := AccountSummary{
		AccountID:   f.AccountID,
		AccountName: f.AccountName,
		Start:       f.ComputedStartValue,
		Closing:     f.Total(),
	}
	for _, v := range f.ComputedValues {
		if v.IsVerified {
			s.Verified++
		} else {
			s.Predicted++
		}
		switch Category(v) {
		case "Transfers":
			s.Transfers = s.Transfers.Add(v.Value)
		case "Income":
			s.Income = s.Income.Add(v.Value)
		case "Bills":
			s.Bills = s.Bills.Add(v.Value)
		case "Tax relief":
			s.TaxRelief = s.TaxRelief.Add(v.Value)
		case "Credit cards":
			s.CreditCards = s.CreditCards.Add(v.Value)
		default:
			s.Deductions = s.Deductions.Add(v.Value)
		}
	}
	return s
}

// MonthTotals sums each account's computed values per calendar month, in the
// order months first appear.
type MonthTotals struct {
	Months []int
	Totals map[int]decimal.Decimal
}

// TotalsByMonth groups the computed values of a forecast by month.
func TotalsByMonth(f domain.AccountForecast) MonthTotals {
	mt := MonthTotals{Totals: make(map[int]decimal.Decimal)}
	for _, v := range f.ComputedValues {
		if _, ok := mt.Totals[v.Month]; !ok {
			mt.Months = append(mt.Months, v.Month)
		}
		mt.Totals[v.Month] = mt.Totals[v.Month].Add(v.Value)
	}
	return mt
}

// PortfolioClosing returns the sum of closing balances across accounts.
func PortfolioClosing(report *domain.ForecastReport) decimal.Decimal {
	total := decimal.Zero
	for i := range report.Forecasts {
		total = total.Add(report.Forecasts[i].Total())
	}
	return total
}
