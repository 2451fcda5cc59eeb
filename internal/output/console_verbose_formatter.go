package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the detailed month by month console report.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "DETAILED CASH FLOW FORECAST %s\n", YearLabel(report.Year, report.FiscalYearStartMonth))
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptionsOf(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, f := range report.Forecasts {
		writeAccount(&buf, i+1, f, report.Currency)
	}

	if len(report.Forecasts) > 1 {
		fmt.Fprintln(&buf, "ALL ACCOUNTS")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		fmt.Fprintf(&buf, "  Closing balance:        %s\n", FormatCurrency(PortfolioClosing(report), report.Currency))
	}
	return buf.Bytes(), nil
}

func writeAccount(buf *bytes.Buffer, n int, f domain.AccountForecast, currency string) {
	s := Summarize(f)
	fmt.Fprintf(buf, "ACCOUNT %d: %s\n", n, displayName(s))
	fmt.Fprintln(buf, strings.Repeat("=", 50))
	fmt.Fprintf(buf, "  Start of year balance:  %s\n", FormatCurrency(s.Start, currency))
	fmt.Fprintf(buf, "  Income:                 %s\n", FormatCurrency(s.Income, currency))
	fmt.Fprintf(buf, "  Deductions:             %s\n", FormatCurrency(s.Deductions, currency))
	fmt.Fprintf(buf, "  Transfers:              %s\n", FormatCurrency(s.Transfers, currency))
	fmt.Fprintf(buf, "  Bills:                  %s\n", FormatCurrency(s.Bills, currency))
	fmt.Fprintf(buf, "  Credit cards:           %s\n", FormatCurrency(s.CreditCards, currency))
	fmt.Fprintf(buf, "  Tax relief:             %s\n", FormatCurrency(s.TaxRelief, currency))
	fmt.Fprintf(buf, "  Closing balance:        %s\n", FormatCurrency(s.Closing, currency))
	fmt.Fprintln(buf)

	if len(f.ComputedValues) > 0 {
		writeMonthTable(buf, f, currency)
	}
	if len(f.PredictedCreditCardPayments) > 0 {
		fmt.Fprintln(buf, "PREDICTED CARD PAYMENTS:")
		for _, id := range sortedCardIDs(f.PredictedCreditCardPayments) {
			fmt.Fprintf(buf, "  Card %d: %s / month\n", id, FormatCurrency(f.PredictedCreditCardPayments[id], currency))
		}
		fmt.Fprintln(buf)
	}
}

func writeMonthTable(buf *bytes.Buffer, f domain.AccountForecast, currency string) {
	fmt.Fprintf(buf, "%-5s %-24s %16s %-4s %16s\n", "Month", "Item", "Amount", "Src", "Balance")
	fmt.Fprintln(buf, strings.Repeat("-", 69))
	balance := f.ComputedStartValue
	month := -1
	for _, v := range f.ComputedValues {
		label := ""
		if v.Month != month {
			month = v.Month
			label = MonthName(v.Month)
		}
		balance = balance.Add(v.Value)
		fmt.Fprintf(buf, "%-5s %-24s %16s %-4s %16s\n", label, truncateName(v.Name, 24), FormatCurrency(v.Value, currency), sourceMarker(v), FormatCurrency(balance, currency))
	}
	fmt.Fprintln(buf)

	totals := TotalsByMonth(f)
	fmt.Fprintln(buf, "NET BY MONTH:")
	for _, m := range totals.Months {
		fmt.Fprintf(buf, "  %s: %s\n", MonthName(m), FormatCurrency(totals.Totals[m], currency))
	}
	fmt.Fprintln(buf)
}

// sourceMarker is "A" for recorded actuals and "P" for projections, with a
// trailing "T" on transfers.
func sourceMarker(v domain.ComputedValue) string {
	m := "P"
	if v.IsVerified {
		m = "A"
	}
	if v.IsTransfer {
		m += "T"
	}
	return m
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func sortedCardIDs(m map[int]decimal.Decimal) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
