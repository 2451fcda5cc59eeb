package output

import (
	"fmt"
	"strconv"
	"time"

	money "github.com/rpgo/cashflow-forecast/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount in minor units, e.g. "£1,234.56".
// An empty currency falls back to GBP.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "GBP"
	}
	return money.FormatMinor(amount, currency)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// MonthName returns the short name of a 0-based calendar month.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return "???"
	}
	return time.Month(month + 1).String()[:3]
}

// YearLabel names a financial year, e.g. "2022/23" for one starting in April.
// Years starting in January are labelled by the plain year.
func YearLabel(year, startMonth int) string {
	if startMonth == 0 {
		return strconv.Itoa(year)
	}
	return fmt.Sprintf("%d/%02d", year, (year+1)%100)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
