package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/cashflow-forecast/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "CASH FLOW FORECAST %s\n", YearLabel(report.Year, report.FiscalYearStartMonth))
	fmt.Fprintln(&buf, "================================")
	for _, f := range report.Forecasts {
		s := Summarize(f)
		fmt.Fprintf(&buf, "%s (#%d): Start=%s Closing=%s Net=%s\n",
			displayName(s),
			s.AccountID,
			FormatCurrency(s.Start, report.Currency),
			FormatCurrency(s.Closing, report.Currency),
			FormatCurrency(s.Net(), report.Currency),
		)
		fmt.Fprintf(&buf, "  Events=%d Verified=%d SavingsRate=%s\n", len(f.ComputedValues), s.Verified, FormatPercentage(s.SavingsRate()))
	}
	if len(report.Forecasts) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Total closing: %s\n", FormatCurrency(PortfolioClosing(report), report.Currency))
	}
	return buf.Bytes(), nil
}

func displayName(s AccountSummary) string {
	if s.AccountName == "" {
		return fmt.Sprintf("Account %d", s.AccountID)
	}
	return s.AccountName
}
