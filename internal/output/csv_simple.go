package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/cashflow-forecast/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per account).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ForecastReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"AccountID", "Account", "Year", "StartValue", "Income", "Deductions", "Transfers", "Bills", "CreditCards", "TaxRelief", "Closing", "Verified", "Predicted"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	forecasts := append([]domain.AccountForecast(nil), report.Forecasts...)
	sort.SliceStable(forecasts, func(i, j int) bool { return forecasts[i].AccountID < forecasts[j].AccountID })
	for _, f := range forecasts {
		s := Summarize(f)
		row := []string{
			intToString(s.AccountID),
			s.AccountName,
			intToString(f.Year),
			s.Start.StringFixed(0),
			s.Income.StringFixed(0),
			s.Deductions.StringFixed(0),
			s.Transfers.StringFixed(0),
			s.Bills.StringFixed(0),
			s.CreditCards.StringFixed(0),
			s.TaxRelief.StringFixed(0),
			s.Closing.StringFixed(0),
			intToString(s.Verified),
			intToString(s.Predicted),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
