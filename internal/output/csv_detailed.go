package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/cashflow-forecast/internal/domain"
)

// CSVDetailedExporter writes one row per computed value, in forecast order.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.ForecastReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"AccountID", "Year", "Month", "Key", "Name", "Category", "Value", "IsVerified", "IsTransfer"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	forecasts := append([]domain.AccountForecast(nil), report.Forecasts...)
	sort.SliceStable(forecasts, func(i, j int) bool { return forecasts[i].AccountID < forecasts[j].AccountID })
	for _, f := range forecasts {
		for _, v := range f.ComputedValues {
			row := []string{
				intToString(f.AccountID),
				intToString(f.Year),
				MonthName(v.Month),
				v.Key,
				v.Name,
				Category(v),
				v.Value.StringFixed(0),
				boolToString(v.IsVerified),
				boolToString(v.IsTransfer),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
