package output

import (
	"encoding/json"

	"github.com/rpgo/cashflow-forecast/internal/domain"
)

// JSONFormatter serializes the forecast report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
