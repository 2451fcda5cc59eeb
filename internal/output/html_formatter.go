package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":    FormatPercentage,
	"month":  MonthName,
	"source": sourceMarker,
	"neg":    func(d decimal.Decimal) bool { return d.IsNegative() },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, reportView(report)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
