package output

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

//go:embed templates/report.md.tmpl
var markdownTemplateSource string

var markdownTemplate = template.Must(template.New("markdown").Funcs(template.FuncMap{
	"month":  MonthName,
	"source": sourceMarker,
}).Parse(markdownTemplateSource))

// MarkdownFormatter writes the report as a markdown document. With Render set
// the document is styled for a terminal by glamour.
type MarkdownFormatter struct {
	Render bool
	// Style is a glamour standard style name; empty selects "notty".
	Style string
	// WordWrap of zero keeps glamour's default width.
	WordWrap int
}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, reportView(report)); err != nil {
		return nil, err
	}
	if !m.Render {
		return buf.Bytes(), nil
	}

	style := m.Style
	if style == "" {
		style = "notty"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if m.WordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(m.WordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	out, err := r.Render(buf.String())
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

type accountView struct {
	Forecast domain.AccountForecast
	Summary  AccountSummary
}

type templateView struct {
	Title       string
	Assumptions []string
	Accounts    []accountView
	Closing     decimal.Decimal
	Curr        func(decimal.Decimal) string
}

// reportView prepares the data shared by the html and markdown templates.
func reportView(report *domain.ForecastReport) templateView {
	accounts := make([]accountView, 0, len(report.Forecasts))
	for _, f := range report.Forecasts {
		s := Summarize(f)
		s.AccountName = displayName(s)
		accounts = append(accounts, accountView{Forecast: f, Summary: s})
	}
	currency := report.Currency
	return templateView{
		Title:       "Cash Flow Forecast " + YearLabel(report.Year, report.FiscalYearStartMonth),
		Assumptions: assumptionsOf(report),
		Accounts:    accounts,
		Closing:     PortfolioClosing(report),
		Curr:        func(d decimal.Decimal) string { return FormatCurrency(d, currency) },
	}
}
