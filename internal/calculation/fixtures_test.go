package calculation

import (
	"testing"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// ukParameters returns a parameter table shaped like recent UK rates, in pence.
func ukParameters(years ...int) []domain.ParameterRow {
	values := map[string]string{
		domain.ParamTaxBasicRate:           "0.2",
		domain.ParamTaxHigherRate:          "0.4",
		domain.ParamTaxAdditionalRate:      "0.45",
		domain.ParamTaxBasicAllowance:      "3770000",
		domain.ParamTaxAdditionalThreshold: "15000000",
		domain.ParamNIPrimaryThreshold:     "104750",
		domain.ParamNIUpperEarningsLimit:   "418917",
		domain.ParamNILowerRate:            "0.12",
		domain.ParamNIHigherRate:           "0.02",
		domain.ParamStudentLoanRate:        "0.09",
		domain.ParamStudentLoanThreshold:   "2729500",
	}
	var rows []domain.ParameterRow
	for _, y := range years {
		for name, v := range values {
			rows = append(rows, domain.ParameterRow{Year: y, Name: name, Value: dec(v)})
		}
	}
	return rows
}

func ukBands() domain.IncomeTaxBands {
	return domain.NewParameterTable(ukParameters(2021)).IncomeTaxBands(2021)
}

func aprilCalendar(t *testing.T) dateutil.Calendar {
	t.Helper()
	cal, err := dateutil.NewCalendar(domain.DefaultFiscalYearStartMonth)
	require.NoError(t, err)
	return cal
}

func mustTaxCode(t *testing.T, raw string) domain.TaxCode {
	t.Helper()
	code, err := domain.ParseTaxCode(raw)
	require.NoError(t, err)
	return code
}

// stubEvaluator resolves expressions from a fixed table.
type stubEvaluator map[string]decimal.Decimal

func (s stubEvaluator) Evaluate(expression string) (decimal.Decimal, error) {
	v, ok := s[expression]
	if !ok {
		return decimal.Zero, assertErr("unknown expression " + expression)
	}
	return v, nil
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// recordingLogger collects debug messages.
type recordingLogger struct {
	NopLogger
	debug []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.debug = append(l.debug, format)
}
