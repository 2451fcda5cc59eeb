package output

import (
	"fmt"

	"github.com/rpgo/cashflow-forecast/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Amounts are in minor currency units; outflows are negative",
	"Projected salary is paid monthly as floor(annual salary / 12)",
	"Pension contributions are salary sacrifice, deducted before tax and NI",
	"Monthly tax bands are the annual bands divided by 12 and rounded",
	"Months with a recorded payslip are never projected",
	"Values in the month of the latest actual balance are already reflected in it",
}

// GenerateAssumptions creates the assumptions list from the engine settings.
func GenerateAssumptions(settings domain.EngineSettings) []string {
	out := append([]string(nil), DefaultAssumptions...)
	return append(out,
		fmt.Sprintf("Financial year starts in %s", MonthName(settings.FiscalYearStartMonth)),
		fmt.Sprintf("Tax relief on deductible payments is credited in %s of the following year", MonthName(settings.TaxReliefMonth)),
	)
}

func assumptionsOf(report *domain.ForecastReport) []string {
	if len(report.Assumptions) == 0 {
		return DefaultAssumptions
	}
	return report.Assumptions
}
