package main

import (
	"fmt"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/calculation"
	"github.com/rpgo/cashflow-forecast/internal/config"
	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.NewInputParser().CreateExampleConfiguration()
	params := domain.NewParameterTable(cfg.Parameters)
	ce, err := calculation.NewForecastEngine(cfg.Settings(), nil)
	if err != nil {
		panic(err)
	}

	// One month of deductions across salary levels
	fmt.Println("Monthly deductions 2021, code 1257L, 5% pension:")
	fmt.Printf("%10s %10s %10s %10s %10s %10s\n", "Salary", "Gross", "Pension", "Tax", "NI", "Net")
	for _, salary := range []int64{1200000, 3000000, 5000000, 10000000, 20000000} {
		b, err := ce.MonthlyDeductions(params, domain.IncomeDefinition{
			Salary:         decimal.NewFromInt(salary),
			TaxCode:        "1257L",
			PensionContrib: decimal.RequireFromString("0.05"),
		}, 2021)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%10d %10s %10s %10s %10s %10s\n", salary, b.Gross.StringFixed(0), b.Pension.StringFixed(0), b.Tax.StringFixed(0), b.NI.StringFixed(0), b.Net.StringFixed(0))
	}

	// A definition ending mid-year is projected only until its end
	def := domain.IncomeDefinition{
		AccountID:   1,
		AccountName: "Acme Ltd",
		Salary:      decimal.NewFromInt(6000000),
		StartDate:   time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2021, 9, 30, 0, 0, 0, 0, time.UTC),
		TaxCode:     "1257L",
		StudentLoan: true,
	}
	months, err := calculation.NewIncomeProjector(ce.Calendar, params, calculation.NopLogger{}).
		Project([]domain.IncomeDefinition{def}, nil, ce.Calendar.StartOfYear(2021), ce.Calendar.EndOfYear(2021))
	if err != nil {
		panic(err)
	}
	fmt.Println()
	fmt.Println("Projected months 2021 for an income ending in September:")
	for _, m := range months {
		fmt.Printf("%s gross=%s net=%s\n", m.MonthKey, m.Gross.StringFixed(0), m.Total().StringFixed(0))
	}
}
