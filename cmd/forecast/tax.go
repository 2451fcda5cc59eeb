package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rpgo/cashflow-forecast/internal/calculation"
	"github.com/rpgo/cashflow-forecast/internal/config"
	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type taxOptions struct {
	configPath  string
	year        int
	salary      string
	code        string
	pension     string
	studentLoan bool
}

func newTaxCmd(root *rootOptions) *cobra.Command {
	opts := &taxOptions{}
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Print the monthly deductions of a salary",
		Long: "Print one month of projected pension, income tax, NI and student loan\n" +
			"for an annual salary in minor units. Parameters come from --config, or\n" +
			"from the built-in example when no configuration is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTax(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "configuration file supplying the parameter table")
	f.IntVarP(&opts.year, "year", "y", 0, "financial year of the parameters (default: the current one)")
	f.StringVar(&opts.salary, "salary", "", "annual salary in minor units")
	f.StringVar(&opts.code, "code", "1257L", "tax code")
	f.StringVar(&opts.pension, "pension", "0", "salary sacrifice pension rate, e.g. 0.05")
	f.BoolVar(&opts.studentLoan, "student-loan", false, "apply student loan repayments")
	_ = cmd.MarkFlagRequired("salary")
	return cmd
}

func runTax(cmd *cobra.Command, root *rootOptions, opts *taxOptions) error {
	var cfg *domain.Configuration
	if opts.configPath == "" {
		cfg = config.NewInputParser().CreateExampleConfiguration()
	} else {
		var err error
		if cfg, err = loadConfig(opts.configPath); err != nil {
			return err
		}
	}

	salary, err := decimal.NewFromString(opts.salary)
	if err != nil {
		return fmt.Errorf("invalid --salary %q: %w", opts.salary, err)
	}
	pension, err := decimal.NewFromString(opts.pension)
	if err != nil {
		return fmt.Errorf("invalid --pension %q: %w", opts.pension, err)
	}

	engine, err := calculation.NewForecastEngine(cfg.Settings(), nil)
	if err != nil {
		return err
	}
	engine.SetLogger(root.logger())

	year := opts.year
	if year == 0 {
		year = engine.Calendar.YearOf(calculation.Now())
	}
	params := domain.NewParameterTable(cfg.Parameters)
	if !params.Has(year, domain.ParamTaxBasicRate) {
		return fmt.Errorf("no parameters for %d", year)
	}

	b, err := engine.MonthlyDeductions(params, domain.IncomeDefinition{
		Salary:         salary,
		TaxCode:        opts.code,
		StudentLoan:    opts.studentLoan,
		PensionContrib: pension,
	}, year)
	if err != nil {
		return err
	}

	currency := cfg.CurrencyCode()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s %s, code %s\t\n", output.MonthName(b.Month), output.YearLabel(year, engine.Calendar.StartMonth), opts.code)
	for _, row := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Gross", b.Gross},
		{"Pension", b.Pension.Neg()},
		{"Income tax", b.Tax.Neg()},
		{"NI", b.NI.Neg()},
		{"Student loan", b.StudentLoan.Neg()},
		{"Net", b.Net},
	} {
		fmt.Fprintf(w, "%s\t%s\t\n", row.label, output.FormatCurrency(row.value, currency))
	}
	return w.Flush()
}
