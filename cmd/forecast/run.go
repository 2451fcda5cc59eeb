package main

import (
	"fmt"

	"github.com/rpgo/cashflow-forecast/internal/calculation"
	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/internal/formula"
	"github.com/rpgo/cashflow-forecast/internal/output"
	"github.com/spf13/cobra"
)

type runOptions struct {
	configPath string
	year       int
	accountID  int
	now        string
	format     string
	outDir     string
	render     bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the forecast of one or all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "configuration file (.yaml or .toml)")
	f.IntVarP(&opts.year, "year", "y", 0, "financial year to project (default: the current one)")
	f.IntVarP(&opts.accountID, "account", "a", 0, "account id (default: all accounts)")
	f.StringVar(&opts.now, "now", "", "reference date YYYY-MM-DD (default: today)")
	f.StringVarP(&opts.format, "format", "f", "console", "report format")
	f.StringVarP(&opts.outDir, "out", "o", "", "write the report to a file in this directory")
	f.BoolVar(&opts.render, "render", false, "style markdown output for the terminal")
	return cmd
}

func runForecast(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	log := root.logger()
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	now, err := parseNow(opts.now)
	if err != nil {
		return err
	}

	formatter, err := output.Lookup(opts.format)
	if err != nil {
		return err
	}
	if md, ok := formatter.(output.MarkdownFormatter); ok && opts.render {
		md.Render = true
		formatter = md
	}

	settings := cfg.Settings()
	engine, err := calculation.NewForecastEngine(settings, formula.NewEvaluator(nil))
	if err != nil {
		return err
	}
	engine.SetLogger(log)

	year := opts.year
	if year == 0 {
		year = engine.Calendar.YearOf(now)
	}

	accounts := cfg.Accounts
	if opts.accountID != 0 {
		account, ok := cfg.FindAccount(opts.accountID)
		if !ok {
			return fmt.Errorf("account %d not found", opts.accountID)
		}
		accounts = []domain.Account{account}
	}

	log.Infof("forecasting %d account(s) for %d as of %s", len(accounts), year, now.Format("2006-01-02"))
	forecasts, err := engine.ForecastAccounts(cmd.Context(), cfg.Rows(), accounts, year, now)
	if err != nil {
		return err
	}

	report := &domain.ForecastReport{
		Year:                 year,
		FiscalYearStartMonth: settings.FiscalYearStartMonth,
		Currency:             cfg.CurrencyCode(),
		Forecasts:            forecasts,
		Assumptions:          output.GenerateAssumptions(settings),
	}

	if opts.outDir != "" {
		path, err := output.WriteFormatted(formatter, report, opts.outDir, output.Extension(formatter.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	return output.Render(cmd.OutOrStdout(), formatter, report)
}
