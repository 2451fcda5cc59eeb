package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/calculation"
	"github.com/rpgo/cashflow-forecast/internal/config"
	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	stdout   io.Writer
	stderr   io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "forecast",
		Short:         "Project account balances and cashflows for a financial year",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(opts),
		newTaxCmd(opts),
		newValidateCmd(opts),
		newExampleCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger() *logging.Logger {
	return logging.New(o.stderr, o.logLevel)
}

// loadConfig reads and validates a configuration file.
func loadConfig(path string) (*domain.Configuration, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := parser.ValidateConfiguration(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseNow parses a YYYY-MM-DD date, defaulting to the current time.
func parseNow(value string) (time.Time, error) {
	if value == "" {
		return calculation.Now(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", value, err)
	}
	return t, nil
}
