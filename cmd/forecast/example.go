package main

import (
	"fmt"
	"os"

	"github.com/rpgo/cashflow-forecast/internal/config"
	"github.com/spf13/cobra"
)

func newExampleCmd(root *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			example := parser.CreateExampleConfiguration()
			if outPath == "" {
				return parser.WriteConfiguration(cmd.OutOrStdout(), example, config.FormatYAML)
			}

			format, err := config.FormatFromPath(outPath)
			if err != nil {
				return err
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()
			if err := parser.WriteConfiguration(f, example, format); err != nil {
				return err
			}
			root.logger().Infof("example configuration written to %s", outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (.yaml or .toml; default: stdout)")
	return cmd
}
