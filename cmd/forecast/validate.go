package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			root.logger().Debugf("validated %s", configPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %d account(s), %d parameter row(s)\n", len(cfg.Accounts), len(cfg.Parameters))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (.yaml or .toml)")
	return cmd
}
