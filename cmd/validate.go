package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/parcelsim/app"
	"github.com/kilianp07/parcelsim/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and dataset without running",
	RunE:  validateSetup,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := app.Validate(cfg); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "configuration and dataset are valid")
	return nil
}
