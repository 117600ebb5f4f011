package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psantana5/freedisk/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect freedisk configuration",
	Long:  `Commands for printing the effective configuration and an annotated example file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Show merges defaults, the config file, FREEDISK_* and RUNNER_TEMP environment
variables and flags, and prints the result as a config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an annotated example config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), config.ExampleConfig)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configExampleCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
