package main

import (
	"fmt"

	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate kioskclean configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Load the configuration file (TOML or YAML) and check it for errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no configuration file given")
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		errs := cfg.Validate()
		out := cmd.OutOrStdout()
		if len(errs) > 0 {
			fmt.Fprintf(out, "%s: %d errors\n", path, len(errs))
			for _, e := range errs {
				fmt.Fprintf(out, "  - %v\n", e)
			}
			return fmt.Errorf("configuration is invalid")
		}

		fmt.Fprintf(out, "%s: configuration is valid (%d app settings, %d schedules)\n",
			path, cfg.Settings().Len(), len(cfg.Schedule))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
