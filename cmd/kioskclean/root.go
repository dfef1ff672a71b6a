package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	envPath    string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kioskclean",
	Short: "kioskclean - session-driven cleanup for shared workstations",
	Long: `kioskclean deletes temporary and personal files from user profiles,
closes applications and runs administrator scripts in response to session
events (startup, logon, logoff, lock, unlock, resume, shutdown).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ./config.toml, built-in defaults when absent)")
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", "", "Path to .env file (default: ./.env)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Override logging.level")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scriptsCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(planCmd)
}
