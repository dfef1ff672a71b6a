package main

import (
	"fmt"

	"github.com/aatumaykin/kioskclean/internal/app"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/spf13/cobra"
)

var runTrigger string

// runCmd runs one cleanup in the foreground and exits.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one cleanup now",
	Long: `Run one cleanup synchronously for the given trigger label and print the
number of deleted files. Without --trigger the full manual plan runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		engine := app.BuildEngine(cfg, log, nil)
		stats := engine.RunCleanup(runTrigger)

		fmt.Fprintf(cmd.OutOrStdout(), "%s: plan %s, %d profiles, %d files deleted, %d discarded, took %s\n",
			stats.Trigger, stats.Plan, stats.ProfilesSwept, stats.FilesDeleted, stats.DiscardDeleted, stats.Duration)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runTrigger, "trigger", "t", session.TriggerManual, "Cleanup trigger label")
}
