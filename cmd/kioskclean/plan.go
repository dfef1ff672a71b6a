package main

import (
	"fmt"

	"github.com/aatumaykin/kioskclean/internal/cleanup"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/spf13/cobra"
)

var planTrigger string

// planCmd prints the plan derived from a trigger label.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the cleanup plan for a trigger",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", planTrigger, cleanup.PlanFor(planTrigger))
	},
}

func init() {
	planCmd.Flags().StringVarP(&planTrigger, "trigger", "t", session.TriggerManual, "Cleanup trigger label")
}
