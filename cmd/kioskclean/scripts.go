package main

import (
	"fmt"

	"github.com/aatumaykin/kioskclean/internal/app"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/spf13/cobra"
)

var (
	scriptsEvent     string
	scriptsSessionID int
)

// scriptsCmd dispatches the configured scripts for one event and waits.
var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Run the scripts configured for an event",
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := session.Parse(scriptsEvent)
		if err != nil {
			return err
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}

		var sessionID *int
		if cmd.Flags().Changed("session-id") {
			sessionID = &scriptsSessionID
		}

		d := app.BuildDispatcher(cmd.Context(), cfg, log)
		n := d.RunScriptsForEvent(ev, sessionID)
		d.Wait()

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scripts run\n", ev, n)
		return nil
	},
}

func init() {
	scriptsCmd.Flags().StringVarP(&scriptsEvent, "event", "e", "ManualFull", "Session event (Startup, Logon, Logoff, Lock, Unlock, Resume, Shutdown, ManualFull)")
	scriptsCmd.Flags().IntVar(&scriptsSessionID, "session-id", 0, "Session id passed to the scripts")
}
