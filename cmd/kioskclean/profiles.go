package main

import (
	"fmt"

	"github.com/aatumaykin/kioskclean/internal/app"
	"github.com/aatumaykin/kioskclean/internal/profiles"
	"github.com/spf13/cobra"
)

var profilesAll bool

// profilesCmd prints the profiles a cleanup would visit.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the profiles targeted by cleanup",
	Long: `List the user profiles a cleanup would visit, after TargetProfiles is
applied. With --all every discovered profile is listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		r := app.BuildResolver(cfg, log)
		var list []profiles.Profile
		if profilesAll {
			list = r.DiscoverAll()
		} else {
			list = r.ResolveTargets()
		}

		out := cmd.OutOrStdout()
		for _, p := range list {
			fmt.Fprintf(out, "%s\t%s\n", p.Account, p.Path)
		}
		if len(list) == 0 {
			fmt.Fprintf(out, "no profiles under %s\n", r.Root())
		}
		return nil
	},
}

func init() {
	profilesCmd.Flags().BoolVar(&profilesAll, "all", false, "List every discovered profile, ignoring TargetProfiles")
}
