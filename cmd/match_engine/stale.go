package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/lifecycle"
)

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List applied applications with no recent activity",
	Long:  "Stale lists applications in status applied whose latest history entry is older than the configured threshold. The flag is derived from the history on every read, so it clears the moment a new entry is appended.",
	RunE:  runStale,
}

func init() {
	rootCmd.AddCommand(staleCmd)
}

func runStale(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	detector := lifecycle.NewDetector(e.db, e.cfg.StaleAfter())
	stale, err := detector.FindStale(ctx)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		fmt.Fprintln(os.Stdout, "No stale applications")
		return nil
	}

	for _, s := range stale {
		days := int(s.IdleFor.Hours() / 24)
		fmt.Fprintf(os.Stdout, "%s  job=%s  idle %d days (last activity %s)\n",
			s.Application.ID, s.Application.JobID, days,
			s.LastActivity.Format("2006-01-02"))
	}
	return nil
}
