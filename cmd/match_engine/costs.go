package main

import (
	"time"

	"github.com/spf13/cobra"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Summarize analysis invocation costs",
	RunE:  runCosts,
}

var costsSinceDays int

func init() {
	costsCmd.Flags().IntVar(&costsSinceDays, "since-days", 30, "Window in days to summarize")

	rootCmd.AddCommand(costsCmd)
}

func runCosts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	since := time.Now().UTC().AddDate(0, 0, -costsSinceDays)
	summary, err := e.db.SummarizeCosts(ctx, since)
	if err != nil {
		return err
	}
	return printJSON(summary)
}
