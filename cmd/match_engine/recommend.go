package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show the top-ranked open jobs for a resume version",
	RunE:  runRecommend,
}

var (
	recommendResumeVersion string
	recommendCount         int
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	recommendCmd.Flags().IntVarP(&recommendCount, "count", "n", 10, "Number of recommendations")
	recommendCmd.MarkFlagRequired("resume-version") //nolint:errcheck

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	resumeVersionID, err := uuid.Parse(recommendResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	recs, err := recommend.New(e.db, e.db, e.log).Top(ctx, resumeVersionID, recommendCount)
	if err != nil {
		return err
	}
	return printJSON(recs)
}
