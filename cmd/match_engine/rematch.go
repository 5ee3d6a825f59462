package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rematchCmd = &cobra.Command{
	Use:   "rematch",
	Short: "Re-score all open jobs for a resume version",
	Long:  "Rematch scores every open job against the given resume version under the active weight vector. Pairs already scored under that version are served from storage. The worker pool is sized to the analysis concurrency limit.",
	RunE:  runRematch,
}

var rematchResumeVersion string

func init() {
	rematchCmd.Flags().StringVarP(&rematchResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	rematchCmd.MarkFlagRequired("resume-version") //nolint:errcheck

	rootCmd.AddCommand(rematchCmd)
}

func runRematch(cmd *cobra.Command, args []string) error {
	resumeVersionID, err := uuid.Parse(rematchResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	jobs, err := e.db.ListOpenJobs(ctx)
	if err != nil {
		return err
	}
	jobIDs := make([]uuid.UUID, len(jobs))
	for i, job := range jobs {
		jobIDs[i] = job.ID
	}

	results, errs := e.newScorer().ScoreBatch(ctx, resumeVersionID, jobIDs, e.cfg.AnalysisConcurrency)

	var scored, failed int
	for i := range results {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(os.Stderr, "job %s: %v\n", jobIDs[i], errs[i])
			continue
		}
		scored++
	}

	fmt.Fprintf(os.Stdout, "Scored %d of %d open jobs (%d failed)\n", scored, len(jobs), failed)
	return nil
}
