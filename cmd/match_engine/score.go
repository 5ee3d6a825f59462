package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a (resume version, job) pair",
	Long:  "Score computes the 0-100 compatibility score and explanation for one resume version against one job under the active weight vector. Scoring is idempotent: an existing result for the pair and weight version is returned unchanged.",
	RunE:  runScore,
}

var (
	scoreResumeVersion string
	scoreJobID         string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	scoreCmd.Flags().StringVarP(&scoreJobID, "job", "j", "", "Job id (required)")
	scoreCmd.MarkFlagRequired("resume-version") //nolint:errcheck
	scoreCmd.MarkFlagRequired("job")            //nolint:errcheck

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	resumeVersionID, err := uuid.Parse(scoreResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}
	jobID, err := uuid.Parse(scoreJobID)
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	result, err := e.newScorer().Score(ctx, resumeVersionID, jobID)
	if err != nil {
		return err
	}
	return printJSON(result)
}
