package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/types"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <job-id> <action>",
	Short: "Record a feedback signal for a job",
	Long:  "Feedback appends one signal (interested, passed, applied) to the immutable feedback log. Terminal application outcomes are recorded automatically by the state machine; this command covers direct reactions to a posting.",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedback,
}

var feedbackReason string

func init() {
	feedbackCmd.Flags().StringVar(&feedbackReason, "reason", "", "Optional free-text reason")

	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
	}

	action := args[1]
	switch action {
	case types.ActionInterested, types.ActionPassed, types.ActionApplied:
	default:
		return fmt.Errorf("unknown action %q (expected interested, passed, or applied)", action)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	id, err := e.db.AppendFeedback(ctx, &types.FeedbackSignal{
		JobID:  jobID,
		Action: action,
		Reason: feedbackReason,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Recorded %s signal %s for job %s\n", action, id, jobID)
	return nil
}
