package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/lifecycle"
	"github.com/jonathan/job-match-engine/internal/types"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Start tracking an application for a (job, resume version) pair",
	RunE:  runTrack,
}

var transitionCmd = &cobra.Command{
	Use:   "transition <application-id> <status>",
	Short: "Move an application to a new status",
	Long: "Transition appends a timestamped entry to the application's status history atomically with the status change. Any status may move to any other. Valid statuses: " +
		strings.Join(types.ApplicationStatuses, ", ") + ".",
	Args: cobra.ExactArgs(2),
	RunE: runTransition,
}

var (
	trackJobID         string
	trackResumeVersion string
	trackNote          string
	transitionNote     string
	transitionExpected string
)

func init() {
	trackCmd.Flags().StringVarP(&trackJobID, "job", "j", "", "Job id (required)")
	trackCmd.Flags().StringVarP(&trackResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	trackCmd.Flags().StringVar(&trackNote, "note", "", "Optional note for the first history entry")
	trackCmd.MarkFlagRequired("job")            //nolint:errcheck
	trackCmd.MarkFlagRequired("resume-version") //nolint:errcheck

	transitionCmd.Flags().StringVar(&transitionNote, "note", "", "Optional note for the history entry")
	transitionCmd.Flags().StringVar(&transitionExpected, "expected", "", "Status the caller last observed; a mismatch is reported as a conflict")

	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(transitionCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(trackJobID)
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
	}
	resumeVersionID, err := uuid.Parse(trackResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	machine := lifecycle.New(e.db, e.db, e.log)
	id, err := machine.Track(ctx, &types.ApplicationRecord{
		JobID:           jobID,
		ResumeVersionID: resumeVersionID,
	}, trackNote)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Tracking application %s\n", id)
	return nil
}

func runTransition(cmd *cobra.Command, args []string) error {
	appID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid application id: %w", err)
	}
	status := args[1]
	if !types.IsValidStatus(status) {
		return fmt.Errorf("invalid status %q (expected one of: %s)",
			status, strings.Join(types.ApplicationStatuses, ", "))
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	machine := lifecycle.New(e.db, e.db, e.log)
	result, err := machine.Transition(ctx, appID, status, transitionNote, transitionExpected)
	if err != nil {
		return err
	}

	if result.Conflict != nil {
		fmt.Fprintf(os.Stdout, "Applied with conflict: expected %q but found %q; both transitions are in the history\n",
			result.Conflict.ExpectedStatus, result.Conflict.ActualStatus)
	}
	fmt.Fprintf(os.Stdout, "Application %s is now %s (history entry %s)\n",
		appID, status, result.Entry.ID)
	return nil
}
