package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/types"
)

var jobStatusCmd = &cobra.Command{
	Use:   "job-status <job-id> <status>",
	Short: "Change a canonical job record's status",
	Long:  "Job-status moves a job between open, closed, and archived. Closed and archived jobs drop out of scoring and recommendations; the record itself is never deleted.",
	Args:  cobra.ExactArgs(2),
	RunE:  runJobStatus,
}

func init() {
	rootCmd.AddCommand(jobStatusCmd)
}

func runJobStatus(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
	}

	status := args[1]
	switch status {
	case types.JobStatusOpen, types.JobStatusClosed, types.JobStatusArchived:
	default:
		return fmt.Errorf("invalid status %q (expected %s, %s, or %s)",
			status, types.JobStatusOpen, types.JobStatusClosed, types.JobStatusArchived)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.db.UpdateJobStatus(ctx, jobID, status); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Job %s is now %s\n", jobID, status)
	return nil
}
