package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/dedup"
	"github.com/jonathan/job-match-engine/internal/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest normalized job records through the deduplicator",
	Long:  "Ingest reads a JSON array of normalized job records (as produced by a job-board connector) and runs each through the deduplicator. Near-duplicates are merged into their canonical record; ambiguous candidates are reported for manual review, never merged silently.",
	RunE:  runIngest,
}

var ingestFile string

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Path to JSON file of job records (required)")
	ingestCmd.MarkFlagRequired("file") //nolint:errcheck

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(ingestFile)
	if err != nil {
		return fmt.Errorf("failed to read jobs file: %w", err)
	}
	var jobs []types.JobRecord
	if err := json.Unmarshal(data, &jobs); err != nil {
		return fmt.Errorf("failed to parse jobs file: %w", err)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	d := dedup.New(e.db, e.cfg.DedupLowThreshold, e.cfg.DedupHighThreshold, e.log)

	var created, merged, ambiguous int
	for i := range jobs {
		resolution, err := d.Dedupe(ctx, &jobs[i])
		if err != nil {
			var ambiguity *dedup.AmbiguousDuplicateError
			if errors.As(err, &ambiguity) {
				ambiguous++
				fmt.Fprintf(os.Stdout, "NEEDS REVIEW: %q resembles existing job %s (similarity %.2f)\n",
					ambiguity.CandidateTitle, ambiguity.ExistingJobID, ambiguity.Similarity)
				continue
			}
			return err
		}
		switch resolution.Outcome {
		case dedup.OutcomeCreated:
			created++
		case dedup.OutcomeMerged:
			merged++
		}
	}

	fmt.Fprintf(os.Stdout, "Ingested %d records: %d created, %d merged, %d need review\n",
		len(jobs), created, merged, ambiguous)
	return nil
}
