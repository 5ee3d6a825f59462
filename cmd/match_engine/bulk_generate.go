package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/analysis"
	"github.com/jonathan/job-match-engine/internal/recommend"
)

var bulkGenerateCmd = &cobra.Command{
	Use:   "bulk-generate <kind>",
	Short: "Generate documents for the current top recommendations in batches",
	Long:  "Bulk-generate runs one analysis kind (generate-cover-letter, tailor-resume, interview-prep) for every job in the current top recommendations. Requests go through the batching queue rather than one call per job, so partial batches wait for the flush interval and cached results cost nothing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBulkGenerate,
}

var (
	bulkResumeVersion string
	bulkTopN          int
	bulkBatchSize     int
	bulkFlushInterval time.Duration
)

func init() {
	bulkGenerateCmd.Flags().StringVarP(&bulkResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	bulkGenerateCmd.Flags().IntVarP(&bulkTopN, "top", "n", 10, "How many top recommendations to cover")
	bulkGenerateCmd.Flags().IntVar(&bulkBatchSize, "batch-size", 4, "Requests per submitted batch")
	bulkGenerateCmd.Flags().DurationVar(&bulkFlushInterval, "flush-interval", 5*time.Second, "How long a partial batch waits before submission")
	bulkGenerateCmd.MarkFlagRequired("resume-version") //nolint:errcheck

	rootCmd.AddCommand(bulkGenerateCmd)
}

func runBulkGenerate(cmd *cobra.Command, args []string) error {
	kind := args[0]
	switch kind {
	case analysis.KindCoverLetter, analysis.KindTailorResume, analysis.KindInterviewPrep:
	default:
		return fmt.Errorf("unknown kind %q (expected %s, %s, or %s)",
			kind, analysis.KindCoverLetter, analysis.KindTailorResume, analysis.KindInterviewPrep)
	}

	resumeVersionID, err := uuid.Parse(bulkResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	profile, err := e.db.GetProfileByResumeVersion(ctx, resumeVersionID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no skill profile for resume version %s; run parse-resume first", resumeVersionID)
	}

	recommender := recommend.New(e.db, e.db, e.log)
	recs, err := recommender.Top(ctx, resumeVersionID, bulkTopN)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, "No open recommendations to generate for")
		return nil
	}

	manager, err := e.newAnalysisManager(ctx)
	if err != nil {
		return err
	}
	queue := analysis.NewQueue(manager, bulkBatchSize, bulkFlushInterval, e.log)

	queueCtx, stopQueue := context.WithCancel(ctx)
	defer stopQueue()
	go queue.Run(queueCtx) //nolint:errcheck

	outcomes := make([]<-chan analysis.Outcome, len(recs))
	for i, rec := range recs {
		job := rec.Job
		outcomes[i] = queue.Enqueue(analysis.Request{
			Kind:    kind,
			Payload: buildGenerationPayload(profile, &job),
		})
	}

	var failed int
	for i, ch := range outcomes {
		out := <-ch
		job := recs[i].Job
		if out.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED  %s at %s: %v\n", job.Title, job.Company, out.Err)
			continue
		}
		cached := ""
		if out.Result.Cached {
			cached = "  (cached)"
		}
		fmt.Fprintf(os.Stdout, "ok  %s at %s%s\n", job.Title, job.Company, cached)
	}

	fmt.Fprintf(os.Stdout, "Generated %d of %d\n", len(recs)-failed, len(recs))
	if failed > 0 {
		return fmt.Errorf("%d of %d generations failed", failed, len(recs))
	}
	return nil
}
