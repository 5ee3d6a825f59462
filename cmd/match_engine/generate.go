package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/analysis"
	"github.com/jonathan/job-match-engine/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <kind>",
	Short: "Generate a document for a (resume version, job) pair",
	Long:  "Generate runs one free-form analysis kind (generate-cover-letter, tailor-resume, interview-prep) for a resume version and job. All calls go through the invocation manager, so repeats within the cache window cost nothing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var (
	generateResumeVersion string
	generateJobID         string
)

func init() {
	generateCmd.Flags().StringVarP(&generateResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	generateCmd.Flags().StringVarP(&generateJobID, "job", "j", "", "Job id (required)")
	generateCmd.MarkFlagRequired("resume-version") //nolint:errcheck
	generateCmd.MarkFlagRequired("job")            //nolint:errcheck

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind := args[0]
	switch kind {
	case analysis.KindCoverLetter, analysis.KindTailorResume, analysis.KindInterviewPrep:
	default:
		return fmt.Errorf("unknown kind %q (expected %s, %s, or %s)",
			kind, analysis.KindCoverLetter, analysis.KindTailorResume, analysis.KindInterviewPrep)
	}

	resumeVersionID, err := uuid.Parse(generateResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}
	jobID, err := uuid.Parse(generateJobID)
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
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
	job, err := e.db.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", jobID)
	}

	manager, err := e.newAnalysisManager(ctx)
	if err != nil {
		return err
	}

	payload := buildGenerationPayload(profile, job)
	result, err := manager.Invoke(ctx, kind, payload)
	if err != nil {
		return err
	}

	switch kind {
	case analysis.KindCoverLetter:
		fmt.Fprintln(os.Stdout, result.CoverLetter.Text)
	case analysis.KindTailorResume:
		return printJSON(result.Tailoring)
	case analysis.KindInterviewPrep:
		return printJSON(result.Prep)
	}
	return nil
}

// buildGenerationPayload assembles the prompt content for a generation kind.
// The payload is also the cache key input, so it must be deterministic for a
// given (profile, job) pair.
func buildGenerationPayload(profile *types.SkillProfile, job *types.JobRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Job: %s at %s\n", job.Title, job.Company)
	fmt.Fprintf(&sb, "Required skills: %s\n", strings.Join(job.Required, ", "))
	if len(job.NiceToHave) > 0 {
		fmt.Fprintf(&sb, "Nice to have: %s\n", strings.Join(job.NiceToHave, ", "))
	}
	if job.Description != "" {
		fmt.Fprintf(&sb, "Description:\n%s\n", job.Description)
	}
	sb.WriteString("\nCandidate skills:\n")
	for _, skill := range profile.Skills {
		fmt.Fprintf(&sb, "- %s (%s, %.1f years)\n", skill.Skill, skill.Proficiency, skill.Years)
	}
	fmt.Fprintf(&sb, "Total experience: %.1f years\n", profile.TotalYears)
	return sb.String()
}
