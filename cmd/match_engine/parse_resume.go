package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/analysis"
	"github.com/jonathan/job-match-engine/internal/types"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Parse a resume into a skill profile snapshot",
	Long:  "Parse-resume sends a resume document through the analysis service and stores the extracted skill profile as an immutable snapshot for the given resume version. Reparsing the same document within the cache window reuses the cached result without a new external call.",
	RunE:  runParseResume,
}

var (
	parseResumeFile    string
	parseResumeVersion string
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResumeFile, "file", "f", "", "Path to resume text file (required)")
	parseResumeCmd.Flags().StringVarP(&parseResumeVersion, "resume-version", "r", "", "Resume version id (required)")
	parseResumeCmd.MarkFlagRequired("file")           //nolint:errcheck
	parseResumeCmd.MarkFlagRequired("resume-version") //nolint:errcheck

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, args []string) error {
	resumeVersionID, err := uuid.Parse(parseResumeVersion)
	if err != nil {
		return fmt.Errorf("invalid resume version id: %w", err)
	}

	document, err := os.ReadFile(parseResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	manager, err := e.newAnalysisManager(ctx)
	if err != nil {
		return err
	}

	result, err := manager.Invoke(ctx, analysis.KindParseResume, string(document))
	if err != nil {
		return err
	}

	profile := &types.SkillProfile{
		ResumeVersionID: resumeVersionID,
		Skills:          result.Profile.Skills,
		TotalYears:      result.Profile.TotalYears,
		LocationPref:    result.Profile.LocationPref,
		PreferredRange:  result.Profile.Compensation,
	}
	id, err := e.db.SaveProfile(ctx, profile)
	if err != nil {
		return err
	}

	cached := ""
	if result.Cached {
		cached = " (from cache)"
	}
	fmt.Fprintf(os.Stdout, "Saved skill profile %s with %d skills%s\n",
		id, len(profile.Skills), cached)
	return nil
}
