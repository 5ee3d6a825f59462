package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-engine/internal/types"
)

func TestBuildGenerationPayload_Deterministic(t *testing.T) {
	profile := &types.SkillProfile{
		TotalYears: 7,
		Skills: []types.SkillEntry{
			{Skill: "Go", Proficiency: "expert", Years: 5},
			{Skill: "Kubernetes", Proficiency: "intermediate", Years: 2},
		},
	}
	job := &types.JobRecord{
		Title:       "Platform Engineer",
		Company:     "Acme",
		Required:    []string{"Go", "Kubernetes"},
		NiceToHave:  []string{"Terraform"},
		Description: "Build and run the internal platform.",
	}

	first := buildGenerationPayload(profile, job)
	second := buildGenerationPayload(profile, job)
	assert.Equal(t, first, second, "payload doubles as the cache key input")

	assert.Contains(t, first, "Platform Engineer at Acme")
	assert.Contains(t, first, "Go, Kubernetes")
	assert.Contains(t, first, "Terraform")
	assert.Contains(t, first, "- Go (expert, 5.0 years)")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	expected := []string{
		"ingest", "score", "rematch", "recommend", "retrain",
		"track", "transition", "stale", "feedback", "parse-resume",
		"generate", "costs", "watch", "bulk-generate", "weights",
		"job-status",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		require.True(t, registered[name], "missing subcommand %s", name)
	}
}
