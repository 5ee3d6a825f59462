package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/job-match-engine/internal/types"
)

// topExplained is how many contributing and detracting features the
// explanation names.
const topExplained = 2

// buildExplanation assembles the mandatory explanation payload: the features
// that pulled the score up and down, and the concrete skills behind the
// skill-overlap number.
func buildExplanation(subScores *types.SubScores, weights *types.WeightVector, matched, missing, limited []string) types.Explanation {
	w := weights.AsVector()
	x := subScores.AsVector()

	contributions := make([]types.ScoreContribution, len(types.FeatureNames))
	for i, name := range types.FeatureNames {
		contributions[i] = types.ScoreContribution{
			Feature: name,
			Score:   x[i],
			Weight:  w[i],
		}
	}

	byImpact := make([]types.ScoreContribution, len(contributions))
	copy(byImpact, contributions)
	sort.SliceStable(byImpact, func(i, j int) bool {
		return byImpact[i].Score*byImpact[i].Weight > byImpact[j].Score*byImpact[j].Weight
	})

	top := make([]types.ScoreContribution, 0, topExplained)
	for i := 0; i < len(byImpact) && i < topExplained; i++ {
		top = append(top, byImpact[i])
	}
	bottom := make([]types.ScoreContribution, 0, topExplained)
	for i := len(byImpact) - 1; i >= 0 && len(bottom) < topExplained; i-- {
		bottom = append(bottom, byImpact[i])
	}

	sort.Strings(matched)
	sort.Strings(missing)
	sort.Strings(limited)

	return types.Explanation{
		TopContributors: top,
		TopDetractors:   bottom,
		MatchingSkills:  matched,
		MissingSkills:   missing,
		Summary:         summarize(subScores, matched, missing, limited),
	}
}

// summarize produces a one-line human-readable account of the match.
func summarize(subScores *types.SubScores, matched, missing, limited []string) string {
	var parts []string

	switch {
	case subScores.SkillOverlap >= 0.7 && len(matched) > 0:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(matched, ", ")))
	case subScores.SkillOverlap >= 0.4 && len(matched) > 0:
		parts = append(parts, fmt.Sprintf("Partial skill match (%s)", strings.Join(matched, ", ")))
	case len(matched) > 0:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(matched, ", ")))
	default:
		parts = append(parts, "No skill matches")
	}

	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("Gaps: %s", strings.Join(missing, ", ")))
	}
	if len(limited) > 0 {
		parts = append(parts, fmt.Sprintf("Limited depth: %s", strings.Join(limited, ", ")))
	}

	if subScores.HistoricalSuccess > 0.7 {
		parts = append(parts, "Resembles past successful applications")
	}

	return strings.Join(parts, ". ")
}
