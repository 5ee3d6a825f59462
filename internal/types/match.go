//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// SubScores holds the five normalized sub-scores, each in [0,1].
type SubScores struct {
	SkillOverlap      float64 `json:"skill_overlap"`
	SeniorityFit      float64 `json:"seniority_fit"`
	LocationFit       float64 `json:"location_fit"`
	CompensationFit   float64 `json:"compensation_fit"`
	HistoricalSuccess float64 `json:"historical_success"`
}

// AsVector returns the sub-scores in canonical feature order.
func (s *SubScores) AsVector() FeatureVector {
	return FeatureVector{
		s.SkillOverlap,
		s.SeniorityFit,
		s.LocationFit,
		s.CompensationFit,
		s.HistoricalSuccess,
	}
}

// ScoreContribution names one feature's contribution to the final score.
type ScoreContribution struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
	Weight  float64 `json:"weight"`
}

// Explanation is the mandatory human-readable payload attached to every
// MatchResult. Matching and missing skill lists are disjoint.
type Explanation struct {
	TopContributors []ScoreContribution `json:"top_contributors"`
	TopDetractors   []ScoreContribution `json:"top_detractors"`
	MatchingSkills  []string            `json:"matching_skills"`
	MissingSkills   []string            `json:"missing_skills"`
	Summary         string              `json:"summary,omitempty"`
}

// MatchResult is the scored outcome for one (resume version, job) pair under
// one weight vector version. One row exists per (pair, weight version);
// ProfileID pins the skill profile snapshot the score was computed from, so
// a reparsed resume invalidates the row and forces a recompute.
type MatchResult struct {
	ID              uuid.UUID   `json:"id"`
	ResumeVersionID uuid.UUID   `json:"resume_version_id"`
	JobID           uuid.UUID   `json:"job_id"`
	ProfileID       uuid.UUID   `json:"profile_id"`
	Score           int         `json:"score"`
	SubScores       SubScores   `json:"sub_scores"`
	Explanation     Explanation `json:"explanation"`
	WeightVersion   int         `json:"weight_version"`
	ComputedAt      time.Time   `json:"computed_at"`
}
