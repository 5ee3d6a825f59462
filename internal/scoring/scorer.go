package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/learning"
	"github.com/jonathan/job-match-engine/internal/logger"
	"github.com/jonathan/job-match-engine/internal/types"
)

// ProfileStore looks up skill profile snapshots.
type ProfileStore interface {
	GetProfileByResumeVersion(ctx context.Context, resumeVersionID uuid.UUID) (*types.SkillProfile, error)
}

// JobStore looks up canonical job records.
type JobStore interface {
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobRecord, error)
}

// MatchStore persists match results. Results are append-only per
// (pair, weight version).
type MatchStore interface {
	SaveMatchResult(ctx context.Context, result *types.MatchResult) (uuid.UUID, error)
	GetMatchResult(ctx context.Context, resumeVersionID, jobID uuid.UUID, weightVersion int) (*types.MatchResult, error)
}

// WeightSource provides the active weight vector and the historical-success
// correlation. The learner implements this.
type WeightSource interface {
	Active(ctx context.Context) (*types.WeightVector, error)
	HistoricalSuccess(ctx context.Context, features learning.JobFeatures) (float64, error)
}

// Scorer computes match results for (resume version, job) pairs.
type Scorer struct {
	profiles ProfileStore
	jobs     JobStore
	matches  MatchStore
	weights  WeightSource
	log      *zap.Logger
	now      func() time.Time
}

// New creates a scorer.
func New(profiles ProfileStore, jobs JobStore, matches MatchStore, weights WeightSource, log *zap.Logger) *Scorer {
	return &Scorer{
		profiles: profiles,
		jobs:     jobs,
		matches:  matches,
		weights:  weights,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Score computes the match result for a (resume version, job) pair under the
// active weight vector. Scoring is idempotent: if a result already exists for
// this pair and weight version, computed from the current profile snapshot,
// it is returned unchanged. A weight change lands in a new weight-version
// row with old rows retained; a reparsed profile replaces the row for its
// weight version, since the stored score no longer describes the inputs.
func (s *Scorer) Score(ctx context.Context, resumeVersionID, jobID uuid.UUID) (*types.MatchResult, error) {
	weights, err := s.weights.Active(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfileByResumeVersion(ctx, resumeVersionID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &MissingProfileError{ResumeVersionID: resumeVersionID}
	}

	existing, err := s.matches.GetMatchResult(ctx, resumeVersionID, jobID, weights.Version)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ProfileID == profile.ID {
		return existing, nil
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.Status == types.JobStatusArchived {
		return nil, &MissingJobError{JobID: jobID}
	}

	computedAt := s.now().UTC()

	skillScore, matched, missing, limited := computeSkillOverlap(profile, job, computedAt)
	subScores := types.SubScores{
		SkillOverlap:    skillScore,
		SeniorityFit:    computeSeniorityFit(profile, job),
		LocationFit:     computeLocationFit(profile, job),
		CompensationFit: computeCompensationFit(profile, job),
	}

	historical, err := s.weights.HistoricalSuccess(ctx, learning.JobFeatures{
		subScores.SkillOverlap,
		subScores.SeniorityFit,
		subScores.LocationFit,
		subScores.CompensationFit,
	})
	if err != nil {
		return nil, err
	}
	subScores.HistoricalSuccess = historical

	result := &types.MatchResult{
		ResumeVersionID: resumeVersionID,
		JobID:           jobID,
		ProfileID:       profile.ID,
		Score:           finalScore(&subScores, weights),
		SubScores:       subScores,
		Explanation:     buildExplanation(&subScores, weights, matched, missing, limited),
		WeightVersion:   weights.Version,
		ComputedAt:      computedAt,
	}

	id, err := s.matches.SaveMatchResult(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to persist match result: %w", err)
	}
	result.ID = id

	s.log.Debug("scored pair",
		zap.String("job_id", jobID.String()),
		zap.Int("score", result.Score),
		zap.Int("weight_version", weights.Version))
	return result, nil
}

// finalScore folds the sub-scores into a 0-100 weighted total.
func finalScore(subScores *types.SubScores, weights *types.WeightVector) int {
	w := weights.AsVector()
	x := subScores.AsVector()

	var weighted, total float64
	for i := range w {
		weighted += w[i] * x[i]
		total += w[i]
	}
	if total == 0 {
		return 0
	}

	score := int(math.Round(100 * weighted / total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
