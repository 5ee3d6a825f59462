// Package recommend exposes the engine's read side for the messaging
// collaborator: a pull query over ranked matches and an event feed of status
// changes and stale flags. Delivery is the subscriber's problem.
package recommend

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/logger"
	"github.com/jonathan/job-match-engine/internal/types"
)

// candidatePool is how many latest match rows are considered before ranking.
const candidatePool = 200

// MatchSource lists the latest match result per open job.
type MatchSource interface {
	ListLatestMatches(ctx context.Context, resumeVersionID uuid.UUID, limit int) ([]types.MatchResult, error)
}

// JobStore resolves job records for ranked matches.
type JobStore interface {
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobRecord, error)
}

// Recommendation pairs a ranked match with its job record.
type Recommendation struct {
	Job    types.JobRecord   `json:"job"`
	Result types.MatchResult `json:"result"`
}

// Recommender serves topRecommendations queries.
type Recommender struct {
	matches MatchSource
	jobs    JobStore
	log     *zap.Logger
}

// New creates a recommender over the match and job stores.
func New(matches MatchSource, jobs JobStore, log *zap.Logger) *Recommender {
	return &Recommender{matches: matches, jobs: jobs, log: logger.OrNop(log)}
}

// Top returns the n best current recommendations for a resume version,
// highest score first. Equal scores are broken by posting recency, newest
// first, then by job id so the order is stable.
func (r *Recommender) Top(ctx context.Context, resumeVersionID uuid.UUID, n int) ([]Recommendation, error) {
	if n <= 0 {
		return nil, nil
	}

	matches, err := r.matches.ListLatestMatches(ctx, resumeVersionID, candidatePool)
	if err != nil {
		return nil, fmt.Errorf("failed to load match candidates: %w", err)
	}

	recs := make([]Recommendation, 0, len(matches))
	for _, match := range matches {
		job, err := r.jobs.GetJob(ctx, match.JobID)
		if err != nil {
			return nil, err
		}
		if job == nil || job.Status != types.JobStatusOpen {
			continue
		}
		recs = append(recs, Recommendation{Job: *job, Result: match})
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		if !a.Job.PostedAt.Equal(b.Job.PostedAt) {
			return a.Job.PostedAt.After(b.Job.PostedAt)
		}
		return bytes.Compare(a.Job.ID[:], b.Job.ID[:]) < 0
	})

	if len(recs) > n {
		recs = recs[:n]
	}
	r.log.Debug("recommendations served",
		zap.String("resume_version_id", resumeVersionID.String()),
		zap.Int("returned", len(recs)))
	return recs, nil
}
