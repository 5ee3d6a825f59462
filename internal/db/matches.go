package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-match-engine/internal/types"
)

// SaveMatchResult stores a match result. One row exists per
// (resume_version_id, job_id, weight_version); a save against an existing
// row replaces it, which only happens when the profile snapshot changed and
// the score was recomputed.
func (db *DB) SaveMatchResult(ctx context.Context, result *types.MatchResult) (uuid.UUID, error) {
	subScores, err := json.Marshal(result.SubScores)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal sub-scores: %w", err)
	}
	explanation, err := json.Marshal(result.Explanation)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal explanation: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO match_results
		   (resume_version_id, job_id, profile_id, score, sub_scores, explanation, weight_version, computed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (resume_version_id, job_id, weight_version) DO UPDATE
		   SET profile_id = $3, score = $4, sub_scores = $5, explanation = $6,
		       computed_at = $8
		 RETURNING id`,
		result.ResumeVersionID, result.JobID, result.ProfileID, result.Score,
		subScores, explanation, result.WeightVersion, result.ComputedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save match result: %w", err)
	}
	return id, nil
}

// GetMatchResult retrieves the result for a specific (pair, weight version).
// Returns nil if not computed.
func (db *DB) GetMatchResult(ctx context.Context, resumeVersionID, jobID uuid.UUID, weightVersion int) (*types.MatchResult, error) {
	var (
		result      types.MatchResult
		subScores   []byte
		explanation []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_version_id, job_id, profile_id, score, sub_scores,
		        explanation, weight_version, computed_at
		 FROM match_results
		 WHERE resume_version_id = $1 AND job_id = $2 AND weight_version = $3`,
		resumeVersionID, jobID, weightVersion,
	).Scan(&result.ID, &result.ResumeVersionID, &result.JobID, &result.ProfileID,
		&result.Score, &subScores, &explanation, &result.WeightVersion,
		&result.ComputedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match result: %w", err)
	}

	if err := json.Unmarshal(subScores, &result.SubScores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sub-scores: %w", err)
	}
	if err := json.Unmarshal(explanation, &result.Explanation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal explanation: %w", err)
	}
	return &result, nil
}

// LatestSubScoresForJob retrieves the most recent sub-scores computed for a
// job under any resume version. The learner uses these as the job's feature
// vector. Returns nil if the job has never been scored.
func (db *DB) LatestSubScoresForJob(ctx context.Context, jobID uuid.UUID) (*types.SubScores, error) {
	var subScores []byte
	err := db.pool.QueryRow(ctx,
		`SELECT sub_scores FROM match_results
		 WHERE job_id = $1
		 ORDER BY computed_at DESC LIMIT 1`,
		jobID,
	).Scan(&subScores)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sub-scores for job: %w", err)
	}

	var s types.SubScores
	if err := json.Unmarshal(subScores, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sub-scores: %w", err)
	}
	return &s, nil
}

// ListLatestMatches retrieves, for each open job, the most recent match
// result for the given resume version, ordered by score then posting recency.
func (db *DB) ListLatestMatches(ctx context.Context, resumeVersionID uuid.UUID, limit int) ([]types.MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT ON (m.job_id)
		        m.id, m.resume_version_id, m.job_id, m.profile_id, m.score,
		        m.sub_scores, m.explanation, m.weight_version, m.computed_at
		 FROM match_results m
		 JOIN job_records j ON j.id = m.job_id AND j.status = 'open'
		 WHERE m.resume_version_id = $1
		 ORDER BY m.job_id, m.weight_version DESC, m.computed_at DESC
		 LIMIT $2`,
		resumeVersionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var results []types.MatchResult
	for rows.Next() {
		var (
			result      types.MatchResult
			subScores   []byte
			explanation []byte
		)
		if err := rows.Scan(&result.ID, &result.ResumeVersionID, &result.JobID,
			&result.ProfileID, &result.Score, &subScores, &explanation,
			&result.WeightVersion, &result.ComputedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		if err := json.Unmarshal(subScores, &result.SubScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sub-scores: %w", err)
		}
		if err := json.Unmarshal(explanation, &result.Explanation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal explanation: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}
