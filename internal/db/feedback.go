package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/job-match-engine/internal/types"
)

// AppendFeedback records a feedback signal. The signal log is append-only:
// there is no update or delete path for this table.
func (db *DB) AppendFeedback(ctx context.Context, signal *types.FeedbackSignal) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO feedback_signals
		   (job_id, action, outcome, reached_interview, reason)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		signal.JobID, signal.Action, signal.Outcome, signal.ReachedInterview,
		signal.Reason,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to append feedback: %w", err)
	}
	return id, nil
}

// ListFeedback retrieves the full signal log in chronological order. This is
// the learner's training set.
func (db *DB) ListFeedback(ctx context.Context) ([]types.FeedbackSignal, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, action, outcome, reached_interview, reason, created_at
		 FROM feedback_signals ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var signals []types.FeedbackSignal
	for rows.Next() {
		var s types.FeedbackSignal
		if err := rows.Scan(&s.ID, &s.JobID, &s.Action, &s.Outcome,
			&s.ReachedInterview, &s.Reason, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, nil
}

// CountFeedbackSince counts signals recorded after the given weight vector
// version was trained. The learner uses this to decide whether enough new
// signal has accumulated for a retrain.
func (db *DB) CountFeedbackSince(ctx context.Context, weightVersion int) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM feedback_signals f
		 WHERE f.created_at > COALESCE(
		   (SELECT created_at FROM weight_vectors WHERE version = $1), 'epoch')`,
		weightVersion,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
