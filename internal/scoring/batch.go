package scoring

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-match-engine/internal/types"
)

// ScoreBatch scores many jobs against one resume version concurrently.
// Results and errors are positionally aligned with jobIDs; one failing pair
// does not abort the rest. Concurrency is bounded by limit, which callers
// set to the analysis manager's concurrency limit since the external call is
// the bottleneck, not local computation.
func (s *Scorer) ScoreBatch(ctx context.Context, resumeVersionID uuid.UUID, jobIDs []uuid.UUID, limit int) ([]*types.MatchResult, []error) {
	if limit <= 0 {
		limit = 4
	}

	results := make([]*types.MatchResult, len(jobIDs))
	errs := make([]error, len(jobIDs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, jobID := range jobIDs {
		i, jobID := i, jobID
		g.Go(func() error {
			result, err := s.Score(gCtx, resumeVersionID, jobID)
			if err != nil {
				errs[i] = err
				return nil // collected, not fatal to the batch
			}
			results[i] = result
			return nil
		})
	}

	_ = g.Wait() // workers never return errors; they record them positionally

	scored := 0
	for _, r := range results {
		if r != nil {
			scored++
		}
	}
	s.log.Info("batch scoring finished",
		zap.Int("requested", len(jobIDs)),
		zap.Int("scored", scored))

	return results, errs
}
