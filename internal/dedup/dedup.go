package dedup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/logger"
	"github.com/jonathan/job-match-engine/internal/types"
)

// Store is the persistence surface the deduplicator needs.
type Store interface {
	ListJobsByCompany(ctx context.Context, company string) ([]types.JobRecord, error)
	CreateJob(ctx context.Context, job *types.JobRecord) (uuid.UUID, error)
	MergeJobSources(ctx context.Context, job *types.JobRecord) error
}

// Outcome constants for a dedup resolution
const (
	OutcomeCreated = "created"
	OutcomeMerged  = "merged"
)

// Resolution is the result of resolving one candidate record.
type Resolution struct {
	Outcome     string
	CanonicalID uuid.UUID
	Similarity  float64
}

// Deduplicator resolves candidate postings against canonical records.
type Deduplicator struct {
	store         Store
	lowThreshold  float64
	highThreshold float64
	log           *zap.Logger
}

// New creates a deduplicator. Candidates with description similarity at or
// above highThreshold auto-merge; between lowThreshold and highThreshold they
// fail with AmbiguousDuplicateError for manual review.
func New(store Store, lowThreshold, highThreshold float64, log *zap.Logger) *Deduplicator {
	if lowThreshold <= 0 {
		lowThreshold = 0.60
	}
	if highThreshold <= 0 {
		highThreshold = 0.85
	}
	return &Deduplicator{
		store:         store,
		lowThreshold:  lowThreshold,
		highThreshold: highThreshold,
		log:           logger.OrNop(log),
	}
}

// Dedupe resolves a candidate job record. On a confident match it merges
// into the existing canonical record, keeping the earliest posted date and
// the union of source identifiers, and returns the canonical ID. Otherwise
// it creates a new canonical record.
func (d *Deduplicator) Dedupe(ctx context.Context, candidate *types.JobRecord) (*Resolution, error) {
	existing, err := d.store.ListJobsByCompany(ctx, candidate.Company)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	best, similarity := d.bestMatch(candidate, existing)
	if best != nil {
		if similarity >= d.highThreshold || sharesSource(best, candidate) {
			return d.merge(ctx, best, candidate, similarity)
		}
		if similarity >= d.lowThreshold {
			d.log.Warn("ambiguous duplicate flagged for review",
				zap.String("candidate_title", candidate.Title),
				zap.String("existing_job_id", best.ID.String()),
				zap.Float64("similarity", similarity))
			return nil, &AmbiguousDuplicateError{
				CandidateTitle: candidate.Title,
				ExistingJobID:  best.ID,
				Similarity:     similarity,
			}
		}
	}

	if candidate.Status == "" {
		candidate.Status = types.JobStatusOpen
	}
	id, err := d.store.CreateJob(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to create canonical job: %w", err)
	}
	d.log.Debug("created canonical job",
		zap.String("job_id", id.String()),
		zap.String("title", candidate.Title))
	return &Resolution{Outcome: OutcomeCreated, CanonicalID: id}, nil
}

// bestMatch finds the stored record most similar to the candidate among those
// sharing a normalized (company, title, location) identity.
func (d *Deduplicator) bestMatch(candidate *types.JobRecord, existing []types.JobRecord) (*types.JobRecord, float64) {
	candTitle := NormalizeTitle(candidate.Title)
	candCompany := normalizeKey(candidate.Company)
	candLocation := normalizeKey(candidate.Location)

	var (
		best    *types.JobRecord
		bestSim float64
	)
	for i := range existing {
		job := &existing[i]
		if normalizeKey(job.Company) != candCompany {
			continue
		}
		if NormalizeTitle(job.Title) != candTitle {
			continue
		}
		if normalizeKey(job.Location) != candLocation {
			continue
		}

		// An already-seen source identity is decisive regardless of how the
		// boards mangled the description.
		if sharesSource(job, candidate) {
			return job, 1.0
		}

		sim := DescriptionSimilarity(job.Description, candidate.Description)
		if best == nil || sim > bestSim {
			best = job
			bestSim = sim
		}
	}
	return best, bestSim
}

func (d *Deduplicator) merge(ctx context.Context, canonical, candidate *types.JobRecord, similarity float64) (*Resolution, error) {
	changed := false
	for _, ref := range candidate.Sources {
		if !canonical.HasSource(ref) {
			canonical.Sources = append(canonical.Sources, ref)
			changed = true
		}
	}
	if !candidate.PostedAt.IsZero() && candidate.PostedAt.Before(canonical.PostedAt) {
		canonical.PostedAt = candidate.PostedAt
		changed = true
	}

	if changed {
		if err := d.store.MergeJobSources(ctx, canonical); err != nil {
			return nil, fmt.Errorf("failed to merge into canonical job: %w", err)
		}
	}
	d.log.Debug("merged duplicate posting",
		zap.String("job_id", canonical.ID.String()),
		zap.Float64("similarity", similarity))
	return &Resolution{Outcome: OutcomeMerged, CanonicalID: canonical.ID, Similarity: similarity}, nil
}

func sharesSource(a, b *types.JobRecord) bool {
	for _, ref := range b.Sources {
		if a.HasSource(ref) {
			return true
		}
	}
	return false
}
