// Package types provides type definitions for the domain records shared across the match engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus constants for the lifecycle of a canonical job record
const (
	JobStatusOpen     = "open"
	JobStatusClosed   = "closed"
	JobStatusArchived = "archived"
)

// LocationKind constants for how a job expects work to happen
const (
	LocationOnsite = "onsite"
	LocationRemote = "remote"
	LocationHybrid = "hybrid"
)

// SourceRef identifies a posting on a specific job board
type SourceRef struct {
	Source     string `json:"source"`
	ExternalID string `json:"external_id"`
}

// CompensationRange is a stated salary band. A nil range means the posting
// does not disclose compensation.
type CompensationRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency,omitempty"`
}

// Overlap returns the fraction of this range covered by the other range, in [0,1].
func (r *CompensationRange) Overlap(other *CompensationRange) float64 {
	if r == nil || other == nil || r.Max <= r.Min {
		return 0
	}
	lo := max(r.Min, other.Min)
	hi := min(r.Max, other.Max)
	if hi <= lo {
		return 0
	}
	return float64(hi-lo) / float64(r.Max-r.Min)
}

// JobRecord represents a canonical job posting. Ingestion creates candidates;
// the deduplicator assigns the canonical identity. Records are archived,
// never deleted.
type JobRecord struct {
	ID           uuid.UUID          `json:"id"`
	Sources      []SourceRef        `json:"sources"`
	Title        string             `json:"title"`
	Company      string             `json:"company"`
	Location     string             `json:"location"`
	LocationKind string             `json:"location_kind,omitempty"`
	Compensation *CompensationRange `json:"compensation,omitempty"`
	Required     []string           `json:"required_skills"`
	NiceToHave   []string           `json:"nice_to_have_skills"`
	YearsMin     int                `json:"years_min,omitempty"`
	PostedAt     time.Time          `json:"posted_at"`
	Description  string             `json:"description,omitempty"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
}

// HasSource reports whether the record already carries the given source identity.
func (j *JobRecord) HasSource(ref SourceRef) bool {
	for _, s := range j.Sources {
		if s.Source == ref.Source && s.ExternalID == ref.ExternalID {
			return true
		}
	}
	return false
}

// AllSkills returns required and nice-to-have skills as a single slice.
func (j *JobRecord) AllSkills() []string {
	out := make([]string, 0, len(j.Required)+len(j.NiceToHave))
	out = append(out, j.Required...)
	out = append(out, j.NiceToHave...)
	return out
}
