// Package dedup resolves incoming job candidates against canonical job records.
package dedup

import (
	"fmt"

	"github.com/google/uuid"
)

// AmbiguousDuplicateError reports a candidate whose similarity to an existing
// record falls between the auto-merge and distinct thresholds. These are
// surfaced for manual review; a false merge is worse than a missed one.
type AmbiguousDuplicateError struct {
	CandidateTitle string
	ExistingJobID  uuid.UUID
	Similarity     float64
}

func (e *AmbiguousDuplicateError) Error() string {
	return fmt.Sprintf("ambiguous duplicate: %q resembles job %s (similarity %.2f), manual review required",
		e.CandidateTitle, e.ExistingJobID, e.Similarity)
}
