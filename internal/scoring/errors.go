// Package scoring computes explainable 0-100 match scores for (resume, job) pairs.
package scoring

import (
	"fmt"

	"github.com/google/uuid"
)

// MissingProfileError indicates the resume version has no parsed skill
// profile yet. Recoverable: the caller re-requests once parsing completes.
type MissingProfileError struct {
	ResumeVersionID uuid.UUID
}

func (e *MissingProfileError) Error() string {
	return fmt.Sprintf("no skill profile for resume version %s", e.ResumeVersionID)
}

// MissingJobError indicates the job record does not exist or was archived
// without a scoreable snapshot.
type MissingJobError struct {
	JobID uuid.UUID
}

func (e *MissingJobError) Error() string {
	return fmt.Sprintf("no scoreable job record %s", e.JobID)
}
