//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Feedback action kinds
const (
	ActionInterested       = "interested"
	ActionPassed           = "passed"
	ActionApplied          = "applied"
	ActionInterviewOutcome = "interview_outcome"
)

// Training labels derived from feedback signals
const (
	LabelPositive = 1
	LabelNeutral  = 0
	LabelNegative = -1
)

// FeedbackSignal is one append-only event of user action on a job. The full
// log is the learner's training set and is never mutated or deleted.
type FeedbackSignal struct {
	ID               uuid.UUID `json:"id"`
	JobID            uuid.UUID `json:"job_id"`
	Action           string    `json:"action"`
	Outcome          string    `json:"outcome,omitempty"`
	ReachedInterview bool      `json:"reached_interview,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Label collapses a signal into a training label. Reaching an interview or
// better is positive; an explicit pass or a rejection that never reached an
// interview is negative; anything without a terminal outcome is neutral and
// excluded from training.
func (s *FeedbackSignal) Label() int {
	switch s.Action {
	case ActionPassed:
		return LabelNegative
	case ActionInterviewOutcome:
		if s.ReachedInterview {
			return LabelPositive
		}
		if s.Outcome == StatusRejected {
			return LabelNegative
		}
		return LabelNeutral
	default:
		return LabelNeutral
	}
}
