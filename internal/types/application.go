//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Application status values. The lifecycle is deliberately non-linear: any
// status may move to any other. The authoritative record is the append-only
// history; the current status is the projection of the last entry.
const (
	StatusSaved     = "saved"
	StatusApplied   = "applied"
	StatusScreening = "screening"
	StatusInterview = "interview"
	StatusOffer     = "offer"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

// ApplicationStatuses lists all valid status values.
var ApplicationStatuses = []string{
	StatusSaved, StatusApplied, StatusScreening, StatusInterview,
	StatusOffer, StatusAccepted, StatusRejected, StatusWithdrawn,
}

// IsTerminalStatus reports whether a status ends the application lifecycle.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// IsValidStatus reports whether the value is a known application status.
func IsValidStatus(status string) bool {
	for _, s := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// StatusHistoryEntry is one immutable entry in an application's audit trail.
// Entries are only ever appended, never edited or reordered.
type StatusHistoryEntry struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ApplicationRecord tracks one (job, resume version, cover letter) the user
// is pursuing. Status changes go through the state machine only.
type ApplicationRecord struct {
	ID              uuid.UUID  `json:"id"`
	JobID           uuid.UUID  `json:"job_id"`
	ResumeVersionID uuid.UUID  `json:"resume_version_id"`
	CoverLetterID   *uuid.UUID `json:"cover_letter_id,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
