package lifecycle

import (
	"fmt"

	"github.com/google/uuid"
)

// ApplicationNotFoundError indicates a transition was requested for an
// application that does not exist.
type ApplicationNotFoundError struct {
	ApplicationID uuid.UUID
}

func (e *ApplicationNotFoundError) Error() string {
	return fmt.Sprintf("application not found: %s", e.ApplicationID)
}

// InvalidStatusError indicates a transition to an unknown status value.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid application status: %q", e.Status)
}

// ConcurrentTransitionConflict records that a transition was applied against
// a different current status than the caller observed. Both transitions are
// logged in the history; the later one wins the current-status field. This is
// reported as metadata on the winning result, not as a failure.
type ConcurrentTransitionConflict struct {
	ApplicationID  uuid.UUID
	ExpectedStatus string
	ActualStatus   string
}

func (e *ConcurrentTransitionConflict) Error() string {
	return fmt.Sprintf("transition on %s expected status %q but found %q",
		e.ApplicationID, e.ExpectedStatus, e.ActualStatus)
}
