// Package lifecycle tracks applications through their status graph. Any
// status may move to any other; the append-only history is authoritative and
// the current status is the projection of the last entry.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/logger"
	"github.com/jonathan/job-match-engine/internal/types"
)

// Store persists application records and their status history. AppendTransition
// must apply the status change and the history entry atomically.
type Store interface {
	CreateApplication(ctx context.Context, app *types.ApplicationRecord, note string) (uuid.UUID, error)
	GetApplication(ctx context.Context, appID uuid.UUID) (*types.ApplicationRecord, error)
	AppendTransition(ctx context.Context, appID uuid.UUID, status, note string) (*types.StatusHistoryEntry, error)
	GetHistory(ctx context.Context, appID uuid.UUID) ([]types.StatusHistoryEntry, error)
}

// FeedbackSink receives the signal emitted when an application reaches a
// terminal status.
type FeedbackSink interface {
	AppendFeedback(ctx context.Context, signal *types.FeedbackSignal) (uuid.UUID, error)
}

// TransitionResult reports an applied transition. Conflict is set when the
// caller's expected status had already been overtaken by another transition;
// the transition is still applied and logged.
type TransitionResult struct {
	Entry    *types.StatusHistoryEntry
	Conflict *ConcurrentTransitionConflict
}

// Machine serializes transitions per application. Independent applications
// transition in parallel; two transitions on the same application never
// interleave their history entries.
type Machine struct {
	store    Store
	feedback FeedbackSink
	log      *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// New creates a state machine over the given store. The feedback sink may be
// nil, in which case terminal transitions emit no signal.
func New(store Store, feedback FeedbackSink, log *zap.Logger) *Machine {
	return &Machine{
		store:    store,
		feedback: feedback,
		log:      logger.OrNop(log),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing transitions for one application.
func (m *Machine) lockFor(appID uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[appID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[appID] = l
	}
	return l
}

// Track starts tracking an application. The initial status defaults to saved
// and is written as the first history entry.
func (m *Machine) Track(ctx context.Context, app *types.ApplicationRecord, note string) (uuid.UUID, error) {
	if app.Status == "" {
		app.Status = types.StatusSaved
	}
	if !types.IsValidStatus(app.Status) {
		return uuid.Nil, &InvalidStatusError{Status: app.Status}
	}

	id, err := m.store.CreateApplication(ctx, app, note)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create application: %w", err)
	}

	m.log.Info("tracking application",
		zap.String("application_id", id.String()),
		zap.String("job_id", app.JobID.String()),
		zap.String("status", app.Status))
	return id, nil
}

// Transition moves an application to a new status. The status change and the
// history entry are committed atomically; no transition is ever silently
// dropped. expectedFrom, when non-empty, is the status the caller last
// observed: a mismatch does not reject the transition but is reported as
// conflict metadata on the result.
//
// A transition to a terminal status also emits a feedback signal so the
// learner can use the outcome. If emitting the signal fails, the transition
// is already committed; the result is returned alongside the error.
func (m *Machine) Transition(ctx context.Context, appID uuid.UUID, toStatus, note, expectedFrom string) (*TransitionResult, error) {
	if !types.IsValidStatus(toStatus) {
		return nil, &InvalidStatusError{Status: toStatus}
	}

	l := m.lockFor(appID)
	l.Lock()
	defer l.Unlock()

	app, err := m.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &ApplicationNotFoundError{ApplicationID: appID}
	}

	entry, err := m.store.AppendTransition(ctx, appID, toStatus, note)
	if err != nil {
		return nil, fmt.Errorf("failed to append transition: %w", err)
	}

	result := &TransitionResult{Entry: entry}
	if expectedFrom != "" && expectedFrom != app.Status {
		result.Conflict = &ConcurrentTransitionConflict{
			ApplicationID:  appID,
			ExpectedStatus: expectedFrom,
			ActualStatus:   app.Status,
		}
		m.log.Warn("transition conflict, later writer wins",
			zap.String("application_id", appID.String()),
			zap.String("expected", expectedFrom),
			zap.String("actual", app.Status))
	}

	m.log.Info("application transitioned",
		zap.String("application_id", appID.String()),
		zap.String("from", app.Status),
		zap.String("to", toStatus))

	if types.IsTerminalStatus(toStatus) && m.feedback != nil {
		if err := m.emitOutcome(ctx, app, toStatus, note); err != nil {
			return result, fmt.Errorf("transition committed but failed to emit feedback: %w", err)
		}
	}
	return result, nil
}

// emitOutcome appends the feedback signal for a terminal transition. Whether
// the application reached an interview is derived from the history log, which
// is authoritative.
func (m *Machine) emitOutcome(ctx context.Context, app *types.ApplicationRecord, toStatus, note string) error {
	history, err := m.store.GetHistory(ctx, app.ID)
	if err != nil {
		return err
	}

	reached := toStatus == types.StatusAccepted
	for _, entry := range history {
		if entry.Status == types.StatusInterview || entry.Status == types.StatusOffer {
			reached = true
			break
		}
	}

	signal := &types.FeedbackSignal{
		JobID:            app.JobID,
		Action:           types.ActionInterviewOutcome,
		Outcome:          toStatus,
		ReachedInterview: reached,
		Reason:           note,
	}
	if _, err := m.feedback.AppendFeedback(ctx, signal); err != nil {
		return err
	}

	m.log.Debug("outcome signal emitted",
		zap.String("job_id", app.JobID.String()),
		zap.String("outcome", toStatus),
		zap.Bool("reached_interview", reached))
	return nil
}
