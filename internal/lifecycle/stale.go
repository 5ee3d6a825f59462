package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-match-engine/internal/types"
)

// StaleStore is the read side the detector needs.
type StaleStore interface {
	ListApplicationsByStatus(ctx context.Context, status string) ([]types.ApplicationRecord, error)
	LatestHistoryAt(ctx context.Context, appID uuid.UUID) (time.Time, error)
}

// StaleApplication is an applied application with no status activity for at
// least the threshold.
type StaleApplication struct {
	Application  types.ApplicationRecord
	LastActivity time.Time
	IdleFor      time.Duration
}

// IsStale reports whether an application is stale: status applied and no
// history entry for at least the threshold. The flag is derived, never
// persisted, so it flips false the instant a new entry is appended.
func IsStale(status string, lastActivity, now time.Time, threshold time.Duration) bool {
	return status == types.StatusApplied && now.Sub(lastActivity) >= threshold
}

// Detector recomputes staleness lazily on read. No background daemon.
type Detector struct {
	store     StaleStore
	threshold time.Duration
	now       func() time.Time
}

// NewDetector creates a detector with the given idle threshold.
func NewDetector(store StaleStore, threshold time.Duration) *Detector {
	return &Detector{store: store, threshold: threshold, now: time.Now}
}

// FindStale returns all currently stale applications, most idle first.
func (d *Detector) FindStale(ctx context.Context) ([]StaleApplication, error) {
	apps, err := d.store.ListApplicationsByStatus(ctx, types.StatusApplied)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied applications: %w", err)
	}

	now := d.now().UTC()
	var stale []StaleApplication
	for _, app := range apps {
		last, err := d.store.LatestHistoryAt(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		if !IsStale(app.Status, last, now, d.threshold) {
			continue
		}
		stale = append(stale, StaleApplication{
			Application:  app,
			LastActivity: last,
			IdleFor:      now.Sub(last),
		})
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].IdleFor > stale[j].IdleFor
	})
	return stale, nil
}
