package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-engine/internal/types"
)

var staleNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func TestIsStale(t *testing.T) {
	threshold := 14 * 24 * time.Hour
	tests := []struct {
		name   string
		status string
		idle   time.Duration
		want   bool
	}{
		{"applied past threshold", types.StatusApplied, 15 * 24 * time.Hour, true},
		{"applied exactly at threshold", types.StatusApplied, 14 * 24 * time.Hour, true},
		{"applied recently active", types.StatusApplied, 3 * 24 * time.Hour, false},
		{"saved never stale", types.StatusSaved, 30 * 24 * time.Hour, false},
		{"interview never stale", types.StatusInterview, 30 * 24 * time.Hour, false},
		{"rejected never stale", types.StatusRejected, 60 * 24 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsStale(tt.status, staleNow.Add(-tt.idle), staleNow, threshold)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindStale(t *testing.T) {
	store := newFakeStore()
	m := New(store, nil, nil)
	ctx := context.Background()

	idleID := trackApp(t, m, store)
	_, err := m.Transition(ctx, idleID, types.StatusApplied, "", "")
	require.NoError(t, err)

	activeID := trackApp(t, m, store)
	_, err = m.Transition(ctx, activeID, types.StatusApplied, "", "")
	require.NoError(t, err)

	savedID := trackApp(t, m, store)

	// Three weeks pass; the active application is touched a day before the
	// detector reads, so only the idle one crosses the threshold.
	now := store.clock.Add(21 * 24 * time.Hour)
	store.clock = now.Add(-24 * time.Hour)
	_, err = m.Transition(ctx, activeID, types.StatusApplied, "followed up by email", "")
	require.NoError(t, err)

	detector := NewDetector(store, 14*24*time.Hour)
	detector.now = func() time.Time { return now }

	stale, err := detector.FindStale(ctx)
	require.NoError(t, err)

	require.Len(t, stale, 1)
	assert.Equal(t, idleID, stale[0].Application.ID)
	assert.GreaterOrEqual(t, stale[0].IdleFor, 14*24*time.Hour)
	_ = savedID
}

func TestFindStale_FlipsOnNewActivity(t *testing.T) {
	store := newFakeStore()
	m := New(store, nil, nil)
	ctx := context.Background()

	id := trackApp(t, m, store)
	_, err := m.Transition(ctx, id, types.StatusApplied, "", "")
	require.NoError(t, err)

	now := store.clock.Add(20 * 24 * time.Hour)
	detector := NewDetector(store, 14*24*time.Hour)
	detector.now = func() time.Time { return now }

	stale, err := detector.FindStale(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)

	// A new history entry clears the flag immediately.
	store.clock = now.Add(-time.Hour)
	_, err = m.Transition(ctx, id, types.StatusApplied, "recruiter replied", "")
	require.NoError(t, err)

	stale, err = detector.FindStale(ctx)
	require.NoError(t, err)
	assert.Empty(t, stale)
}
