package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/lifecycle"
	"github.com/jonathan/job-match-engine/internal/logger"
	"github.com/jonathan/job-match-engine/internal/types"
)

// StaleSource lists currently stale applications.
type StaleSource interface {
	FindStale(ctx context.Context) ([]lifecycle.StaleApplication, error)
}

// HistorySource lists status history entries appended after an instant.
type HistorySource interface {
	ListHistorySince(ctx context.Context, since time.Time) ([]types.StatusHistoryEntry, error)
}

// TopSource serves ranked recommendations. Satisfied by Recommender.
type TopSource interface {
	Top(ctx context.Context, resumeVersionID uuid.UUID, n int) ([]Recommendation, error)
}

// Watcher polls the read side and publishes what changed onto the feed:
// status transitions appended since the last poll, applications that newly
// crossed the idle threshold, and jobs that newly entered the top
// recommendations. Each stale application and each recommended job is
// announced once; a stale flag re-arms when activity clears it.
type Watcher struct {
	feed    *Feed
	stale   StaleSource
	history HistorySource
	top     TopSource
	resume  uuid.UUID

	topN     int
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time

	lastSeen    time.Time
	flagged     map[uuid.UUID]bool
	recommended map[uuid.UUID]bool
}

// NewWatcher creates a watcher publishing to feed for one resume version.
// topN bounds how deep into the ranking a job counts as recommendable;
// interval is the poll period.
func NewWatcher(feed *Feed, stale StaleSource, history HistorySource, top TopSource,
	resumeVersionID uuid.UUID, topN int, interval time.Duration, log *zap.Logger) *Watcher {
	if topN <= 0 {
		topN = 5
	}
	if interval <= 0 {
		interval = time.Minute
	}
	w := &Watcher{
		feed:        feed,
		stale:       stale,
		history:     history,
		top:         top,
		resume:      resumeVersionID,
		topN:        topN,
		interval:    interval,
		log:         logger.OrNop(log),
		now:         time.Now,
		flagged:     make(map[uuid.UUID]bool),
		recommended: make(map[uuid.UUID]bool),
	}
	w.lastSeen = w.now().UTC()
	return w
}

// Run polls until the context is cancelled. The first poll happens
// immediately so a fresh watcher reports existing stale applications without
// waiting a full interval.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.Poll(ctx); err != nil {
		w.log.Warn("watch poll failed", zap.Error(err))
	}
	for {
		select {
		case <-ticker.C:
			if err := w.Poll(ctx); err != nil {
				w.log.Warn("watch poll failed", zap.Error(err))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Poll runs one pass over all three sources and publishes anything new.
func (w *Watcher) Poll(ctx context.Context) error {
	if err := w.pollHistory(ctx); err != nil {
		return err
	}
	if err := w.pollStale(ctx); err != nil {
		return err
	}
	return w.pollRecommendations(ctx)
}

func (w *Watcher) pollHistory(ctx context.Context) error {
	entries, err := w.history.ListHistorySince(ctx, w.lastSeen)
	if err != nil {
		return err
	}
	for i := range entries {
		entry := entries[i]
		w.feed.PublishStatusChange(&entry)
		if entry.CreatedAt.After(w.lastSeen) {
			w.lastSeen = entry.CreatedAt
		}
		// New activity re-arms the stale flag for this application.
		delete(w.flagged, entry.ApplicationID)
	}
	return nil
}

func (w *Watcher) pollStale(ctx context.Context) error {
	stale, err := w.stale.FindStale(ctx)
	if err != nil {
		return err
	}
	current := make(map[uuid.UUID]bool, len(stale))
	for _, s := range stale {
		current[s.Application.ID] = true
		if w.flagged[s.Application.ID] {
			continue
		}
		w.flagged[s.Application.ID] = true
		w.feed.PublishStaleFlag(&StaleFlag{
			ApplicationID: s.Application.ID,
			JobID:         s.Application.JobID,
			IdleFor:       s.IdleFor,
		})
	}
	for id := range w.flagged {
		if !current[id] {
			delete(w.flagged, id)
		}
	}
	return nil
}

func (w *Watcher) pollRecommendations(ctx context.Context) error {
	recs, err := w.top.Top(ctx, w.resume, w.topN)
	if err != nil {
		return err
	}
	for i := range recs {
		rec := recs[i]
		if w.recommended[rec.Job.ID] {
			continue
		}
		w.recommended[rec.Job.ID] = true
		w.feed.PublishRecommendation(&rec)
	}
	return nil
}
