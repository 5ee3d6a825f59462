package analysis

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/logger"
)

// Outcome delivers a queued request's result to its enqueuer.
type Outcome struct {
	Result *Result
	Err    error
}

type queued struct {
	req Request
	out chan Outcome
}

// Queue accumulates low-priority requests and submits them in batches, either
// when the batch fills or when the flush interval elapses. Nightly bulk work
// goes through the queue; interactive requests call the manager directly.
type Queue struct {
	manager  *Manager
	size     int
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	pending []queued
	kick    chan struct{}
}

// NewQueue creates a batching queue over the manager. size is the batch
// threshold; interval bounds how long a request waits before a partial batch
// is flushed anyway.
func NewQueue(manager *Manager, size int, interval time.Duration, log *zap.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Queue{
		manager:  manager,
		size:     size,
		interval: interval,
		log:      logger.OrNop(log),
		kick:     make(chan struct{}, 1),
	}
}

// Enqueue adds a request to the next batch. The returned channel delivers
// exactly one outcome once the batch holding the request is submitted.
func (q *Queue) Enqueue(req Request) <-chan Outcome {
	out := make(chan Outcome, 1)

	q.mu.Lock()
	q.pending = append(q.pending, queued{req: req, out: out})
	full := len(q.pending) >= q.size
	q.mu.Unlock()

	if full {
		select {
		case q.kick <- struct{}{}:
		default:
		}
	}
	return out
}

// Run drives the queue until the context is cancelled. Pending requests at
// cancellation are failed with the context error rather than dropped silently.
func (q *Queue) Run(ctx context.Context) error {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		select {
		case <-q.kick:
			q.flush(ctx)
		case <-ticker.C:
			q.flush(ctx)
		case <-ctx.Done():
			q.fail(ctx.Err())
			return ctx.Err()
		}
	}
}

// flush submits everything pending as one batch.
func (q *Queue) flush(ctx context.Context) {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	requests := make([]Request, len(batch))
	for i, item := range batch {
		requests[i] = item.req
	}

	q.log.Debug("flushing analysis batch", zap.Int("size", len(batch)))
	results, errs := q.manager.InvokeBatch(ctx, requests)
	for i, item := range batch {
		item.out <- Outcome{Result: results[i], Err: errs[i]}
	}
}

func (q *Queue) fail(err error) {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, item := range batch {
		item.out <- Outcome{Err: err}
	}
}
