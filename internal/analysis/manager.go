package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-match-engine/internal/db"
	"github.com/jonathan/job-match-engine/internal/logger"
)

const backoffBase = 500 * time.Millisecond

// CacheStore persists cached invocation results and the cost ledger.
type CacheStore interface {
	GetFreshInvocation(ctx context.Context, kind, contentHash string, ttl time.Duration) (*db.CachedInvocation, error)
	PutInvocation(ctx context.Context, kind, contentHash string, result []byte) error
	RecordCost(ctx context.Context, entry *db.CostEntry) error
	SummarizeCosts(ctx context.Context, since time.Time) (*db.CostSummary, error)
}

// Options bound the manager's calls to the external service.
type Options struct {
	Timeout         time.Duration
	MaxAttempts     int
	Concurrency     int
	CacheTTL        time.Duration
	CostPerKiloChar float64
}

// Request is one invocation request. Payload is the full prompt content; the
// cache key is derived from (Kind, Payload), so identical requests hit the
// cache regardless of who issues them.
type Request struct {
	Kind    string
	Payload string
}

// Manager is the sole path to the external analysis service. It caches by
// content hash, retries transient failures with exponential backoff, bounds
// concurrent calls, and records every call in the cost ledger.
type Manager struct {
	client Client
	store  CacheStore
	log    *zap.Logger
	opts   Options
	sem    chan struct{}

	sleep func(ctx context.Context, d time.Duration) error
}

// NewManager creates a manager over the given client and cache store.
func NewManager(client Client, store CacheStore, opts Options, log *zap.Logger) *Manager {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &Manager{
		client: client,
		store:  store,
		log:    logger.OrNop(log),
		opts:   opts,
		sem:    make(chan struct{}, opts.Concurrency),
		sleep:  sleepCtx,
	}
}

// Concurrency returns the manager's concurrent-call bound. Callers dispatching
// work that funnels into the manager should size their pools to it.
func (m *Manager) Concurrency() int {
	return m.opts.Concurrency
}

// ContentHash returns the cache key for a request.
func ContentHash(kind, payload string) string {
	sum := sha256.Sum256([]byte(kind + "\n" + payload))
	return hex.EncodeToString(sum[:])
}

// Invoke runs one analysis request. A fresh cached result for the same
// (kind, payload) is returned without an external call. On rate limits or
// transient failures the call is retried with exponential backoff up to the
// attempt bound, then an AnalysisUnavailableError preserving the request is
// returned.
func (m *Manager) Invoke(ctx context.Context, kind, payload string) (*Result, error) {
	known := false
	for _, k := range Kinds {
		if k == kind {
			known = true
			break
		}
	}
	if !known {
		return nil, &UnknownKindError{Kind: kind}
	}

	hash := ContentHash(kind, payload)

	cached, err := m.store.GetFreshInvocation(ctx, kind, hash, m.opts.CacheTTL)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		result, err := decodeResult(kind, cached.Result)
		if err != nil {
			return nil, err
		}
		result.ContentHash = hash
		result.Cached = true
		m.recordCost(ctx, kind, len(payload), len(cached.Result), true)
		m.log.Debug("analysis cache hit",
			zap.String("kind", kind),
			zap.String("content_hash", hash[:12]))
		return result, nil
	}

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-m.sem }()

	raw, attempts, callErr := m.callWithBackoff(ctx, kind, payload)
	if callErr != nil {
		return nil, &AnalysisUnavailableError{
			Kind:        kind,
			ContentHash: hash,
			Payload:     payload,
			Attempts:    attempts,
			Cause:       callErr,
		}
	}

	if kind == KindParseResume {
		if err := validateParsedProfile(raw); err != nil {
			return nil, err
		}
	}

	result, err := decodeResult(kind, []byte(raw))
	if err != nil {
		return nil, err
	}
	result.ContentHash = hash

	if err := m.store.PutInvocation(ctx, kind, hash, []byte(raw)); err != nil {
		m.log.Warn("failed to cache analysis result", zap.Error(err))
	}
	m.recordCost(ctx, kind, len(payload), len(raw), false)

	m.log.Info("analysis invoked",
		zap.String("kind", kind),
		zap.Int("attempts", attempts),
		zap.Int("output_chars", len(raw)))
	return result, nil
}

// InvokeBatch submits low-priority bulk requests together instead of
// one-by-one, bounded by the manager's concurrency. Results and errors are
// positional; one failed request does not fail the batch.
func (m *Manager) InvokeBatch(ctx context.Context, requests []Request) ([]*Result, []error) {
	results := make([]*Result, len(requests))
	errs := make([]error, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Concurrency)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			results[i], errs[i] = m.Invoke(gctx, req.Kind, req.Payload)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-request errors are collected positionally

	return results, errs
}

// Costs aggregates the cost ledger since the given time.
func (m *Manager) Costs(ctx context.Context, since time.Time) (*db.CostSummary, error) {
	return m.store.SummarizeCosts(ctx, since)
}

// callWithBackoff calls the service under the per-call timeout, retrying with
// exponential backoff and jitter. Exceeding the timeout counts as a transient
// failure. Returns the attempts made alongside the last error.
func (m *Manager) callWithBackoff(ctx context.Context, kind, payload string) (string, int, error) {
	var lastErr error
	for attempt := 1; attempt <= m.opts.MaxAttempts; attempt++ {
		raw, err := m.callOnce(ctx, kind, payload)

		if err == nil {
			return raw, attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", attempt, ctx.Err()
		}
		if attempt == m.opts.MaxAttempts {
			break
		}

		delay := backoffBase << (attempt - 1)
		delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))
		m.log.Debug("analysis call failed, backing off",
			zap.String("kind", kind),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := m.sleep(ctx, delay); err != nil {
			return "", attempt, err
		}
	}
	return "", m.opts.MaxAttempts, lastErr
}

// callOnce makes a single service call under the hard per-call timeout.
func (m *Manager) callOnce(ctx context.Context, kind, payload string) (string, error) {
	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}
	if wantsJSON(kind) {
		return m.client.GenerateJSON(ctx, payload)
	}
	return m.client.GenerateContent(ctx, payload)
}

// recordCost appends one ledger entry. Cached hits carry zero estimated cost
// so monitoring can tell external calls from cache reads.
func (m *Manager) recordCost(ctx context.Context, kind string, inputChars, outputChars int, cached bool) {
	entry := &db.CostEntry{
		Kind:        kind,
		InputChars:  inputChars,
		OutputChars: outputChars,
		Cached:      cached,
	}
	if !cached {
		entry.EstimatedCost = float64(inputChars+outputChars) / 1000.0 * m.opts.CostPerKiloChar
	}
	if err := m.store.RecordCost(ctx, entry); err != nil {
		m.log.Warn("failed to record invocation cost", zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("backoff interrupted: %w", ctx.Err())
	}
}
