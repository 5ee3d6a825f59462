package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// CachedInvocation is one cached analysis result, addressed by the content
// hash of its request.
type CachedInvocation struct {
	Kind        string    `json:"kind"`
	ContentHash string    `json:"content_hash"`
	Result      []byte    `json:"result"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetFreshInvocation retrieves a cached result for (kind, hash) if one exists
// within the TTL. Returns nil on a cache miss.
func (db *DB) GetFreshInvocation(ctx context.Context, kind, contentHash string, ttl time.Duration) (*CachedInvocation, error) {
	var c CachedInvocation
	err := db.pool.QueryRow(ctx,
		`SELECT kind, content_hash, result, created_at
		 FROM analysis_cache
		 WHERE kind = $1 AND content_hash = $2 AND created_at > NOW() - $3::interval
		 ORDER BY created_at DESC LIMIT 1`,
		kind, contentHash, ttl,
	).Scan(&c.Kind, &c.ContentHash, &c.Result, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check analysis cache: %w", err)
	}
	return &c, nil
}

// PutInvocation stores a fresh analysis result in the cache.
func (db *DB) PutInvocation(ctx context.Context, kind, contentHash string, result []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO analysis_cache (kind, content_hash, result)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (kind, content_hash) DO UPDATE SET result = $3, created_at = NOW()`,
		kind, contentHash, result,
	)
	if err != nil {
		return fmt.Errorf("failed to cache analysis result: %w", err)
	}
	return nil
}

// CostEntry is one row in the invocation cost ledger.
type CostEntry struct {
	Kind          string    `json:"kind"`
	InputChars    int       `json:"input_chars"`
	OutputChars   int       `json:"output_chars"`
	EstimatedCost float64   `json:"estimated_cost"`
	Cached        bool      `json:"cached"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordCost appends one entry to the cost ledger.
func (db *DB) RecordCost(ctx context.Context, entry *CostEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO analysis_costs (kind, input_chars, output_chars, estimated_cost, cached)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.Kind, entry.InputChars, entry.OutputChars, entry.EstimatedCost, entry.Cached,
	)
	if err != nil {
		return fmt.Errorf("failed to record cost: %w", err)
	}
	return nil
}

// CostSummary aggregates the ledger for monitoring.
type CostSummary struct {
	Calls         int     `json:"calls"`
	CachedCalls   int     `json:"cached_calls"`
	InputChars    int     `json:"input_chars"`
	OutputChars   int     `json:"output_chars"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// SummarizeCosts aggregates the cost ledger since the given time.
func (db *DB) SummarizeCosts(ctx context.Context, since time.Time) (*CostSummary, error) {
	var s CostSummary
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE cached),
		        COALESCE(SUM(input_chars), 0),
		        COALESCE(SUM(output_chars), 0),
		        COALESCE(SUM(estimated_cost), 0)
		 FROM analysis_costs WHERE created_at >= $1`,
		since,
	).Scan(&s.Calls, &s.CachedCalls, &s.InputChars, &s.OutputChars, &s.EstimatedCost)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize costs: %w", err)
	}
	return &s, nil
}
