package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-match-engine/internal/analysis"
	"github.com/jonathan/job-match-engine/internal/config"
	"github.com/jonathan/job-match-engine/internal/db"
	"github.com/jonathan/job-match-engine/internal/learning"
	"github.com/jonathan/job-match-engine/internal/logger"
	"github.com/jonathan/job-match-engine/internal/scoring"
)

// engine bundles the wired components a subcommand needs.
type engine struct {
	cfg config.Config
	log *zap.Logger
	db  *db.DB
}

// setup loads configuration, the logger, and the database connection. Every
// subcommand starts here.
func setup(ctx context.Context) (*engine, error) {
	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded.MergeWithDefaults(config.Defaults())
	}

	if url := os.Getenv("DATABASE_URL"); url != "" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = url
	}
	if key := os.Getenv("ANALYSIS_API_KEY"); key != "" && cfg.APIKey == "" {
		cfg.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (config file or DATABASE_URL)")
	}

	log, err := logger.New(jsonLogs || cfg.LogJSON, verbose || cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &engine{cfg: cfg, log: log, db: database}, nil
}

func (e *engine) close() {
	e.db.Close()
	_ = e.log.Sync()
}

// newLearner wires the feedback learner over the database.
func (e *engine) newLearner() *learning.Learner {
	return learning.New(e.db, e.db, e.db, e.cfg.MinSignals, e.cfg.LearningRate, e.log)
}

// newScorer wires the match scorer with the learner as its weight source.
func (e *engine) newScorer() *scoring.Scorer {
	return scoring.New(e.db, e.db, e.db, e.newLearner(), e.log)
}

// newAnalysisManager wires the sole gateway to the external analysis service.
func (e *engine) newAnalysisManager(ctx context.Context) (*analysis.Manager, error) {
	client, err := analysis.NewGeminiClient(ctx, e.cfg.AnalysisModel, e.cfg.APIKey)
	if err != nil {
		return nil, err
	}
	opts := analysis.Options{
		Timeout:         time.Duration(e.cfg.AnalysisTimeoutSec) * time.Second,
		MaxAttempts:     e.cfg.MaxAttempts,
		Concurrency:     e.cfg.AnalysisConcurrency,
		CacheTTL:        time.Duration(e.cfg.CacheTTLHours) * time.Hour,
		CostPerKiloChar: e.cfg.CostPerKiloChar,
	}
	return analysis.NewManager(client, e.db, opts, e.log), nil
}

// printJSON writes a value to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
