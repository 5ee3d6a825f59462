// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the engine configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"`

	// Analysis service
	APIKey              string  `json:"api_key,omitempty"`
	AnalysisModel       string  `json:"analysis_model,omitempty"`
	AnalysisConcurrency int     `json:"analysis_concurrency,omitempty" validate:"omitempty,gte=1,lte=32"`
	AnalysisTimeoutSec  int     `json:"analysis_timeout_sec,omitempty" validate:"omitempty,gte=1"`
	MaxAttempts         int     `json:"max_attempts,omitempty" validate:"omitempty,gte=1,lte=10"`
	CacheTTLHours       int     `json:"cache_ttl_hours,omitempty" validate:"omitempty,gte=1"`
	CostPerKiloChar     float64 `json:"cost_per_kilo_char,omitempty" validate:"omitempty,gte=0"`

	// Deduplication
	DedupLowThreshold  float64 `json:"dedup_low_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	DedupHighThreshold float64 `json:"dedup_high_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`

	// Learning
	MinSignals   int     `json:"min_signals,omitempty" validate:"omitempty,gte=1"`
	LearningRate float64 `json:"learning_rate,omitempty" validate:"omitempty,gt=0,lte=1"`

	// Lifecycle
	StaleAfterDays int `json:"stale_after_days,omitempty" validate:"omitempty,gte=1"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
	LogJSON bool `json:"log_json,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.DedupLowThreshold > 0 && c.DedupHighThreshold > 0 &&
		c.DedupLowThreshold >= c.DedupHighThreshold {
		return fmt.Errorf("config error: 'dedup_low_threshold' must be below 'dedup_high_threshold'")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-value fields filled from
// defaults. CLI flags should always win for bools, so those are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.AnalysisModel == "" {
		result.AnalysisModel = defaults.AnalysisModel
	}
	if result.AnalysisConcurrency == 0 {
		result.AnalysisConcurrency = defaults.AnalysisConcurrency
	}
	if result.AnalysisTimeoutSec == 0 {
		result.AnalysisTimeoutSec = defaults.AnalysisTimeoutSec
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.CacheTTLHours == 0 {
		result.CacheTTLHours = defaults.CacheTTLHours
	}
	if result.CostPerKiloChar == 0 {
		result.CostPerKiloChar = defaults.CostPerKiloChar
	}
	if result.DedupLowThreshold == 0 {
		result.DedupLowThreshold = defaults.DedupLowThreshold
	}
	if result.DedupHighThreshold == 0 {
		result.DedupHighThreshold = defaults.DedupHighThreshold
	}
	if result.MinSignals == 0 {
		result.MinSignals = defaults.MinSignals
	}
	if result.LearningRate == 0 {
		result.LearningRate = defaults.LearningRate
	}
	if result.StaleAfterDays == 0 {
		result.StaleAfterDays = defaults.StaleAfterDays
	}

	return result
}

// Defaults returns the built-in default configuration.
func Defaults() Config {
	return Config{
		AnalysisModel:       "gemini-2.0-flash",
		AnalysisConcurrency: 4,
		AnalysisTimeoutSec:  60,
		MaxAttempts:         4,
		CacheTTLHours:       24 * 7,
		CostPerKiloChar:     0.002,
		DedupLowThreshold:   0.60,
		DedupHighThreshold:  0.85,
		MinSignals:          10,
		LearningRate:        0.1,
		StaleAfterDays:      14,
	}
}

// StaleAfter returns the stale threshold as a duration.
func (c *Config) StaleAfter() time.Duration {
	days := c.StaleAfterDays
	if days <= 0 {
		days = 14
	}
	return time.Duration(days) * 24 * time.Hour
}
