package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfigFile(t, `{
		"database_url": "postgres://localhost/matches",
		"analysis_concurrency": 8,
		"dedup_high_threshold": 0.9,
		"stale_after_days": 21
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/matches", cfg.DatabaseURL)
	assert.Equal(t, 8, cfg.AnalysisConcurrency)
	assert.Equal(t, 0.9, cfg.DedupHighThreshold)
	assert.Equal(t, 21, cfg.StaleAfterDays)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidate_ThresholdOrdering(t *testing.T) {
	cfg := &Config{DedupLowThreshold: 0.9, DedupHighThreshold: 0.6}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DedupLowThreshold: 0.6, DedupHighThreshold: 0.85}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Ranges(t *testing.T) {
	assert.Error(t, (&Config{AnalysisConcurrency: 100}).Validate())
	assert.Error(t, (&Config{DedupHighThreshold: 1.5}).Validate())
	assert.Error(t, (&Config{LearningRate: 2}).Validate())
	assert.NoError(t, (&Config{}).Validate(), "all-zero config is valid")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://custom", MinSignals: 5}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "postgres://custom", merged.DatabaseURL)
	assert.Equal(t, 5, merged.MinSignals)
	assert.Equal(t, 0.85, merged.DedupHighThreshold)
	assert.Equal(t, 4, merged.AnalysisConcurrency)
	assert.Equal(t, 14, merged.StaleAfterDays)
}

func TestStaleAfter(t *testing.T) {
	cfg := &Config{StaleAfterDays: 7}
	assert.Equal(t, 7*24.0, cfg.StaleAfter().Hours())

	cfg = &Config{}
	assert.Equal(t, 14*24.0, cfg.StaleAfter().Hours(), "zero falls back to 14 days")
}
