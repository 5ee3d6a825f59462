package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the CLI with the given args and returns the error.
// Only argument and flag validation paths run here; nothing touches the
// database before validation passes.
func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestIngest_RequiresFileFlag(t *testing.T) {
	err := executeCommand(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestIngest_MissingFile(t *testing.T) {
	err := executeCommand(t, "ingest", "--file", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read jobs file")
}

func TestIngest_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := executeCommand(t, "ingest", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse jobs file")
}
