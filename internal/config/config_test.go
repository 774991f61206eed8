package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Calendar", cfg.DefaultCalendar)
	assert.Equal(t, "osascript", cfg.OsascriptPath)
	assert.Equal(t, 30, cfg.ScriptTimeoutSeconds)
	assert.Equal(t, 500, cfg.LaunchGraceMs)

	// The file must exist afterwards with restrictive permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("default_calendar: Work\nscript_timeout_seconds: 10\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Work", cfg.DefaultCalendar)
	assert.Equal(t, 10, cfg.ScriptTimeoutSeconds)
	// Missing values are normalized.
	assert.Equal(t, "osascript", cfg.OsascriptPath)
	assert.Equal(t, 500, cfg.LaunchGraceMs)
	assert.Equal(t, 100, cfg.RecurrenceMaxOccurrences)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_calendar: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.DefaultCalendar = "Home"
	cfg.LaunchGraceMs = 250
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Home", loaded.DefaultCalendar)
	assert.Equal(t, 250, loaded.LaunchGraceMs)
}

func TestNormalizeZeroValues(t *testing.T) {
	cfg := &Config{ScriptTimeoutSeconds: -1, LaunchGraceMs: -10}
	cfg.Normalize()

	assert.Equal(t, 30, cfg.ScriptTimeoutSeconds)
	assert.Equal(t, 500, cfg.LaunchGraceMs)
	assert.Equal(t, "Calendar", cfg.DefaultCalendar)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}
