package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// DefaultCalendar is the calendar used when a tool call omits
	// calendarName. It must match a calendar name configured in Calendar.app.
	DefaultCalendar string `yaml:"default_calendar" json:"default_calendar"`

	// OsascriptPath is the path to the osascript interpreter. Usually just
	// "osascript", resolved via PATH.
	OsascriptPath string `yaml:"osascript_path" json:"osascript_path"`

	// ScriptTimeoutSeconds bounds the run time of a single AppleScript
	// execution, including Calendar launch.
	ScriptTimeoutSeconds int `yaml:"script_timeout_seconds" json:"script_timeout_seconds"`

	// LaunchGraceMs is the pause after telling Calendar to launch, giving the
	// application time to finish starting before the script addresses it.
	LaunchGraceMs int `yaml:"launch_grace_ms" json:"launch_grace_ms"`

	// RecurrenceMaxOccurrences caps how many events a single
	// create_recurring_events call may create from an RRULE expansion.
	RecurrenceMaxOccurrences int `yaml:"recurrence_max_occurrences" json:"recurrence_max_occurrences"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultCalendar:          "Calendar",
		OsascriptPath:            "osascript",
		ScriptTimeoutSeconds:     30,
		LaunchGraceMs:            500,
		RecurrenceMaxOccurrences: 100,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "applecal", "config.yaml")
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.DefaultCalendar == "" {
		c.DefaultCalendar = "Calendar"
	}
	if c.OsascriptPath == "" {
		c.OsascriptPath = "osascript"
	}
	if c.ScriptTimeoutSeconds <= 0 {
		c.ScriptTimeoutSeconds = 30
	}
	if c.LaunchGraceMs <= 0 {
		c.LaunchGraceMs = 500
	}
	if c.RecurrenceMaxOccurrences <= 0 {
		c.RecurrenceMaxOccurrences = 100
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (creating the
// parent directory if needed) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".applecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
