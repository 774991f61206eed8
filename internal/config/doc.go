// Package config loads and saves the applecal YAML configuration file.
//
// The file lives at ~/.config/applecal/config.yaml by default and is created
// with defaults on first run. All values can be overridden per-invocation by
// command-line flags.
package config
