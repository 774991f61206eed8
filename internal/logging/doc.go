// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase so that
// log lines from different packages stay queryable with a consistent schema.
package logging
