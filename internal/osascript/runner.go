package osascript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/maclab/applecal/internal/logging"
)

const (
	// DefaultTimeout bounds a single script execution, including the time
	// Calendar needs to launch.
	DefaultTimeout = 30 * time.Second

	// DefaultLaunchGrace is the pause after the launch instruction. Half a
	// second is an empirical constant that tolerates Calendar's cold start.
	DefaultLaunchGrace = 500 * time.Millisecond

	// targetApp is the application every script addresses.
	targetApp = "Calendar"
)

// Runner executes AppleScript text via the osascript interpreter.
type Runner struct {
	path        string
	timeout     time.Duration
	launchGrace time.Duration
}

// NewRunner creates a Runner. Empty or zero arguments fall back to the
// defaults ("osascript", 30s timeout, 500ms launch grace).
func NewRunner(path string, timeout, launchGrace time.Duration) *Runner {
	if path == "" {
		path = "osascript"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if launchGrace <= 0 {
		launchGrace = DefaultLaunchGrace
	}
	return &Runner{
		path:        path,
		timeout:     timeout,
		launchGrace: launchGrace,
	}
}

// launchPreamble returns the statements prepended to every script: launch
// Calendar and wait for it to come up before addressing it.
func (r *Runner) launchPreamble() string {
	grace := strconv.FormatFloat(r.launchGrace.Seconds(), 'f', -1, 64)
	return fmt.Sprintf("tell application \"%s\" to launch\ndelay %s\n", targetApp, grace)
}

// Run executes the given script body and returns its trimmed stdout.
//
// The script is executed as a single osascript invocation with the launch
// preamble prepended. On non-zero exit the interpreter's stderr is surfaced
// in the returned error; on timeout the error says so. There are no retries
// and no partial results.
func (r *Runner) Run(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	full := r.launchPreamble() + script

	cmd := exec.CommandContext(ctx, r.path, "-e", full)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Warn("script timed out",
				logging.Operation("run"),
				logging.Duration(duration),
			)
			return "", &ScriptError{
				Op:  "timeout",
				Err: fmt.Errorf("script exceeded %s timeout", r.timeout),
			}
		}

		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = fmt.Sprintf("osascript failed: %v", err)
		}
		slog.Debug("script failed",
			logging.Operation("run"),
			logging.Duration(duration),
			logging.Err(err),
		)
		return "", &ScriptError{
			Op:     "run",
			Stderr: diag,
			Err:    err,
		}
	}

	slog.Debug("script succeeded",
		logging.Operation("run"),
		logging.Duration(duration),
	)
	return strings.TrimSpace(stdout.String()), nil
}

// Timeout returns the configured execution timeout.
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}
