package osascript

import "fmt"

// ScriptError represents a failed AppleScript execution.
type ScriptError struct {
	// Op is the operation that failed (e.g., "run", "timeout")
	Op string

	// Stderr is the interpreter's diagnostic output, if any
	Stderr string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *ScriptError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("osascript %s: %s", e.Op, e.Stderr)
	}
	return fmt.Sprintf("osascript %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ScriptError) Unwrap() error {
	return e.Err
}
