// Package osascript executes AppleScript snippets through the osascript
// interpreter.
//
// Every execution launches Calendar first and waits a short grace period so
// the application is ready to receive Apple events, then runs the caller's
// script with a bounded timeout. The runner is stateless; each Run call is an
// independent subprocess.
package osascript
