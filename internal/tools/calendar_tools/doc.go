// Package calendar_tools registers the MCP tools that expose macOS Calendar
// operations: listing calendars and events, creating, updating and deleting
// events, exporting a range as iCalendar, and materializing recurring series.
//
// Argument validation failures are returned as tool-result errors so the
// calling agent can correct the request. Failures of the underlying osascript
// call are returned as Go errors and surface as protocol internal errors
// carrying the interpreter's diagnostic.
package calendar_tools
