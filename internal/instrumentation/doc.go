// Package instrumentation provides OpenTelemetry metrics and tracing for the
// MCP server, plus structured audit logging of tool invocations.
//
// Metrics cover the two layers where things can go wrong: MCP tool handling
// (mcp_tool_invocations_total, mcp_tool_duration_seconds) and the osascript
// subprocess boundary (osascript_executions_total,
// osascript_execution_duration_seconds). Exporters are selected via
// environment variables; Prometheus is the default for metrics and tracing is
// off unless explicitly enabled.
package instrumentation
