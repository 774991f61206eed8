// Package server holds the runtime state shared by all MCP tool handlers:
// the Calendar client, configuration, and observability wiring. It also
// provides the health endpoints and the dedicated Prometheus metrics server
// used when the server runs over HTTP.
package server
