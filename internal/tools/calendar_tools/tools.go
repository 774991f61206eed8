package calendar_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/maclab/applecal/internal/server"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterCalendarListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}

	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	if err := RegisterExportTools(s, sc); err != nil {
		return fmt.Errorf("failed to register export tools: %w", err)
	}

	return nil
}

// stringArg extracts a string argument, reporting whether it was present and
// non-empty.
func stringArg(args map[string]interface{}, name string) (string, bool) {
	val, ok := args[name].(string)
	return val, ok && val != ""
}

// optionalString extracts an optional string argument, returning "" when absent.
func optionalString(args map[string]interface{}, name string) string {
	val, _ := args[name].(string)
	return val
}

// optionalBool extracts an optional boolean argument, returning false when absent.
func optionalBool(args map[string]interface{}, name string) bool {
	val, _ := args[name].(bool)
	return val
}
