package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/maclab/applecal/internal/server"
	"github.com/maclab/applecal/internal/tools/common"
)

// RegisterCalendarListTools registers the calendar enumeration tool with the MCP server.
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool("list_calendars",
		mcp.WithDescription("List all calendars configured in the macOS Calendar application"),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithOperation(
		"list_calendars", "listCalendars", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	calendars, err := sc.CalendarClient().ListCalendars(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(calendars)
	if err != nil {
		return nil, fmt.Errorf("failed to encode calendar list: %w", err)
	}

	return mcp.NewToolResultText(string(payload)), nil
}
