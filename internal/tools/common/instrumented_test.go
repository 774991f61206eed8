package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maclab/applecal/internal/instrumentation"
	"github.com/maclab/applecal/internal/server"
)

func newToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestGetCalendarFromArgs(t *testing.T) {
	assert.Equal(t, "Work", GetCalendarFromArgs(map[string]interface{}{"calendarName": "Work"}))
	assert.Empty(t, GetCalendarFromArgs(map[string]interface{}{}))
	assert.Empty(t, GetCalendarFromArgs(map[string]interface{}{"calendarName": 42}))
}

func TestInstrumentedToolHandlerPassesThrough(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), nil)
	require.NoError(t, err)

	called := false
	handler := InstrumentedToolHandler("list_calendars", sc, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := handler(context.Background(), newToolRequest("list_calendars", nil))
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandlerPropagatesError(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), nil)
	require.NoError(t, err)

	boom := errors.New("osascript failed")
	handler := InstrumentedToolHandler("delete_event", sc, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, boom
	})

	_, err = handler(context.Background(), newToolRequest("delete_event", nil))
	assert.ErrorIs(t, err, boom)
}

func TestInstrumentedToolHandlerAuditsInvocation(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandlerWithOperation("create_event", "createEvent", sc,
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("done"), nil
		})

	_, err = handler(context.Background(), newToolRequest("create_event", map[string]any{"calendarName": "Work"}))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "tool_executed")
	assert.Contains(t, out, "tool=create_event")
	assert.Contains(t, out, "calendar=Work")
	assert.Contains(t, out, "operation=createEvent")
}

func TestInstrumentedToolHandlerAuditsToolResultError(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandler("update_event", sc,
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("eventSummary is required"), nil
		})

	result, err := handler(context.Background(), newToolRequest("update_event", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, buf.String(), "tool_failed")
}
