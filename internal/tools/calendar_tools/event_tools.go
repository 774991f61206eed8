package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/maclab/applecal/internal/calendar"
	"github.com/maclab/applecal/internal/server"
	"github.com/maclab/applecal/internal/tools/common"
)

// RegisterEventTools registers event CRUD tools with the MCP server.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool("list_events",
		mcp.WithDescription("List calendar events whose start falls within a date range"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("calendarName",
			mcp.Description("Restrict the listing to this calendar; all calendars when omitted"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithOperation(
		"list_events", "listEvents", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	createEventTool := mcp.NewTool("create_event",
		mcp.WithDescription("Create a new event in the macOS Calendar application"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("End time (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("calendarName",
			mcp.Description("Target calendar; the configured default calendar when omitted"),
		),
		mcp.WithBoolean("isAllDay",
			mcp.Description("Create as an all-day event"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("description",
			mcp.Description("Event description/notes"),
		),
		mcp.WithString("alarms",
			mcp.Description("Comma-separated signed minute offsets relative to the start, e.g. '-15,-5'"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithOperation(
		"create_event", "createEvent", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	updateEventTool := mcp.NewTool("update_event",
		mcp.WithDescription("Update fields of an existing calendar event"),
		mcp.WithString("eventSummary",
			mcp.Required(),
			mcp.Description("Current title of the event to update (first match wins)"),
		),
		mcp.WithString("calendarName",
			mcp.Required(),
			mcp.Description("Calendar containing the event"),
		),
		mcp.WithString("eventId",
			mcp.Description("Durable event uid from list_events; takes precedence over eventSummary"),
		),
		mcp.WithString("newTitle",
			mcp.Description("New event title"),
		),
		mcp.WithString("startDate",
			mcp.Description("New start time (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("endDate",
			mcp.Description("New end time (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithString("description",
			mcp.Description("New event description/notes"),
		),
	)

	s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithOperation(
		"update_event", "updateEvent", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool("delete_event",
		mcp.WithDescription("Delete a calendar event"),
		mcp.WithString("eventSummary",
			mcp.Required(),
			mcp.Description("Title of the event to delete (first match wins)"),
		),
		mcp.WithString("calendarName",
			mcp.Required(),
			mcp.Description("Calendar containing the event"),
		),
		mcp.WithString("eventId",
			mcp.Description("Durable event uid from list_events; takes precedence over eventSummary"),
		),
	)

	s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithOperation(
		"delete_event", "deleteEvent", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	startStr, ok := stringArg(args, "startDate")
	if !ok {
		return mcp.NewToolResultError("startDate is required"), nil
	}
	start, err := calendar.ParseInputTime(startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid startDate: %v", err)), nil
	}

	endStr, ok := stringArg(args, "endDate")
	if !ok {
		return mcp.NewToolResultError("endDate is required"), nil
	}
	end, err := calendar.ParseInputTime(endStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid endDate: %v", err)), nil
	}

	if end.Before(start) {
		return mcp.NewToolResultError("endDate must not be before startDate"), nil
	}

	calendarName := optionalString(args, "calendarName")

	events, err := sc.CalendarClient().ListEvents(ctx, start, end, calendarName)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(struct {
		Count  int              `json:"count"`
		Events []calendar.Event `json:"events"`
	}{
		Count:  len(events),
		Events: events,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode event list: %w", err)
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := stringArg(args, "title")
	if !ok {
		return mcp.NewToolResultError("title is required"), nil
	}

	startStr, ok := stringArg(args, "startDate")
	if !ok {
		return mcp.NewToolResultError("startDate is required"), nil
	}
	start, err := calendar.ParseInputTime(startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid startDate: %v", err)), nil
	}

	endStr, ok := stringArg(args, "endDate")
	if !ok {
		return mcp.NewToolResultError("endDate is required"), nil
	}
	end, err := calendar.ParseInputTime(endStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid endDate: %v", err)), nil
	}

	alarms, err := parseAlarms(optionalString(args, "alarms"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid alarms: %v", err)), nil
	}

	in := calendar.EventInput{
		Title:        title,
		Start:        start,
		End:          end,
		CalendarName: optionalString(args, "calendarName"),
		Location:     optionalString(args, "location"),
		Description:  optionalString(args, "description"),
		AllDay:       optionalBool(args, "isAllDay"),
		Alarms:       alarms,
	}

	eventID, err := sc.CalendarClient().CreateEvent(ctx, in)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"eventId": eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode create result: %w", err)
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventSummary, ok := stringArg(args, "eventSummary")
	if !ok {
		return mcp.NewToolResultError("eventSummary is required"), nil
	}

	calendarName, ok := stringArg(args, "calendarName")
	if !ok {
		return mcp.NewToolResultError("calendarName is required"), nil
	}

	upd := calendar.UpdateInput{
		NewTitle:    optionalString(args, "newTitle"),
		Location:    optionalString(args, "location"),
		Description: optionalString(args, "description"),
	}

	if startStr, present := stringArg(args, "startDate"); present {
		start, err := calendar.ParseInputTime(startStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid startDate: %v", err)), nil
		}
		upd.Start = &start
	}

	if endStr, present := stringArg(args, "endDate"); present {
		end, err := calendar.ParseInputTime(endStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid endDate: %v", err)), nil
		}
		upd.End = &end
	}

	eventID := optionalString(args, "eventId")

	if err := sc.CalendarClient().UpdateEvent(ctx, eventSummary, calendarName, eventID, upd); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"status": "updated", "eventSummary": eventSummary})
	if err != nil {
		return nil, fmt.Errorf("failed to encode update result: %w", err)
	}

	return mcp.NewToolResultText(string(payload)), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventSummary, ok := stringArg(args, "eventSummary")
	if !ok {
		return mcp.NewToolResultError("eventSummary is required"), nil
	}

	calendarName, ok := stringArg(args, "calendarName")
	if !ok {
		return mcp.NewToolResultError("calendarName is required"), nil
	}

	eventID := optionalString(args, "eventId")

	if err := sc.CalendarClient().DeleteEvent(ctx, eventSummary, calendarName, eventID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"status": "deleted", "eventSummary": eventSummary})
	if err != nil {
		return nil, fmt.Errorf("failed to encode delete result: %w", err)
	}

	return mcp.NewToolResultText(string(payload)), nil
}

// parseAlarms parses a comma-separated list of signed minute offsets.
// An empty input yields no alarms.
func parseAlarms(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	alarms := make([]int, 0, len(parts))
	for _, part := range parts {
		offset, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number of minutes", strings.TrimSpace(part))
		}
		alarms = append(alarms, offset)
	}
	return alarms, nil
}
