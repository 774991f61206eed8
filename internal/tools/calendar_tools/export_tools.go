package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/maclab/applecal/internal/calendar"
	"github.com/maclab/applecal/internal/server"
	"github.com/maclab/applecal/internal/tools/common"
)

// RegisterExportTools registers the ICS export and recurring-series tools
// with the MCP server.
func RegisterExportTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	exportTool := mcp.NewTool("export_events_ics",
		mcp.WithDescription("Export calendar events in a date range as an iCalendar (ICS) document"),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Range start (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Range end (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("calendarName",
			mcp.Description("Restrict the export to this calendar; all calendars when omitted"),
		),
	)

	s.AddTool(exportTool, common.InstrumentedToolHandlerWithOperation(
		"export_events_ics", "listEvents", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExportEventsICS(ctx, request, sc)
		}))

	recurringTool := mcp.NewTool("create_recurring_events",
		mcp.WithDescription("Create a recurring event series by expanding an RRULE into individual Calendar events"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title/summary used for every occurrence"),
		),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Start of the first occurrence (RFC3339 or '2006-01-02T15:04:05', local time)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("End of the first occurrence; the duration is applied to every occurrence"),
		),
		mcp.WithString("rrule",
			mcp.Required(),
			mcp.Description("Recurrence rule, e.g. 'FREQ=WEEKLY;BYDAY=MO,WE,FR' (an 'RRULE:' prefix is accepted)"),
		),
		mcp.WithString("calendarName",
			mcp.Description("Target calendar; the configured default calendar when omitted"),
		),
		mcp.WithString("location",
			mcp.Description("Location applied to every occurrence"),
		),
		mcp.WithString("description",
			mcp.Description("Description applied to every occurrence"),
		),
		mcp.WithString("until",
			mcp.Description("Expansion horizon; one year after startDate when omitted"),
		),
		mcp.WithNumber("maxOccurrences",
			mcp.Description("Cap on the number of events created; the configured default when omitted"),
		),
	)

	s.AddTool(recurringTool, common.InstrumentedToolHandlerWithOperation(
		"create_recurring_events", "createEvent", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateRecurringEvents(ctx, request, sc)
		}))

	return nil
}

func handleExportEventsICS(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	events, err := sc.CalendarClient().ListEvents(ctx, start, end, optionalString(args, "calendarName"))
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(calendar.RenderICS(events)), nil
}

func handleCreateRecurringEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	if end.Before(start) {
		return mcp.NewToolResultError("endDate must not be before startDate"), nil
	}

	rule, ok := stringArg(args, "rrule")
	if !ok {
		return mcp.NewToolResultError("rrule is required"), nil
	}

	until := start.AddDate(1, 0, 0)
	if untilStr, present := stringArg(args, "until"); present {
		until, err = calendar.ParseInputTime(untilStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid until: %v", err)), nil
		}
	}

	maxOccurrences := sc.Config().RecurrenceMaxOccurrences
	if rawMax, present := args["maxOccurrences"].(float64); present {
		maxOccurrences = int(rawMax)
	}

	occurrences, truncated, err := calendar.ExpandRecurrence(rule, start, until, maxOccurrences)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recurrence: %v", err)), nil
	}
	if len(occurrences) == 0 {
		return mcp.NewToolResultError("rrule yields no occurrences in the given window"), nil
	}

	duration := end.Sub(start)
	base := calendar.EventInput{
		Title:        title,
		CalendarName: optionalString(args, "calendarName"),
		Location:     optionalString(args, "location"),
		Description:  optionalString(args, "description"),
	}

	// Each occurrence is its own Calendar event; a failure partway through
	// leaves the earlier events in place.
	created := 0
	for _, occ := range occurrences {
		in := base
		in.Start = occ
		in.End = occ.Add(duration)

		if _, err := sc.CalendarClient().CreateEvent(ctx, in); err != nil {
			return nil, fmt.Errorf("created %d of %d events before failing: %w", created, len(occurrences), err)
		}
		created++
	}

	payload, err := json.Marshal(struct {
		Created   int  `json:"created"`
		Truncated bool `json:"truncated"`
	}{
		Created:   created,
		Truncated: truncated,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode recurrence result: %w", err)
	}

	return mcp.NewToolResultText(string(payload)), nil
}
