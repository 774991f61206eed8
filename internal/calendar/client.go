package calendar

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScriptRunner executes AppleScript text and returns its trimmed stdout.
// Satisfied by *osascript.Runner.
type ScriptRunner interface {
	Run(ctx context.Context, script string) (string, error)
}

// Client provides CRUD access to the macOS Calendar application via
// AppleScript. It is stateless; every call renders a fresh script and runs it
// through the configured runner.
type Client struct {
	runner          ScriptRunner
	defaultCalendar string
}

// NewClient creates a Client. defaultCalendar is used when operations omit a
// calendar name; empty falls back to "Calendar".
func NewClient(runner ScriptRunner, defaultCalendar string) *Client {
	if defaultCalendar == "" {
		defaultCalendar = "Calendar"
	}
	return &Client{
		runner:          runner,
		defaultCalendar: defaultCalendar,
	}
}

// DefaultCalendar returns the calendar used when none is named.
func (c *Client) DefaultCalendar() string {
	return c.defaultCalendar
}

// ListCalendars returns the user's calendars in enumeration order, assigning
// each a zero-based string id. The order is not guaranteed stable across runs.
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	out, err := c.runner.Run(ctx, listCalendarsScript())
	if err != nil {
		return nil, &CalendarError{Op: "listCalendars", Err: err}
	}

	return parseCalendarList(out), nil
}

// ListEvents returns events whose start instant falls within [start, end].
// calendarName filters to a single calendar; empty searches all calendars.
// Zero matches yields an empty slice, not an error.
func (c *Client) ListEvents(ctx context.Context, start, end time.Time, calendarName string) ([]Event, error) {
	out, err := c.runner.Run(ctx, listEventsScript(start, end, calendarName))
	if err != nil {
		return nil, &CalendarError{Op: "listEvents", Calendar: calendarName, Err: err}
	}

	events, err := parseEventList(out)
	if err != nil {
		return nil, &CalendarError{Op: "listEvents", Calendar: calendarName, Err: err}
	}
	return events, nil
}

// CreateEvent creates an event and returns its synthetic identifier. The
// identifier is the title: Calendar does not hand back a durable key at
// creation time. Alarm attachment is not atomic with creation; on a failure
// partway through, the event persists without the remaining alarms.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (string, error) {
	if in.CalendarName == "" {
		in.CalendarName = c.defaultCalendar
	}

	out, err := c.runner.Run(ctx, createEventScript(in))
	if err != nil {
		return "", &CalendarError{Op: "createEvent", Calendar: in.CalendarName, Err: err}
	}
	_ = out // the script echoes the title; the input is authoritative

	return in.Title, nil
}

// UpdateEvent applies the supplied fields to the event addressed by eventID
// (Calendar uid) or, when eventID is empty, the first event with a matching
// summary in the named calendar. With no fields supplied the call is a no-op
// and performs no external call.
func (c *Client) UpdateEvent(ctx context.Context, summary, calendarName, eventID string, upd UpdateInput) error {
	if !upd.HasChanges() {
		return nil
	}
	if calendarName == "" {
		calendarName = c.defaultCalendar
	}

	_, err := c.runner.Run(ctx, updateEventScript(calendarName, summary, eventID, upd))
	if err != nil {
		return &CalendarError{Op: "updateEvent", Calendar: calendarName, Err: err}
	}
	return nil
}

// DeleteEvent removes the event addressed by eventID (Calendar uid) or the
// first event with a matching summary in the named calendar. A missing event
// raises inside Calendar and surfaces as the external call's failure.
func (c *Client) DeleteEvent(ctx context.Context, summary, calendarName, eventID string) error {
	if calendarName == "" {
		calendarName = c.defaultCalendar
	}

	_, err := c.runner.Run(ctx, deleteEventScript(calendarName, summary, eventID))
	if err != nil {
		return &CalendarError{Op: "deleteEvent", Calendar: calendarName, Err: err}
	}
	return nil
}

// parseCalendarList splits a delimiter-joined name list into Calendar values
// with enumeration-order ids.
func parseCalendarList(out string) []Calendar {
	if out == "" {
		return []Calendar{}
	}

	names := strings.Split(out, recordDelimiter)
	calendars := make([]Calendar, 0, len(names))
	for i, name := range names {
		calendars = append(calendars, Calendar{
			Name: name,
			ID:   strconv.Itoa(i),
		})
	}
	return calendars
}

// parseEventList splits a delimiter-joined record list into Events.
func parseEventList(out string) ([]Event, error) {
	if out == "" {
		return []Event{}, nil
	}

	records := strings.Split(out, recordDelimiter)
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		ev, err := parseEventRecord(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// parseEventRecord parses one field-delimited event record:
// uid, summary, start, end, location, calendar name, all-day flag.
func parseEventRecord(rec string) (Event, error) {
	fields := strings.Split(rec, fieldDelimiter)
	if len(fields) != 7 {
		return Event{}, fmt.Errorf("malformed event record: got %d fields, want 7", len(fields))
	}

	start, err := parseScriptDate(fields[2])
	if err != nil {
		return Event{}, fmt.Errorf("malformed start date %q: %w", fields[2], err)
	}
	end, err := parseScriptDate(fields[3])
	if err != nil {
		return Event{}, fmt.Errorf("malformed end date %q: %w", fields[3], err)
	}

	return Event{
		ID:           fields[0],
		Summary:      fields[1],
		Start:        start,
		End:          end,
		Location:     fields[4],
		CalendarName: fields[5],
		AllDay:       fields[6] == "true",
	}, nil
}

// parseScriptDate reads the locale-independent "YYYY-M-DT<seconds since
// midnight>" form emitted by the listing script.
func parseScriptDate(s string) (time.Time, error) {
	datePart, timePart, ok := strings.Cut(s, "T")
	if !ok {
		return time.Time{}, fmt.Errorf("missing time separator")
	}

	dateFields := strings.Split(datePart, "-")
	if len(dateFields) != 3 {
		return time.Time{}, fmt.Errorf("malformed date part %q", datePart)
	}

	year, err := strconv.Atoi(dateFields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad year: %w", err)
	}
	month, err := strconv.Atoi(dateFields[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad month: %w", err)
	}
	day, err := strconv.Atoi(dateFields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad day: %w", err)
	}

	secs, err := strconv.Atoi(timePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time of day: %w", err)
	}
	if secs < 0 || secs >= 24*60*60 {
		return time.Time{}, fmt.Errorf("time of day out of range: %d", secs)
	}

	return time.Date(year, time.Month(month), day, secs/3600, (secs%3600)/60, secs%60, 0, time.Local), nil
}

// inputTimeLayouts are the accepted textual forms for instants in tool
// arguments, tried in order.
var inputTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInputTime parses a date/time argument. RFC3339 values keep their
// offset; bare local forms are interpreted in the machine's timezone, which
// is also the timezone Calendar operates in.
func ParseInputTime(s string) (time.Time, error) {
	for _, layout := range inputTimeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time %q (want RFC3339 or 2006-01-02T15:04:05)", s)
}
