package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Delimiters used to join records and fields in script replies. Chosen to be
// unlikely to appear in real calendar data; they are not escaped out of user
// input, matching the adapter's documented string-safety-only guarantee.
const (
	recordDelimiter = "<<|>>"
	fieldDelimiter  = "<<,>>"
)

// escapeString neutralizes backslashes and double quotes so a value can be
// embedded in a quoted AppleScript literal. No other characters are escaped;
// this is a string-safety measure, not full injection safety.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// appleScriptDate emits statements that build a date value component-wise in
// the variable varName. Setting components individually avoids parsing a date
// string with the OS locale, which would make the day/month order ambiguous.
//
// The day is first reset to 1 so that setting the month can never overflow
// (e.g. current date Jan 31 + "set month to 2").
func appleScriptDate(varName string, t time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "set %s to current date\n", varName)
	fmt.Fprintf(&b, "set day of %s to 1\n", varName)
	fmt.Fprintf(&b, "set year of %s to %d\n", varName, t.Year())
	fmt.Fprintf(&b, "set month of %s to %d\n", varName, int(t.Month()))
	fmt.Fprintf(&b, "set day of %s to %d\n", varName, t.Day())
	fmt.Fprintf(&b, "set time of %s to ((%d * hours) + (%d * minutes) + %d)\n",
		varName, t.Hour(), t.Minute(), t.Second())
	return b.String()
}

// listCalendarsScript enumerates calendar names joined by the record
// delimiter, in Calendar's own enumeration order.
func listCalendarsScript() string {
	var b strings.Builder
	b.WriteString("set calNames to {}\n")
	b.WriteString("tell application \"Calendar\"\n")
	b.WriteString("\trepeat with c in calendars\n")
	b.WriteString("\t\tset end of calNames to (name of c)\n")
	b.WriteString("\tend repeat\n")
	b.WriteString("end tell\n")
	fmt.Fprintf(&b, "set AppleScript's text item delimiters to \"%s\"\n", recordDelimiter)
	b.WriteString("return calNames as text")
	return b.String()
}

// scriptDateExpr returns an AppleScript expression serializing the date held
// in varName as "YYYY-M-DT<seconds since midnight>", which parseScriptDate
// reads back without any locale dependency.
func scriptDateExpr(varName string) string {
	return fmt.Sprintf("(year of %[1]s as text) & \"-\" & ((month of %[1]s as integer) as text) & \"-\" & ((day of %[1]s) as text) & \"T\" & ((time of %[1]s) as text)", varName)
}

// listEventsScript filters events whose start instant falls within
// [start, end] across all calendars, or only the named one when calendarName
// is non-empty. Each match is serialized as a field-delimited record; records
// are joined with the record delimiter.
func listEventsScript(start, end time.Time, calendarName string) string {
	filter := escapeString(calendarName)

	var b strings.Builder
	b.WriteString(appleScriptDate("rangeStart", start))
	b.WriteString(appleScriptDate("rangeEnd", end))
	b.WriteString("set output to {}\n")
	b.WriteString("tell application \"Calendar\"\n")
	b.WriteString("\trepeat with c in calendars\n")
	b.WriteString("\t\tset calName to name of c\n")
	fmt.Fprintf(&b, "\t\tif \"%s\" is \"\" or calName is \"%s\" then\n", filter, filter)
	b.WriteString("\t\t\tset matches to (every event of c whose start date is greater than or equal to rangeStart and start date is less than or equal to rangeEnd)\n")
	b.WriteString("\t\t\trepeat with e in matches\n")
	b.WriteString("\t\t\t\tset sd to start date of e\n")
	b.WriteString("\t\t\t\tset ed to end date of e\n")
	b.WriteString("\t\t\t\tset loc to location of e\n")
	b.WriteString("\t\t\t\tif loc is missing value then set loc to \"\"\n")
	fmt.Fprintf(&b, "\t\t\t\tset rec to (uid of e) & \"%[1]s\" & (summary of e) & \"%[1]s\" & %[2]s & \"%[1]s\" & %[3]s & \"%[1]s\" & loc & \"%[1]s\" & calName & \"%[1]s\" & ((allday event of e) as text)\n",
		fieldDelimiter, scriptDateExpr("sd"), scriptDateExpr("ed"))
	b.WriteString("\t\t\t\tset end of output to rec\n")
	b.WriteString("\t\t\tend repeat\n")
	b.WriteString("\t\tend if\n")
	b.WriteString("\tend repeat\n")
	b.WriteString("end tell\n")
	fmt.Fprintf(&b, "set AppleScript's text item delimiters to \"%s\"\n", recordDelimiter)
	b.WriteString("return output as text")
	return b.String()
}

// createEventScript renders one creation statement with optional property
// clauses, followed by one alarm-attachment statement per alarm offset.
// Alarm attachment is not atomic with event creation.
func createEventScript(in EventInput) string {
	title := escapeString(in.Title)
	cal := escapeString(in.CalendarName)

	var b strings.Builder
	b.WriteString(appleScriptDate("eventStart", in.Start))
	b.WriteString(appleScriptDate("eventEnd", in.End))
	b.WriteString("tell application \"Calendar\"\n")
	fmt.Fprintf(&b, "\ttell calendar \"%s\"\n", cal)
	fmt.Fprintf(&b, "\t\tset newEvent to make new event with properties {summary:\"%s\", start date:eventStart, end date:eventEnd}\n", title)
	if in.Location != "" {
		fmt.Fprintf(&b, "\t\tset location of newEvent to \"%s\"\n", escapeString(in.Location))
	}
	if in.Description != "" {
		fmt.Fprintf(&b, "\t\tset description of newEvent to \"%s\"\n", escapeString(in.Description))
	}
	if in.AllDay {
		b.WriteString("\t\tset allday event of newEvent to true\n")
	}
	for _, offset := range in.Alarms {
		fmt.Fprintf(&b, "\t\ttell newEvent to make new display alarm at end of display alarms with properties {trigger interval:%d}\n", offset)
	}
	b.WriteString("\tend tell\n")
	b.WriteString("end tell\n")
	fmt.Fprintf(&b, "return \"%s\"", title)
	return b.String()
}

// lookupClause selects the target event inside a calendar tell block. When a
// uid is supplied the event is addressed durably; otherwise the first event
// with a matching summary is picked, which is ambiguous when summaries are
// not unique.
func lookupClause(summary, uid string) string {
	var b strings.Builder
	if uid != "" {
		fmt.Fprintf(&b, "\t\tset matches to (every event whose uid is \"%s\")\n", escapeString(uid))
	} else {
		fmt.Fprintf(&b, "\t\tset matches to (every event whose summary is \"%s\")\n", escapeString(summary))
	}
	fmt.Fprintf(&b, "\t\tif (count of matches) is 0 then error \"event not found: %s\"\n", escapeString(summary))
	b.WriteString("\t\tset target to item 1 of matches\n")
	return b.String()
}

// updateEventScript emits one assignment statement per supplied field against
// the first event matching the lookup key. Callers must not invoke this with
// an UpdateInput that has no changes.
func updateEventScript(calendarName, summary, uid string, upd UpdateInput) string {
	cal := escapeString(calendarName)

	var b strings.Builder
	if upd.Start != nil {
		b.WriteString(appleScriptDate("newStart", *upd.Start))
	}
	if upd.End != nil {
		b.WriteString(appleScriptDate("newEnd", *upd.End))
	}
	b.WriteString("tell application \"Calendar\"\n")
	fmt.Fprintf(&b, "\ttell calendar \"%s\"\n", cal)
	b.WriteString(lookupClause(summary, uid))
	if upd.NewTitle != "" {
		fmt.Fprintf(&b, "\t\tset summary of target to \"%s\"\n", escapeString(upd.NewTitle))
	}
	if upd.Start != nil {
		b.WriteString("\t\tset start date of target to newStart\n")
	}
	if upd.End != nil {
		b.WriteString("\t\tset end date of target to newEnd\n")
	}
	if upd.Location != "" {
		fmt.Fprintf(&b, "\t\tset location of target to \"%s\"\n", escapeString(upd.Location))
	}
	if upd.Description != "" {
		fmt.Fprintf(&b, "\t\tset description of target to \"%s\"\n", escapeString(upd.Description))
	}
	b.WriteString("\tend tell\n")
	b.WriteString("end tell\n")
	b.WriteString("return \"ok\"")
	return b.String()
}

// deleteEventScript removes the first event matching the lookup key. A
// missing event raises inside Calendar and surfaces as the script's failure.
func deleteEventScript(calendarName, summary, uid string) string {
	cal := escapeString(calendarName)

	var b strings.Builder
	b.WriteString("tell application \"Calendar\"\n")
	fmt.Fprintf(&b, "\ttell calendar \"%s\"\n", cal)
	b.WriteString(lookupClause(summary, uid))
	b.WriteString("\t\tdelete target\n")
	b.WriteString("\tend tell\n")
	b.WriteString("end tell\n")
	b.WriteString("return \"ok\"")
	return b.String()
}
