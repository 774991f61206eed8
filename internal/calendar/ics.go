package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// RenderICS serializes events into an iCalendar document. Event ids come from
// Calendar's uid property when present; listings always carry one, but a
// fallback uid is synthesized from the summary and start time so callers can
// render hand-built events too.
func RenderICS(events []Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//applecal//macOS Calendar export//EN")

	now := time.Now()
	for _, e := range events {
		uid := e.ID
		if uid == "" {
			uid = fmt.Sprintf("%s-%d@applecal", e.Summary, e.Start.Unix())
		}

		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(now)
		ev.SetSummary(e.Summary)
		if e.AllDay {
			ev.SetAllDayStartAt(e.Start)
			ev.SetAllDayEndAt(e.End)
		} else {
			ev.SetStartAt(e.Start)
			ev.SetEndAt(e.End)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.CalendarName != "" {
			ev.SetProperty(ics.ComponentPropertyCategories, e.CalendarName)
		}
	}

	return cal.Serialize()
}
