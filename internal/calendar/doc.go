// Package calendar provides a client for the macOS Calendar application.
//
// Calendar is driven through its AppleScript automation interface: every
// operation renders a script, runs it through osascript, and parses the
// textual reply. The package offers list, create, update, and delete
// operations for events plus calendar enumeration, ICS export of listed
// events, and RRULE expansion for bulk-creating recurring events.
//
// Events have no durable identifier at creation time; listings expose
// Calendar's own uid property, and mutations accept either that uid or a
// summary+calendar lookup (first match wins when summaries collide).
//
// Example usage:
//
//	runner := osascript.NewRunner("", 0, 0)
//	client := calendar.NewClient(runner, "Work")
//
//	events, err := client.ListEvents(ctx, time.Now(), time.Now().AddDate(0, 0, 7), "")
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
