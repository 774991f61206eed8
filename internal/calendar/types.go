package calendar

import (
	"fmt"
	"time"
)

// Calendar represents one of the user's configured calendars.
type Calendar struct {
	// Name is the calendar's display name, unique among the user's calendars
	Name string `json:"name"`

	// ID is the zero-based enumeration index as a string. It is assigned
	// per-listing and is not stable across calls.
	ID string `json:"id"`
}

// Event represents a single calendar event as returned by a listing.
type Event struct {
	// ID is Calendar's uid property for the event. It is durable within the
	// calendar store and can be used to address the event for mutation.
	ID string `json:"id"`

	// Summary is the event title
	Summary string `json:"summary"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Location is empty when the event has none
	Location string `json:"location,omitempty"`

	// CalendarName is the name of the calendar containing the event
	CalendarName string `json:"calendarName"`

	// AllDay reports whether the event is an all-day event
	AllDay bool `json:"allDay"`
}

// EventInput holds the fields for creating an event.
type EventInput struct {
	// Title is the event summary (required)
	Title string

	Start time.Time
	End   time.Time

	// CalendarName is the target calendar; empty means the configured default
	CalendarName string

	Location    string
	Description string
	AllDay      bool

	// Alarms holds signed minute offsets relative to the event start
	// (negative = before). Alarms are attached at creation time only and are
	// not retrievable afterward.
	Alarms []int
}

// UpdateInput holds the optional fields for updating an event. Zero values
// mean "leave unchanged"; an update with no changes performs no external call.
type UpdateInput struct {
	NewTitle    string
	Start       *time.Time
	End         *time.Time
	Location    string
	Description string
}

// HasChanges reports whether any field was supplied.
func (u UpdateInput) HasChanges() bool {
	return u.NewTitle != "" || u.Start != nil || u.End != nil ||
		u.Location != "" || u.Description != ""
}

// CalendarError represents an error that occurred during a Calendar operation.
type CalendarError struct {
	// Op is the operation that failed (e.g., "listEvents", "createEvent")
	Op string

	// Calendar is the calendar name associated with the operation, if any
	Calendar string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *CalendarError) Error() string {
	if e.Calendar != "" {
		return fmt.Sprintf("calendar %s (calendar: %s): %v", e.Op, e.Calendar, e.Err)
	}
	return fmt.Sprintf("calendar %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *CalendarError) Unwrap() error {
	return e.Err
}
