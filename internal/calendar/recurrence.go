package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// defaultRecurrenceCap bounds how many occurrences a single expansion may
// yield when the caller does not supply a cap.
const defaultRecurrenceCap = 100

// ExpandRecurrence expands an RRULE string into concrete occurrence start
// times within [start, until], anchored at start. The returned bool reports
// whether the occurrence cap truncated the expansion.
//
// Calendar's own AppleScript dictionary has no workable recurrence surface,
// so recurring series are materialized as individual events by the caller.
func ExpandRecurrence(rule string, start, until time.Time, maxOccurrences int) ([]time.Time, bool, error) {
	if maxOccurrences <= 0 {
		maxOccurrences = defaultRecurrenceCap
	}
	if until.Before(start) {
		return nil, false, fmt.Errorf("until %s is before start %s", until.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	// Accept both bare rules ("FREQ=WEEKLY;...") and prefixed ones.
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, false, fmt.Errorf("invalid RRULE: %w", err)
	}
	r.DTStart(start)

	occurrences := r.Between(start, until, true)

	truncated := false
	if len(occurrences) > maxOccurrences {
		occurrences = occurrences[:maxOccurrences]
		truncated = true
	}

	return occurrences, truncated, nil
}
