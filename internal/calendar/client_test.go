package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records scripts and returns a canned reply.
type fakeRunner struct {
	out     string
	err     error
	scripts []string
}

func (f *fakeRunner) Run(_ context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	return f.out, f.err
}

func TestListCalendars(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		expected []Calendar
	}{
		{
			name: "two calendars in enumeration order",
			out:  "Work" + recordDelimiter + "Home",
			expected: []Calendar{
				{Name: "Work", ID: "0"},
				{Name: "Home", ID: "1"},
			},
		},
		{
			name:     "single calendar",
			out:      "Personal",
			expected: []Calendar{{Name: "Personal", ID: "0"}},
		},
		{
			name:     "no calendars",
			out:      "",
			expected: []Calendar{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(&fakeRunner{out: tt.out}, "")

			got, err := client.ListCalendars(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestListCalendarsRunnerError(t *testing.T) {
	client := NewClient(&fakeRunner{err: errors.New("boom")}, "")

	_, err := client.ListCalendars(context.Background())
	require.Error(t, err)

	var calErr *CalendarError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, "listCalendars", calErr.Op)
}

func TestListEventsEmptyReply(t *testing.T) {
	client := NewClient(&fakeRunner{out: ""}, "")

	events, err := client.ListEvents(context.Background(), time.Now(), time.Now().Add(time.Hour), "")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestListEventsParsesRecords(t *testing.T) {
	fields := []string{
		"ABC-123",
		"Standup",
		"2024-3-1T32400", // 09:00:00
		"2024-3-1T33300", // 09:15:00
		"",
		"Work",
		"false",
	}
	runner := &fakeRunner{out: strings.Join(fields, fieldDelimiter)}
	client := NewClient(runner, "")

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local)

	events, err := client.ListEvents(context.Background(), start, end, "Work")
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "ABC-123", ev.ID)
	assert.Equal(t, "Standup", ev.Summary)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local), ev.Start)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 15, 0, 0, time.Local), ev.End)
	assert.Empty(t, ev.Location)
	assert.Equal(t, "Work", ev.CalendarName)
	assert.False(t, ev.AllDay)
}

func TestListEventsMultipleRecords(t *testing.T) {
	rec := func(uid, summary string) string {
		return strings.Join([]string{
			uid, summary, "2024-3-1T32400", "2024-3-1T36000", "Office", "Home", "true",
		}, fieldDelimiter)
	}
	runner := &fakeRunner{out: rec("A", "One") + recordDelimiter + rec("B", "Two")}
	client := NewClient(runner, "")

	events, err := client.ListEvents(context.Background(), time.Now(), time.Now(), "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "One", events[0].Summary)
	assert.Equal(t, "Two", events[1].Summary)
	assert.True(t, events[0].AllDay)
}

func TestParseEventRecordMalformed(t *testing.T) {
	tests := []struct {
		name string
		rec  string
	}{
		{
			name: "too few fields",
			rec:  "uid" + fieldDelimiter + "summary",
		},
		{
			name: "bad start date",
			rec: strings.Join([]string{
				"uid", "s", "not-a-date", "2024-3-1T0", "", "Work", "false",
			}, fieldDelimiter),
		},
		{
			name: "time of day out of range",
			rec: strings.Join([]string{
				"uid", "s", "2024-3-1T90000", "2024-3-1T0", "", "Work", "false",
			}, fieldDelimiter),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEventRecord(tt.rec)
			assert.Error(t, err)
		})
	}
}

func TestCreateEventReturnsTitleAsID(t *testing.T) {
	runner := &fakeRunner{out: "Standup"}
	client := NewClient(runner, "Work")

	id, err := client.CreateEvent(context.Background(), EventInput{
		Title: "Standup",
		Start: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
		End:   time.Date(2024, 3, 1, 9, 15, 0, 0, time.Local),
	})
	require.NoError(t, err)
	assert.Equal(t, "Standup", id)

	// The configured default calendar is used when none is named.
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], `tell calendar "Work"`)
}

func TestCreateEventFailure(t *testing.T) {
	client := NewClient(&fakeRunner{err: errors.New("Calendar got an error")}, "")

	_, err := client.CreateEvent(context.Background(), EventInput{Title: "X"})
	require.Error(t, err)

	var calErr *CalendarError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, "createEvent", calErr.Op)
}

func TestUpdateEventNoChangesIsNoOp(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, "")

	err := client.UpdateEvent(context.Background(), "Standup", "Work", "", UpdateInput{})
	require.NoError(t, err)
	assert.Empty(t, runner.scripts, "no external call must be made")
}

func TestUpdateEventWithChanges(t *testing.T) {
	runner := &fakeRunner{out: "ok"}
	client := NewClient(runner, "")

	err := client.UpdateEvent(context.Background(), "Standup", "Work", "", UpdateInput{
		NewTitle: "Standup (moved)",
	})
	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], `set summary of target to "Standup (moved)"`)
}

func TestDeleteEventFailureSurfacesDiagnostic(t *testing.T) {
	runner := &fakeRunner{err: errors.New("event not found: Standup")}
	client := NewClient(runner, "")

	err := client.DeleteEvent(context.Background(), "Standup", "Work", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event not found")
}

func TestParseInputTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "bare local datetime",
			input: "2024-03-01T09:00:00",
			want:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
		},
		{
			name:  "space-separated datetime",
			input: "2024-03-01 09:00:00",
			want:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
		},
		{
			name:  "date only",
			input: "2024-03-01",
			want:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "rfc3339 utc",
			input: "2024-03-01T09:00:00Z",
			want:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInputTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}
