package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolInvocationComplete(t *testing.T) {
	ti := NewToolInvocation("create_event").
		WithCalendar("Work").
		WithOperation("create")

	ti.CompleteSuccess()

	assert.True(t, ti.Success)
	assert.Equal(t, StatusSuccess, ti.Status())
	assert.Empty(t, ti.Error)
	assert.GreaterOrEqual(t, ti.Duration, time.Duration(0))
}

func TestToolInvocationCompleteWithError(t *testing.T) {
	ti := NewToolInvocation("delete_event")
	ti.CompleteWithError(errors.New("event not found: Standup"))

	assert.False(t, ti.Success)
	assert.Equal(t, StatusError, ti.Status())
	assert.Contains(t, ti.Error, "event not found")
}

func TestToolInvocationLogAttrs(t *testing.T) {
	ti := NewToolInvocation("update_event").WithCalendar("Home").WithOperation("update")
	ti.CompleteSuccess()

	attrs := ti.LogAttrs()

	keys := map[string]bool{}
	for _, a := range attrs {
		keys[a.Key] = true
	}
	assert.True(t, keys["tool"])
	assert.True(t, keys["calendar"])
	assert.True(t, keys["operation"])
	assert.True(t, keys["status"])
	assert.False(t, keys["error"], "no error attr on success")
}

func TestAuditLoggerLogsInvocations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLogger(logger)

	al.LogToolInvocation(NewToolInvocation("list_calendars").CompleteSuccess())
	require.Contains(t, buf.String(), "tool_executed")
	require.Contains(t, buf.String(), "tool=list_calendars")

	buf.Reset()
	al.LogToolInvocation(NewToolInvocation("delete_event").CompleteWithError(errors.New("boom")))
	assert.Contains(t, buf.String(), "tool_failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestAuditLoggerDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation("list_calendars").CompleteSuccess())
	assert.Empty(t, buf.String())
}
