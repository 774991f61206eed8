package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collectedMetricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	return names
}

func TestRecordToolInvocation(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordToolInvocation(context.Background(), "list_events", StatusSuccess, 120*time.Millisecond)

	names := collectedMetricNames(t, reader)
	assert.True(t, names["mcp_tool_invocations_total"])
	assert.True(t, names["mcp_tool_duration_seconds"])
}

func TestRecordScriptExecution(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordScriptExecution(context.Background(), "createEvent", StatusError, 2*time.Second)

	names := collectedMetricNames(t, reader)
	assert.True(t, names["osascript_executions_total"])
	assert.True(t, names["osascript_execution_duration_seconds"])
}

func TestRecordHTTPRequest(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordHTTPRequest(context.Background(), "POST", "/mcp", 200, 5*time.Millisecond)

	names := collectedMetricNames(t, reader)
	assert.True(t, names["http_requests_total"])
	assert.True(t, names["http_request_duration_seconds"])
}

// A zero-value Metrics must be a safe no-op recorder.
func TestZeroValueMetricsDoesNotPanic(t *testing.T) {
	m := &Metrics{}

	assert.NotPanics(t, func() {
		m.RecordToolInvocation(context.Background(), "list_events", StatusSuccess, time.Second)
		m.RecordScriptExecution(context.Background(), "listCalendars", StatusSuccess, time.Second)
		m.RecordHTTPRequest(context.Background(), "GET", "/healthz", 200, time.Millisecond)
	})
}
