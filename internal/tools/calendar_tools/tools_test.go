package calendar_tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/maclab/applecal/internal/calendar"
	"github.com/maclab/applecal/internal/config"
	"github.com/maclab/applecal/internal/server"
)

// Delimiters used by the AppleScript reply protocol, spelled out here so the
// canned runner output stays readable.
const (
	testRecordDelim = "<<|>>"
	testFieldDelim  = "<<,>>"
)

// fakeRunner satisfies calendar.ScriptRunner with canned output.
type fakeRunner struct {
	out     string
	err     error
	scripts []string
}

func (f *fakeRunner) Run(_ context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	return f.out, f.err
}

// newTestContext builds a ServerContext whose Calendar client is backed by
// the given fake runner.
func newTestContext(t *testing.T, runner *fakeRunner) *server.ServerContext {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DefaultCalendar = "Work"

	sc, err := server.NewServerContext(context.Background(), cfg)
	require.NoError(t, err)
	sc.SetCalendarClient(calendar.NewClient(runner, cfg.DefaultCalendar))
	return sc
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestStringArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		key     string
		want    string
		present bool
	}{
		{
			name:    "present string",
			args:    map[string]interface{}{"title": "Standup"},
			key:     "title",
			want:    "Standup",
			present: true,
		},
		{
			name:    "absent key",
			args:    map[string]interface{}{},
			key:     "title",
			present: false,
		},
		{
			name:    "empty string counts as absent",
			args:    map[string]interface{}{"title": ""},
			key:     "title",
			present: false,
		},
		{
			name:    "wrong type counts as absent",
			args:    map[string]interface{}{"title": 42},
			key:     "title",
			present: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := stringArg(tt.args, tt.key)
			require.Equal(t, tt.present, present)
			if tt.present {
				require.Equal(t, tt.want, got)
			}
		})
	}
}
