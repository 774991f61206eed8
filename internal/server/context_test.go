package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maclab/applecal/internal/config"
)

func TestNewServerContextDefaults(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	require.NoError(t, err)

	cfg := sc.Config()
	require.NotNil(t, cfg)
	assert.Equal(t, "Calendar", cfg.DefaultCalendar)
	assert.NotNil(t, sc.Metrics(), "metrics recorder must never be nil")
	assert.False(t, sc.IsShutdown())
}

func TestCalendarClientIsCached(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DefaultCalendar = "Work"

	sc, err := NewServerContext(context.Background(), cfg)
	require.NoError(t, err)

	first := sc.CalendarClient()
	require.NotNil(t, first)
	assert.Equal(t, "Work", first.DefaultCalendar())

	second := sc.CalendarClient()
	assert.Same(t, first, second, "client must be created once and reused")
}

func TestSetMetricsNilFallsBackToNoop(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	require.NoError(t, err)

	sc.SetMetrics(nil)
	assert.NotNil(t, sc.Metrics())
}

func TestShutdownIsIdempotent(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())

	// Second shutdown is a no-op.
	require.NoError(t, sc.Shutdown())

	select {
	case <-sc.Context().Done():
	default:
		t.Fatal("context must be cancelled after shutdown")
	}
}
