package server

import (
	"context"
	"sync"
	"time"

	"github.com/maclab/applecal/internal/calendar"
	"github.com/maclab/applecal/internal/config"
	"github.com/maclab/applecal/internal/instrumentation"
	"github.com/maclab/applecal/internal/osascript"
)

// ServerContext holds the context for the MCP server.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Config
	client   *calendar.Client
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context.
//
// The Calendar client is created lazily on first use so that commands which
// never reach Calendar.app (version, help) do not touch osascript at all.
func NewServerContext(ctx context.Context, cfg *config.Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.Normalize()

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		cfg:      cfg,
		metrics:  &instrumentation.Metrics{},
		shutdown: false,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the application configuration.
func (sc *ServerContext) Config() *config.Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.cfg
}

// CalendarClient returns the Calendar client, creating and caching it on
// first use.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.client != nil {
		return sc.client
	}

	runner := osascript.NewRunner(
		sc.cfg.OsascriptPath,
		time.Duration(sc.cfg.ScriptTimeoutSeconds)*time.Second,
		time.Duration(sc.cfg.LaunchGraceMs)*time.Millisecond,
	)
	sc.client = calendar.NewClient(runner, sc.cfg.DefaultCalendar)
	return sc.client
}

// SetCalendarClient sets the Calendar client. Used by tests to substitute a
// client backed by a fake script runner.
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// Metrics returns the metrics recorder. Never nil; when instrumentation is
// not configured a no-op recorder is returned.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if m == nil {
		m = &instrumentation.Metrics{}
	}
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is not
// configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.audit = al
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
